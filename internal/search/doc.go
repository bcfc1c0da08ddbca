// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

// Package search turns a caller's Request into a validated Query, hands it to
// an Executor and wraps the page in a generic Envelope.
//
// Control flow:
//
//	Request -> struct tags (shape, sortable) -> Registry.Resolve -> Executor -> Envelope[T]
//
// Any rejection is a *validation.Failure and the executor is never called.
//
// An Envelope built with FromData carries DefaultSearchInfos, the zero value,
// which is indistinguishable from a computed empty page.
package search
