// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

// Package logging provides the process-wide zerolog logger.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//
//	logging.Info().Str("addr", addr).Msg("HTTP server listening")
//	logging.Err(err).Msg("Operation failed")
//	logging.Ctx(ctx).Warn().Str("entity", e).Msg("sort rejected")
//
// Always terminate chains with Msg or Send; an unterminated event is dropped.
//
// # Request Correlation
//
// The request ID middleware stores an ID in the request context; Ctx copies it
// and any correlation ID into each entry, so the search, mutation and publish
// log lines of one request can be joined.
//
// # slog Bridge
//
// NewSlogLogger exposes the same output as a *slog.Logger for the supervisor
// tree and the message broker client.
package logging
