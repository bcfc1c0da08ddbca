// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

// Package mutation applies tagged edits: validate, commit through a
// Committer, then hand a MutationEvent to an EventSink.
//
// The commit is the only step whose failure reaches the caller. Event
// publication is best effort and never rolls a commit back.
package mutation
