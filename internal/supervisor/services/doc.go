// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

/*
Package services provides suture.Service wrappers for Quarry components.

Each wrapper translates a component's own lifecycle into suture's
context-aware Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTPServerService wraps *http.Server. ListenAndServe runs in a goroutine;
cancellation triggers Shutdown with a bounded timeout. A bind failure is
returned so the supervisor retries with backoff.

ComponentsService wraps a Start/Shutdown pair, used for the NATS stack
(embedded server, stream, publisher and subscriber).

RouterService wraps the event log's Watermill router. The router cannot be
restarted once stopped, so an unexpected exit ends the service with
suture.ErrDoNotRestart.

The event dispatcher implements suture.Service itself and needs no wrapper.
*/
package services
