// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

// Package testinfra provides container fixtures for integration tests.
//
// This package uses testcontainers-go and is only compiled with the
// integration build tag:
//
//	go test -tags "integration nats" ./internal/...
//
// # NATS Container
//
// NATSContainer runs a standalone JetStream server, so the event transport
// can be exercised against a broker that lives outside the process:
//
//	func TestEventsOverExternalBroker(t *testing.T) {
//	    broker := testinfra.StartNATS(t) // skips without Docker
//
//	    pub, err := eventprocessor.NewNATSPublisher(eventprocessor.DefaultPublisherConfig(broker.URL), nil)
//	    // ...
//	}
//
// # CI Considerations
//
// Tests are skipped when Docker is unavailable. The first run pulls the
// image; later runs use the local cache.
package testinfra
