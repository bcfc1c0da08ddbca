// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

// Package eventprocessor publishes mutation events to a message broker.
//
// # Architecture
//
//	mutation.Service -> Dispatcher.Dispatch -> Publisher -> message.Publisher
//	                    (goroutine, timeout,   (breaker,     (gochannel or
//	                     rate limit)            Nats-Msg-Id)   NATS JetStream)
//
// Publisher accepts any Watermill message.Publisher. Without the nats build
// tag NewNATSPublisher, NewEmbeddedServer and NewStreamManager return
// ErrNATSNotEnabled and the application runs on NewInMemoryPubSub.
//
// # Topics
//
// Events are published on <prefix>.<entity>.<action>, for example
// quarry.mutations.order.change_status. The JetStream stream subscribes to
// <prefix>.> and deduplicates on the Nats-Msg-Id header, which is the event ID.
//
// # Delivery
//
// Dispatch is fire-and-forget. Broker outages are absorbed by the circuit
// breaker and surface only in logs and the events_publish_failed_total metric.
package eventprocessor
