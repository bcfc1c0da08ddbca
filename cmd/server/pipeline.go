// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package main

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/quarry/internal/config"
	"github.com/tomtom215/quarry/internal/eventprocessor"
	"github.com/tomtom215/quarry/internal/logging"
)

// eventPipeline is the transport shared by the dispatcher, the event log
// and the live feed.
type eventPipeline struct {
	publisher      message.Publisher
	subscriber     message.Subscriber
	feedSubscriber message.Subscriber
	logger         watermill.LoggerAdapter

	// components is nil for the in-process transport.
	components *NATSComponents
}

// newEventPipeline selects NATS JetStream when enabled and compiled in,
// and the in-process pub/sub otherwise.
func newEventPipeline(cfg *config.Config) (*eventPipeline, error) {
	logger := eventprocessor.NewWatermillLogger()

	components, err := InitNATS(&cfg.NATS, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize NATS: %w", err)
	}
	if components != nil {
		return &eventPipeline{
			publisher:      components.Publisher(),
			subscriber:     components.Subscriber(),
			feedSubscriber: components.FeedSubscriber(),
			logger:         logger,
			components:     components,
		}, nil
	}

	// Every in-process subscription gets its own copy of each message, so
	// the event log and the live feed can share one pub/sub.
	pubSub := eventprocessor.NewInMemoryPubSub(logger)
	logging.Info().Msg("Mutation events use the in-process transport")
	return &eventPipeline{
		publisher:      pubSub,
		subscriber:     pubSub,
		feedSubscriber: pubSub,
		logger:         logger,
	}, nil
}

// Close releases the transport after the supervisor tree has stopped.
// The event router already closed the subscriber on shutdown.
func (p *eventPipeline) Close() {
	if err := p.publisher.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing event publisher")
	}
	if p.components != nil {
		p.components.Close()
	}
}
