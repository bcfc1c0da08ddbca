// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package eventprocessor

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/quarry/internal/logging"
	"github.com/tomtom215/quarry/internal/metrics"
)

// Broadcaster fans a mutation event out to live listeners.
// BroadcastMutation must not block.
type Broadcaster interface {
	BroadcastMutation(event *MutationEvent)
}

// LiveFeed forwards consumed mutation events to a Broadcaster.
type LiveFeed struct {
	broadcaster Broadcaster
	serializer  *Serializer
}

// NewLiveFeed creates a LiveFeed writing to b.
func NewLiveFeed(b Broadcaster) (*LiveFeed, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: broadcaster is required", ErrInvalidConfig)
	}
	return &LiveFeed{broadcaster: b, serializer: NewSerializer()}, nil
}

// Register adds one consumer handler per topic to r. sub must not share a
// queue group or durable consumer with the event log, or the two would
// split the stream between them.
func (f *LiveFeed) Register(r *Router, sub message.Subscriber, topics []string) {
	for _, topic := range topics {
		r.AddConsumerHandler("live-feed."+topic, topic, sub, f.Handle)
	}
}

// Handle broadcasts one message. It never returns an error: a live feed
// has no use for a retried or late event.
func (f *LiveFeed) Handle(msg *message.Message) error {
	topic := message.SubscribeTopicFromCtx(msg.Context())

	event, err := f.serializer.Unmarshal(msg.Payload)
	if err == nil {
		err = event.Validate()
	}
	if err != nil {
		metrics.RecordEventConsumed(topic, "invalid")
		logging.Debug().Err(err).
			Str("message_uuid", msg.UUID).
			Msg("Skipping invalid mutation event for live feed")
		return nil
	}

	f.broadcaster.BroadcastMutation(event)
	metrics.RecordEventConsumed(topic, "broadcast")
	return nil
}
