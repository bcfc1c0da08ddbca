// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package eventprocessor

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/quarry/internal/logging"
	"github.com/tomtom215/quarry/internal/metrics"
	"github.com/tomtom215/quarry/internal/models"
)

// EventRecorder stores consumed mutation events.
type EventRecorder interface {
	RecordEvent(ctx context.Context, event *MutationEvent) error
}

// Topics lists every subject a mutation on one of entities can be
// published to. NONE never publishes and is left out.
func Topics(prefix string, entities []string) []string {
	topics := make([]string, 0, len(entities)*len(models.EditActions()))
	for _, entity := range entities {
		for _, action := range models.EditActions() {
			if !action.Mutates() {
				continue
			}
			e := MutationEvent{EntityType: entity, Action: action}
			topics = append(topics, e.Topic(prefix))
		}
	}
	return topics
}

// EventLog feeds mutation events from a subscriber into a recorder.
type EventLog struct {
	recorder   EventRecorder
	serializer *Serializer
}

// NewEventLog creates an EventLog writing to recorder.
func NewEventLog(recorder EventRecorder) (*EventLog, error) {
	if recorder == nil {
		return nil, fmt.Errorf("%w: event recorder is required", ErrInvalidConfig)
	}
	return &EventLog{recorder: recorder, serializer: NewSerializer()}, nil
}

// Register adds one consumer handler per topic to r.
//
// One handler per topic rather than a wildcard keeps the in-memory
// pub/sub usable, which only matches exact topic names.
func (l *EventLog) Register(r *Router, sub message.Subscriber, topics []string) {
	for _, topic := range topics {
		r.AddConsumerHandler("event-log."+topic, topic, sub, l.Handle)
	}
}

// Handle records one message. A payload that is not a valid event is
// dropped; a recorder error is returned so the router retries.
func (l *EventLog) Handle(msg *message.Message) error {
	topic := message.SubscribeTopicFromCtx(msg.Context())

	event, err := l.serializer.Unmarshal(msg.Payload)
	if err == nil {
		err = event.Validate()
	}
	if err != nil {
		metrics.RecordEventConsumed(topic, "invalid")
		logging.Warn().Err(err).
			Str("message_uuid", msg.UUID).
			Str("topic", topic).
			Msg("Discarding invalid mutation event")
		return nil
	}

	ctx := logging.ContextWithCorrelationID(msg.Context(), event.CorrelationID)
	if err := l.recorder.RecordEvent(ctx, event); err != nil {
		metrics.RecordEventConsumed(topic, "error")
		return fmt.Errorf("record event %s: %w", event.EventID, err)
	}

	metrics.RecordEventConsumed(topic, "recorded")
	logging.Ctx(ctx).Debug().
		Str("event_id", event.EventID).
		Str("topic", topic).
		Msg("Mutation event recorded")
	return nil
}
