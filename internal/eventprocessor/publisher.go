// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/quarry/internal/metrics"
)

// MsgIDHeader is the JetStream deduplication header. Every published
// message carries it, set from the message UUID unless already present.
const MsgIDHeader = "Nats-Msg-Id"

// Publisher wraps a Watermill publisher with circuit breaker protection.
// The transport is whatever message.Publisher it was built with: NATS
// JetStream in production, gochannel in memory.
type Publisher struct {
	publisher      message.Publisher
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]
	mu             sync.RWMutex
	closed         bool
}

// NewPublisher wraps pub. cb may be nil to publish without a breaker.
func NewPublisher(pub message.Publisher, cb *gobreaker.CircuitBreaker[interface{}]) (*Publisher, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	return &Publisher{publisher: pub, circuitBreaker: cb}, nil
}

// Publish sends payload to topic.
//
// payload may be a *message.Message (sent as-is), a *MutationEvent
// (validated and serialized), raw []byte, or any other value, which is
// encoded as JSON.
func (p *Publisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	if topic == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidConfig)
	}
	msg, err := toMessage(payload)
	if err != nil {
		return err
	}
	return p.PublishMessage(ctx, topic, msg)
}

// PublishEvent serializes and publishes a mutation event on its topic.
func (p *Publisher) PublishEvent(ctx context.Context, prefix string, event *MutationEvent) error {
	if event == nil {
		return ErrNilEvent
	}
	msg, err := eventMessage(event)
	if err != nil {
		return err
	}
	return p.PublishMessage(ctx, event.Topic(prefix), msg)
}

// PublishMessage sends msg to topic with circuit breaker protection.
// The message UUID is used as Nats-Msg-Id for deduplication if not already set.
func (p *Publisher) PublishMessage(ctx context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordEventPublishFailed(topic, "context")
		return err
	}

	if msg.Metadata.Get(MsgIDHeader) == "" {
		msg.Metadata.Set(MsgIDHeader, msg.UUID)
	}
	msg.SetContext(ctx)

	var err error
	if p.circuitBreaker != nil {
		_, err = p.circuitBreaker.Execute(func() (interface{}, error) {
			return nil, p.publisher.Publish(topic, msg)
		})
	} else {
		err = p.publisher.Publish(topic, msg)
	}

	if err != nil {
		metrics.RecordEventPublishFailed(topic, publishFailureReason(err))
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	metrics.RecordEventPublished(topic)
	return nil
}

// Close shuts down the underlying publisher. It is safe to call twice.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}

func toMessage(payload interface{}) (*message.Message, error) {
	switch v := payload.(type) {
	case nil:
		return nil, fmt.Errorf("%w: payload is required", ErrInvalidConfig)
	case *message.Message:
		return v, nil
	case *MutationEvent:
		return eventMessage(v)
	case []byte:
		return message.NewMessage(watermill.NewUUID(), v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		return message.NewMessage(watermill.NewUUID(), data), nil
	}
}

func eventMessage(event *MutationEvent) (*message.Message, error) {
	data, err := SerializeEvent(event)
	if err != nil {
		return nil, fmt.Errorf("serialize event: %w", err)
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("entity_type", event.EntityType)
	msg.Metadata.Set("entity_id", event.EntityID)
	msg.Metadata.Set("action", event.Action.Code())
	if event.CorrelationID != "" {
		msg.Metadata.Set("correlation_id", event.CorrelationID)
	}
	return msg, nil
}

func publishFailureReason(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "context"
	default:
		return "broker"
	}
}
