// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package eventprocessor

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/tomtom215/quarry/internal/logging"
	"github.com/tomtom215/quarry/internal/metrics"
)

// EventPublisher is the part of Publisher the dispatcher needs.
type EventPublisher interface {
	PublishEvent(ctx context.Context, prefix string, event *MutationEvent) error
}

// Dispatcher publishes mutation events in the background.
//
// Dispatch never blocks on the broker and never reports failure to the
// caller: a committed edit stays committed whether or not its event is
// delivered. Failures are logged and counted.
type Dispatcher struct {
	pub     EventPublisher
	cfg     DispatcherConfig
	limiter *rate.Limiter

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher over pub.
func NewDispatcher(pub EventPublisher, cfg DispatcherConfig) (*Dispatcher, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Dispatcher{pub: pub, cfg: cfg}
	if cfg.RatePerSecond > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst)
	}
	return d, nil
}

// Dispatch schedules event for publication and returns immediately.
//
// The publish runs detached from ctx cancellation so a finished HTTP
// request does not abort it, but keeps ctx values for log correlation.
func (d *Dispatcher) Dispatch(ctx context.Context, event *MutationEvent) {
	if event == nil {
		return
	}
	if event.CorrelationID == "" {
		event.CorrelationID = logging.CorrelationIDFromContext(ctx)
	}

	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		metrics.RecordEventPublishFailed(event.Topic(d.cfg.TopicPrefix), "closed")
		logging.Ctx(ctx).Warn().
			Err(ErrDispatcherClosed).
			Str("event_id", event.EventID).
			Msg("Dropping mutation event")
		return
	}
	d.wg.Add(1)
	d.mu.RUnlock()

	go d.publish(context.WithoutCancel(ctx), event)
}

func (d *Dispatcher) publish(base context.Context, event *MutationEvent) {
	defer d.wg.Done()

	metrics.TrackEventInFlight(true)
	defer metrics.TrackEventInFlight(false)

	ctx, cancel := context.WithTimeout(base, d.cfg.PublishTimeout)
	defer cancel()

	topic := event.Topic(d.cfg.TopicPrefix)
	log := logging.Ctx(ctx).With().
		Str("event_id", event.EventID).
		Str("topic", topic).
		Logger()

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			metrics.RecordEventPublishFailed(topic, "rate_limited")
			log.Warn().Err(err).Msg("Mutation event not published")
			return
		}
	}

	if err := d.pub.PublishEvent(ctx, d.cfg.TopicPrefix, event); err != nil {
		log.Warn().Err(err).Msg("Mutation event not published")
		return
	}
	log.Debug().Msg("Mutation event published")
}

// Drain stops accepting events and waits for in-flight publishes.
func (d *Dispatcher) Drain(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain dispatcher: %w", ctx.Err())
	}
}

// Serve implements suture.Service. It blocks until ctx is canceled and
// then drains in-flight publishes within DrainTimeout.
func (d *Dispatcher) Serve(ctx context.Context) error {
	<-ctx.Done()

	drainCtx, cancel := context.WithTimeout(context.Background(), d.cfg.DrainTimeout)
	defer cancel()

	if err := d.Drain(drainCtx); err != nil {
		logging.Warn().Err(err).Msg("Dispatcher drain incomplete")
	}
	return ctx.Err()
}

// String implements fmt.Stringer for suture logs.
func (d *Dispatcher) String() string {
	return "event-dispatcher"
}
