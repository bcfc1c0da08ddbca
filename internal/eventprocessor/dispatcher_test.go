// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package eventprocessor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/quarry/internal/logging"
)

// blockingPublisher records events and optionally waits on release.
type blockingPublisher struct {
	mu      sync.Mutex
	events  []*MutationEvent
	ctxErrs []error
	err     error
	release chan struct{}
}

func (b *blockingPublisher) PublishEvent(ctx context.Context, _ string, event *MutationEvent) error {
	if b.release != nil {
		<-b.release
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	b.ctxErrs = append(b.ctxErrs, ctx.Err())
	return b.err
}

func (b *blockingPublisher) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

func newTestDispatcher(t *testing.T, pub EventPublisher) *Dispatcher {
	t.Helper()
	cfg := DefaultDispatcherConfig()
	cfg.RatePerSecond = 0
	d, err := NewDispatcher(pub, cfg)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	return d
}

func drain(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Drain(ctx); err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
}

func TestNewDispatcher_Errors(t *testing.T) {
	if _, err := NewDispatcher(nil, DefaultDispatcherConfig()); !errors.Is(err, ErrNilPublisher) {
		t.Errorf("Expected ErrNilPublisher, got %v", err)
	}
	if _, err := NewDispatcher(&blockingPublisher{}, DispatcherConfig{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestDispatcher_DispatchDoesNotBlock(t *testing.T) {
	pub := &blockingPublisher{release: make(chan struct{})}
	d := newTestDispatcher(t, pub)

	done := make(chan struct{})
	go func() {
		d.Dispatch(context.Background(), validEvent())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on the publisher")
	}

	close(pub.release)
	drain(t, d)
	if pub.count() != 1 {
		t.Errorf("Expected 1 published event, got %d", pub.count())
	}
}

func TestDispatcher_SurvivesRequestCancellation(t *testing.T) {
	pub := &blockingPublisher{release: make(chan struct{})}
	d := newTestDispatcher(t, pub)

	ctx, cancel := context.WithCancel(context.Background())
	d.Dispatch(ctx, validEvent())
	cancel()
	close(pub.release)
	drain(t, d)

	if pub.count() != 1 {
		t.Fatalf("Expected event published after request ended, got %d", pub.count())
	}
	if pub.ctxErrs[0] != nil {
		t.Errorf("Publish context should not inherit cancellation, got %v", pub.ctxErrs[0])
	}
}

func TestDispatcher_CopiesCorrelationID(t *testing.T) {
	pub := &blockingPublisher{}
	d := newTestDispatcher(t, pub)

	ctx := logging.ContextWithCorrelationID(context.Background(), "corr-7")
	event := validEvent()
	d.Dispatch(ctx, event)
	drain(t, d)

	if event.CorrelationID != "corr-7" {
		t.Errorf("Expected correlation ID from context, got %q", event.CorrelationID)
	}
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	pub := &blockingPublisher{err: errors.New("broker down")}
	d := newTestDispatcher(t, pub)

	d.Dispatch(context.Background(), validEvent())
	d.Dispatch(context.Background(), nil)
	drain(t, d)

	if pub.count() != 1 {
		t.Errorf("Expected publish attempt, got %d", pub.count())
	}
}

func TestDispatcher_DropsAfterDrain(t *testing.T) {
	pub := &blockingPublisher{}
	d := newTestDispatcher(t, pub)

	drain(t, d)
	d.Dispatch(context.Background(), validEvent())
	drain(t, d)

	if pub.count() != 0 {
		t.Errorf("Expected no publish after drain, got %d", pub.count())
	}
}

func TestDispatcher_DrainTimesOut(t *testing.T) {
	pub := &blockingPublisher{release: make(chan struct{})}
	defer close(pub.release)
	d := newTestDispatcher(t, pub)

	d.Dispatch(context.Background(), validEvent())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := d.Drain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}
}

func TestDispatcher_RateLimitTimeout(t *testing.T) {
	pub := &blockingPublisher{}
	cfg := DefaultDispatcherConfig()
	cfg.RatePerSecond = 0.001
	cfg.Burst = 1
	cfg.PublishTimeout = 50 * time.Millisecond
	d, err := NewDispatcher(pub, cfg)
	if err != nil {
		t.Fatal(err)
	}

	d.Dispatch(context.Background(), validEvent())
	d.Dispatch(context.Background(), validEvent())
	drain(t, d)

	if pub.count() != 1 {
		t.Errorf("Expected second event dropped by limiter, got %d published", pub.count())
	}
}

func TestDispatcher_Serve(t *testing.T) {
	pub := &blockingPublisher{}
	d := newTestDispatcher(t, pub)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- d.Serve(ctx) }()

	d.Dispatch(context.Background(), validEvent())
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if pub.count() != 1 {
		t.Errorf("Expected in-flight event drained, got %d", pub.count())
	}
	if d.String() != "event-dispatcher" {
		t.Errorf("String() = %q", d.String())
	}
}

func TestDispatcher_EndToEndInMemory(t *testing.T) {
	event := validEvent()
	pub, msgs := subscribe(t, event.Topic(DefaultTopicPrefix))
	d := newTestDispatcher(t, pub)

	d.Dispatch(context.Background(), event)
	msg := receive(t, msgs)
	drain(t, d)

	if msg.UUID != event.EventID {
		t.Errorf("Expected UUID=%s, got %s", event.EventID, msg.UUID)
	}
}
