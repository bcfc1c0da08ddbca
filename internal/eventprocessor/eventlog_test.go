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

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/quarry/internal/models"
)

type memoryRecorder struct {
	mu       sync.Mutex
	events   []*MutationEvent
	failures int // remaining calls that fail
	calls    int
}

func (m *memoryRecorder) RecordEvent(_ context.Context, e *MutationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failures > 0 {
		m.failures--
		return errors.New("store unavailable")
	}
	m.events = append(m.events, e)
	return nil
}

func (m *memoryRecorder) snapshot() ([]*MutationEvent, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MutationEvent(nil), m.events...), m.calls
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// startEventLog runs an event log router over an in-memory pub/sub and
// returns a publisher for the same pub/sub.
func startEventLog(t *testing.T, rec EventRecorder) *Publisher {
	t.Helper()

	pubsub := NewInMemoryPubSub(nil)
	cfg := DefaultRouterConfig()
	cfg.RetryInitialInterval = time.Millisecond
	cfg.RetryMaxInterval = 5 * time.Millisecond

	router, err := NewRouter(&cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	log, err := NewEventLog(rec)
	if err != nil {
		t.Fatal(err)
	}
	log.Register(router, pubsub, Topics("", []string{models.EntityOrder, models.EntityProduct}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = router.Run(ctx)
	}()
	<-router.Running()

	pub, err := NewPublisher(pubsub, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		cancel()
		<-done
		_ = pub.Close()
	})
	return pub
}

// ===================================================================================================
// Topics
// ===================================================================================================

func TestTopics(t *testing.T) {
	topics := Topics("shop", []string{"order"})
	want := []string{
		"shop.order.create",
		"shop.order.update",
		"shop.order.delete",
		"shop.order.change_status",
	}
	if len(topics) != len(want) {
		t.Fatalf("Topics() = %v", topics)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Errorf("topic[%d] = %s, want %s", i, topics[i], want[i])
		}
	}

	if got := Topics("", []string{"product"})[0]; got != DefaultTopicPrefix+".product.create" {
		t.Errorf("default prefix topic = %s", got)
	}
}

func TestNewEventLog_NilRecorder(t *testing.T) {
	if _, err := NewEventLog(nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewEventLog(nil) error = %v", err)
	}
}

// ===================================================================================================
// Consumption
// ===================================================================================================

func TestEventLog_RecordsPublishedEvents(t *testing.T) {
	rec := &memoryRecorder{}
	pub := startEventLog(t, rec)

	first := NewMutationEvent(models.EntityOrder, "o-1", models.EditActionChangeStatus)
	second := NewMutationEvent(models.EntityProduct, "p-1", models.EditActionDelete)
	for _, e := range []*MutationEvent{first, second} {
		if err := pub.PublishEvent(context.Background(), "", e); err != nil {
			t.Fatalf("PublishEvent() error = %v", err)
		}
	}

	waitFor(t, func() bool {
		events, _ := rec.snapshot()
		return len(events) == 2
	})

	events, _ := rec.snapshot()
	seen := map[string]bool{}
	for _, e := range events {
		seen[e.EventID] = true
	}
	if !seen[first.EventID] || !seen[second.EventID] {
		t.Errorf("recorded = %v", seen)
	}
}

func TestEventLog_RetriesRecorderErrors(t *testing.T) {
	rec := &memoryRecorder{failures: 2}
	pub := startEventLog(t, rec)

	event := NewMutationEvent(models.EntityOrder, "o-1", models.EditActionUpdate)
	if err := pub.PublishEvent(context.Background(), "", event); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool {
		events, _ := rec.snapshot()
		return len(events) == 1
	})
	if _, calls := rec.snapshot(); calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestEventLog_DropsAfterRetries(t *testing.T) {
	rec := &memoryRecorder{failures: 100}
	pub := startEventLog(t, rec)

	if err := pub.PublishEvent(context.Background(), "", NewMutationEvent(models.EntityOrder, "o-1", models.EditActionDelete)); err != nil {
		t.Fatal(err)
	}
	// One initial attempt plus DefaultRouterConfig().RetryMaxRetries.
	waitFor(t, func() bool {
		_, calls := rec.snapshot()
		return calls == 1+DefaultRouterConfig().RetryMaxRetries
	})

	time.Sleep(100 * time.Millisecond)
	if _, calls := rec.snapshot(); calls != 1+DefaultRouterConfig().RetryMaxRetries {
		t.Errorf("message should be dropped, recorder called %d times", calls)
	}
}

func TestEventLog_HandleInvalidPayload(t *testing.T) {
	rec := &memoryRecorder{}
	log, _ := NewEventLog(rec)

	for _, payload := range [][]byte{
		[]byte("not json"),
		[]byte(`{"event_id":"x","entity_type":"order"}`),
	} {
		msg := message.NewMessage(watermill.NewUUID(), payload)
		if err := log.Handle(msg); err != nil {
			t.Errorf("Handle(%s) error = %v, want nil", payload, err)
		}
	}
	if _, calls := rec.snapshot(); calls != 0 {
		t.Errorf("recorder called %d times for invalid events", calls)
	}
}
