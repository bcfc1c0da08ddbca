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

type memoryBroadcaster struct {
	mu     sync.Mutex
	events []*MutationEvent
}

func (m *memoryBroadcaster) BroadcastMutation(e *MutationEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func (m *memoryBroadcaster) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func TestNewLiveFeed_NilBroadcaster(t *testing.T) {
	if _, err := NewLiveFeed(nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewLiveFeed(nil) error = %v", err)
	}
}

func TestLiveFeed_HandleInvalidPayload(t *testing.T) {
	b := &memoryBroadcaster{}
	feed, _ := NewLiveFeed(b)

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"entity_type":"order"}`))
	if err := feed.Handle(msg); err != nil {
		t.Errorf("Handle() error = %v, want nil", err)
	}
	if b.count() != 0 {
		t.Errorf("invalid event was broadcast")
	}
}

// Both consumers share one in-memory pub/sub; every handler gets its own
// copy of each message.
func TestLiveFeed_SharesSubscriberWithEventLog(t *testing.T) {
	pubsub := NewInMemoryPubSub(nil)
	cfg := DefaultRouterConfig()
	router, err := NewRouter(&cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	topics := Topics("", []string{models.EntityOrder})
	rec := &memoryRecorder{}
	log, _ := NewEventLog(rec)
	log.Register(router, pubsub, topics)

	b := &memoryBroadcaster{}
	feed, _ := NewLiveFeed(b)
	feed.Register(router, pubsub, topics)

	if got := router.Handlers(); got != 2*len(topics) {
		t.Fatalf("handlers = %d, want %d", got, 2*len(topics))
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = router.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()
	<-router.Running()

	pub, err := NewPublisher(pubsub, nil)
	if err != nil {
		t.Fatal(err)
	}
	event := NewMutationEvent(models.EntityOrder, "o-1", models.EditActionCreate)
	if err := pub.PublishEvent(context.Background(), "", event); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool {
		events, _ := rec.snapshot()
		return len(events) == 1 && b.count() == 1
	})

	time.Sleep(50 * time.Millisecond)
	if b.count() != 1 {
		t.Errorf("broadcast %d times, want 1", b.count())
	}
}
