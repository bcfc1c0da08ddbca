// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

//go:build integration && nats

package eventprocessor

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/quarry/internal/models"
	"github.com/tomtom215/quarry/internal/testinfra"
)

// Events published to an external JetStream broker reach the event log
// through a durable subscriber.
func TestEventLog_ExternalBroker(t *testing.T) {
	broker := testinfra.StartNATS(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	streamCfg := DefaultStreamConfig()
	streams, err := NewStreamManager(broker.URL, &streamCfg)
	if err != nil {
		t.Fatalf("NewStreamManager() error = %v", err)
	}
	defer streams.Close()
	if err := streams.EnsureStream(ctx); err != nil {
		t.Fatalf("EnsureStream() error = %v", err)
	}

	raw, err := NewNATSPublisher(DefaultPublisherConfig(broker.URL), nil)
	if err != nil {
		t.Fatalf("NewNATSPublisher() error = %v", err)
	}
	pub, err := NewPublisher(raw, NewCircuitBreaker(DefaultCircuitBreakerConfig("integration")))
	if err != nil {
		t.Fatal(err)
	}
	defer pub.Close()

	sub, err := NewNATSSubscriber(DefaultSubscriberConfig(broker.URL, streamCfg.Name), nil)
	if err != nil {
		t.Fatalf("NewNATSSubscriber() error = %v", err)
	}

	routerCfg := DefaultRouterConfig()
	router, err := NewRouter(&routerCfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	rec := &memoryRecorder{}
	eventLog, err := NewEventLog(rec)
	if err != nil {
		t.Fatal(err)
	}
	eventLog.Register(router, sub, Topics(DefaultTopicPrefix, []string{models.EntityOrder}))

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() { _ = router.Run(runCtx) }()
	select {
	case <-router.Running():
	case <-ctx.Done():
		t.Fatal("router did not start")
	}

	event := NewMutationEvent(models.EntityOrder, "o-42", models.EditActionChangeStatus)
	event.Actor = "integration"
	if err := pub.PublishEvent(ctx, DefaultTopicPrefix, event); err != nil {
		t.Fatalf("PublishEvent() error = %v", err)
	}

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		if events, _ := rec.snapshot(); len(events) == 1 {
			if events[0].EventID != event.EventID || events[0].EntityID != "o-42" {
				t.Errorf("recorded %+v", events[0])
			}
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatal("event was not recorded")
}
