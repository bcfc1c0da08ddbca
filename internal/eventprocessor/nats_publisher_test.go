// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

//go:build nats

package eventprocessor

import (
	"context"
	"errors"
	"testing"
	"time"

	natsgo "github.com/nats-io/nats.go"
)

func TestMsgIDHeader_MatchesClient(t *testing.T) {
	if MsgIDHeader != natsgo.MsgIdHdr {
		t.Errorf("MsgIDHeader = %q, client uses %q", MsgIDHeader, natsgo.MsgIdHdr)
	}
}

func TestNewNATSPublisher_RequiresURL(t *testing.T) {
	if _, err := NewNATSPublisher(PublisherConfig{}, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestEmbeddedServer_PublishThroughStream(t *testing.T) {
	if testing.Short() {
		t.Skip("starts an embedded NATS server")
	}

	srv, err := NewEmbeddedServer(&ServerConfig{
		Host:              "127.0.0.1",
		Port:              -1, // random port
		StoreDir:          t.TempDir(),
		JetStreamMaxMem:   64 << 20,
		JetStreamMaxStore: 64 << 20,
	})
	if err != nil {
		t.Fatalf("NewEmbeddedServer() error = %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	if !srv.IsRunning() || !srv.JetStreamEnabled() {
		t.Fatal("Expected running server with JetStream")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	streamCfg := DefaultStreamConfig()
	mgr, err := NewStreamManager(srv.ClientURL(), &streamCfg)
	if err != nil {
		t.Fatalf("NewStreamManager() error = %v", err)
	}
	defer mgr.Close()

	if err := mgr.EnsureStream(ctx); err != nil {
		t.Fatalf("EnsureStream() error = %v", err)
	}
	// Second call updates in place.
	if err := mgr.EnsureStream(ctx); err != nil {
		t.Fatalf("EnsureStream() update error = %v", err)
	}

	wmPub, err := NewNATSPublisher(DefaultPublisherConfig(srv.ClientURL()), nil)
	if err != nil {
		t.Fatalf("NewNATSPublisher() error = %v", err)
	}
	pub, _ := NewPublisher(wmPub, NewCircuitBreaker(DefaultCircuitBreakerConfig("nats-test")))
	defer pub.Close()

	event := validEvent()
	for i := 0; i < 2; i++ {
		// The duplicate is discarded by the stream's dedup window.
		if err := pub.PublishEvent(ctx, DefaultTopicPrefix, event); err != nil {
			t.Fatalf("PublishEvent() error = %v", err)
		}
	}

	info, err := mgr.Info(ctx)
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if info.Messages != 1 {
		t.Errorf("Expected 1 stored message after dedup, got %d", info.Messages)
	}
}
