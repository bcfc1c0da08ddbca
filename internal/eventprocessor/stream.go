// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

//go:build nats

package eventprocessor

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StreamInfo is the subset of stream state reported by health checks.
type StreamInfo struct {
	Name     string
	Messages uint64
	Bytes    uint64
}

// StreamManager handles JetStream stream lifecycle over its own connection.
type StreamManager struct {
	js     jetstream.JetStream
	nc     *nats.Conn
	config StreamConfig
}

// NewStreamManager connects to url and prepares a JetStream context.
func NewStreamManager(url string, cfg *StreamConfig) (*StreamManager, error) {
	if cfg == nil || cfg.Name == "" || len(cfg.Subjects) == 0 {
		return nil, fmt.Errorf("%w: stream name and subjects are required", ErrInvalidConfig)
	}

	nc, err := nats.Connect(url, nats.Name("quarry-stream-manager"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	return &StreamManager{
		js:     js,
		nc:     nc,
		config: *cfg,
	}, nil
}

// EnsureStream creates the stream or updates it to the configured settings.
func (m *StreamManager) EnsureStream(ctx context.Context) error {
	streamCfg := jetstream.StreamConfig{
		Name:       m.config.Name,
		Subjects:   m.config.Subjects,
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     m.config.MaxAge,
		MaxBytes:   m.config.MaxBytes,
		MaxMsgs:    m.config.MaxMsgs,
		Duplicates: m.config.DuplicateWindow,
		Replicas:   m.config.Replicas,
		Storage:    jetstream.FileStorage,
		Discard:    jetstream.DiscardOld,
	}

	_, err := m.js.Stream(ctx, m.config.Name)
	switch {
	case err == nil:
		if _, err := m.js.UpdateStream(ctx, streamCfg); err != nil {
			return fmt.Errorf("update stream: %w", err)
		}
		return nil
	case errors.Is(err, jetstream.ErrStreamNotFound):
		if _, err := m.js.CreateStream(ctx, streamCfg); err != nil {
			return fmt.Errorf("create stream: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("lookup stream: %w", err)
	}
}

// Info returns current stream state.
func (m *StreamManager) Info(ctx context.Context) (StreamInfo, error) {
	stream, err := m.js.Stream(ctx, m.config.Name)
	if err != nil {
		if errors.Is(err, jetstream.ErrStreamNotFound) {
			return StreamInfo{}, ErrStreamNotFound
		}
		return StreamInfo{}, fmt.Errorf("get stream: %w", err)
	}
	info, err := stream.Info(ctx)
	if err != nil {
		return StreamInfo{}, fmt.Errorf("stream info: %w", err)
	}
	return StreamInfo{
		Name:     info.Config.Name,
		Messages: info.State.Msgs,
		Bytes:    info.State.Bytes,
	}, nil
}

// Close drains the manager's connection.
func (m *StreamManager) Close() error {
	return m.nc.Drain()
}
