// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

//go:build !nats

package eventprocessor

import "context"

// StreamInfo is the subset of stream state reported by health checks.
type StreamInfo struct {
	Name     string
	Messages uint64
	Bytes    uint64
}

// StreamManager is a stub when NATS dependencies are not available.
type StreamManager struct{}

// NewStreamManager returns ErrNATSNotEnabled.
func NewStreamManager(_ string, _ *StreamConfig) (*StreamManager, error) {
	return nil, ErrNATSNotEnabled
}

// EnsureStream returns ErrNATSNotEnabled.
func (m *StreamManager) EnsureStream(_ context.Context) error {
	return ErrNATSNotEnabled
}

// Info returns ErrNATSNotEnabled.
func (m *StreamManager) Info(_ context.Context) (StreamInfo, error) {
	return StreamInfo{}, ErrNATSNotEnabled
}

// Close is a no-op stub.
func (m *StreamManager) Close() error {
	return nil
}
