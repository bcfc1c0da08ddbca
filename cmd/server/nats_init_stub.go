// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

//go:build !nats

package main

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/quarry/internal/config"
	"github.com/tomtom215/quarry/internal/logging"
)

// NATSComponents is a stub for non-NATS builds.
type NATSComponents struct{}

// InitNATS returns nil; events fall back to the in-process transport.
func InitNATS(cfg *config.NATSConfig, _ watermill.LoggerAdapter) (*NATSComponents, error) {
	if cfg.Enabled {
		logging.Warn().Msg("NATS_ENABLED=true but NATS support not compiled (build with -tags nats)")
	}
	return nil, nil
}

// Publisher returns nil for non-NATS builds.
func (c *NATSComponents) Publisher() message.Publisher { return nil }

// Subscriber returns nil for non-NATS builds.
func (c *NATSComponents) Subscriber() message.Subscriber { return nil }

// FeedSubscriber returns nil for non-NATS builds.
func (c *NATSComponents) FeedSubscriber() message.Subscriber { return nil }

// Start is a no-op stub for non-NATS builds.
func (c *NATSComponents) Start(_ context.Context) error { return nil }

// Shutdown is a no-op stub for non-NATS builds.
func (c *NATSComponents) Shutdown(_ context.Context) {}

// Close is a no-op stub for non-NATS builds.
func (c *NATSComponents) Close() {}
