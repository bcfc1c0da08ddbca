// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

//go:build !nats

package eventprocessor

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// NewNATSPublisher returns ErrNATSNotEnabled.
// Build with -tags=nats to enable the JetStream publisher.
func NewNATSPublisher(_ PublisherConfig, _ watermill.LoggerAdapter) (message.Publisher, error) {
	return nil, ErrNATSNotEnabled
}
