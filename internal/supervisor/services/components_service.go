// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package services

import (
	"context"
	"fmt"
	"time"
)

// Components is a group of resources with a Start/Shutdown lifecycle, such
// as the embedded NATS server and its stream.
type Components interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
}

// ComponentsService adapts Start/Shutdown to suture's Serve.
//
// A Start error is returned and the supervisor retries with backoff.
type ComponentsService struct {
	components      Components
	name            string
	shutdownTimeout time.Duration
}

// NewComponentsService wraps components under name.
func NewComponentsService(name string, components Components, shutdownTimeout time.Duration) *ComponentsService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &ComponentsService{
		components:      components,
		name:            name,
		shutdownTimeout: shutdownTimeout,
	}
}

// Serve implements suture.Service.
func (s *ComponentsService) Serve(ctx context.Context) error {
	if err := s.components.Start(ctx); err != nil {
		return fmt.Errorf("%s start failed: %w", s.name, err)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.components.Shutdown(shutdownCtx)

	return ctx.Err()
}

// String implements fmt.Stringer for suture logs.
func (s *ComponentsService) String() string {
	return s.name
}
