// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/quarry/internal/logging"
)

// MessageRouter is the lifecycle of eventprocessor.Router.
type MessageRouter interface {
	Run(ctx context.Context) error
	Handlers() int
}

// RouterService runs a message router under supervision.
//
// A Watermill router closes its subscribers when it stops and cannot be run
// again, so an unexpected exit is reported with suture.ErrDoNotRestart
// instead of looping on a dead router.
type RouterService struct {
	router MessageRouter
	name   string
}

// NewRouterService wraps router under name.
func NewRouterService(name string, router MessageRouter) *RouterService {
	return &RouterService{router: router, name: name}
}

// Serve implements suture.Service.
func (s *RouterService) Serve(ctx context.Context) error {
	log := logging.WithComponent(s.name)
	log.Info().Int("handlers", s.router.Handlers()).Msg("Message router starting")

	err := s.router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = fmt.Errorf("%s stopped", s.name)
	}
	log.Error().Err(err).Msg("Message router exited, not restarting")
	return fmt.Errorf("%w: %w", suture.ErrDoNotRestart, err)
}

// String implements fmt.Stringer for suture logs.
func (s *RouterService) String() string {
	return s.name
}
