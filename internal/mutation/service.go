// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package mutation

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/quarry/internal/eventprocessor"
	"github.com/tomtom215/quarry/internal/logging"
	"github.com/tomtom215/quarry/internal/metrics"
	"github.com/tomtom215/quarry/internal/models"
	"github.com/tomtom215/quarry/internal/validation"
)

// Errors a Committer wraps so transports can map them.
var (
	ErrNilCommitter      = errors.New("mutation: committer is required")
	ErrNotFound          = errors.New("entity not found")
	ErrUnsupportedEntity = errors.New("entity cannot be edited")
	ErrForbidden         = errors.New("action not permitted")
	ErrConflict          = errors.New("entity already exists")
)

// Mutation is one requested edit.
type Mutation struct {
	Entity  string                 `validate:"required,max=64"`
	ID      string                 `validate:"max=64"`
	Action  models.EditAction      `validate:"-"`
	Actor   string                 `validate:"max=128"`
	Changes map[string]interface{} `validate:"max=32"`
}

// Committed is what the persistence layer reports after a write.
// Snapshot, if set, becomes the event payload.
type Committed struct {
	EntityID string
	Snapshot interface{}
}

// Committer persists a mutation. Implementations wrap ErrNotFound,
// ErrConflict and ErrUnsupportedEntity where they apply.
type Committer interface {
	Commit(ctx context.Context, m Mutation) (Committed, error)
}

// EventSink receives events for committed mutations. It must not block and
// has no way to report failure.
type EventSink interface {
	Dispatch(ctx context.Context, event *eventprocessor.MutationEvent)
}

// Authorizer decides whether actor may apply action to entity. An empty
// actor is the caller's to interpret.
type Authorizer interface {
	Allowed(actor, entity, action string) (bool, error)
}

// Option configures a Service.
type Option func(*Service)

// WithAuthorizer gates every mutating action on a.
func WithAuthorizer(a Authorizer) Option {
	return func(s *Service) {
		s.authorizer = a
	}
}

// Result reports what Apply did.
type Result struct {
	Applied  bool              `json:"applied"`
	Action   models.EditAction `json:"action"`
	EntityID string            `json:"entity_id,omitempty"`
	EventID  string            `json:"event_id,omitempty"`
}

// Service validates, commits and announces mutations.
type Service struct {
	committer  Committer
	sink       EventSink
	authorizer Authorizer // nil allows everything
}

// NewService returns a Service. A nil sink disables events.
func NewService(committer Committer, sink EventSink, opts ...Option) (*Service, error) {
	if committer == nil {
		return nil, ErrNilCommitter
	}
	if sink == nil {
		sink = discardSink{}
	}
	s := &Service{committer: committer, sink: sink}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Apply runs m.
//
// Invalid input is a *validation.Failure and nothing is committed.
// EditActionNone is accepted and does nothing. A mutating action the
// authorizer refuses wraps ErrForbidden. After a successful commit the
// event is handed to the sink; what happens to it afterwards does not change
// the result.
func (s *Service) Apply(ctx context.Context, m Mutation) (Result, error) {
	if err := check(m); err != nil {
		metrics.RecordMutation(m.Entity, m.Action.Code(), "rejected")
		return Result{}, err
	}

	if !m.Action.Mutates() {
		metrics.RecordMutation(m.Entity, m.Action.Code(), "noop")
		return Result{Applied: false, Action: m.Action, EntityID: m.ID}, nil
	}

	if err := s.authorize(m); err != nil {
		metrics.RecordMutation(m.Entity, m.Action.Code(), "forbidden")
		return Result{}, err
	}

	committed, err := s.committer.Commit(ctx, m)
	if err != nil {
		metrics.RecordMutation(m.Entity, m.Action.Code(), "error")
		return Result{}, fmt.Errorf("commit %s %s: %w", m.Action.Code(), m.Entity, err)
	}
	if committed.EntityID == "" {
		committed.EntityID = m.ID
	}

	event := eventprocessor.NewMutationEvent(m.Entity, committed.EntityID, m.Action)
	event.Actor = m.Actor
	event.CorrelationID = logging.CorrelationIDFromContext(ctx)
	if err := event.SetPayload(committed.Snapshot); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("event_id", event.EventID).Msg("Event payload dropped")
	}
	s.sink.Dispatch(ctx, event)

	metrics.RecordMutation(m.Entity, m.Action.Code(), "applied")
	logging.Ctx(ctx).Info().
		Str("entity", m.Entity).
		Str("entity_id", committed.EntityID).
		Str("action", m.Action.Code()).
		Str("event_id", event.EventID).
		Msg("Mutation applied")

	return Result{
		Applied:  true,
		Action:   m.Action,
		EntityID: committed.EntityID,
		EventID:  event.EventID,
	}, nil
}

func (s *Service) authorize(m Mutation) error {
	if s.authorizer == nil {
		return nil
	}
	ok, err := s.authorizer.Allowed(m.Actor, m.Entity, m.Action.Code())
	if err != nil {
		return fmt.Errorf("authorize %s %s: %w", m.Action.Code(), m.Entity, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrForbidden, m.Action.Code(), m.Entity)
	}
	return nil
}

// check enforces the shape rules that depend on the action.
func check(m Mutation) error {
	if !m.Action.Valid() {
		cause := fmt.Errorf("%w: %d", models.ErrUnknownEditAction, uint8(m.Action))
		return validation.WrapFailure("unknown edit action", cause).WithDetails(map[string]interface{}{
			"reason": validation.ReasonInvalidRequest,
			"field":  "action",
		})
	}
	if verr := validation.ValidateStruct(&m); verr != nil {
		return validation.FromRequest(verr)
	}

	switch m.Action {
	case models.EditActionUpdate, models.EditActionDelete, models.EditActionChangeStatus:
		if m.ID == "" {
			return invalid("id", fmt.Sprintf("id is required for %s", m.Action.Code()))
		}
	}
	switch m.Action {
	case models.EditActionUpdate:
		if len(m.Changes) == 0 {
			return invalid("changes", "changes are required for UPDATE")
		}
	case models.EditActionChangeStatus:
		status, ok := m.Changes["status"].(string)
		if !ok || status == "" {
			return invalid("changes.status", "changes.status is required for CHANGE_STATUS")
		}
	}
	return nil
}

func invalid(field, msg string) *validation.Failure {
	return validation.NewFailure(msg).WithDetails(map[string]interface{}{
		"reason": validation.ReasonInvalidRequest,
		"field":  field,
	})
}

type discardSink struct{}

func (discardSink) Dispatch(context.Context, *eventprocessor.MutationEvent) {}
