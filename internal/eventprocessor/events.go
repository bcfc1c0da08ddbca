// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package eventprocessor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/quarry/internal/models"
)

// SchemaVersion is the current event schema version.
// Increment this when making breaking changes to MutationEvent.
const SchemaVersion = 1

// DefaultTopicPrefix is the subject root for mutation events.
const DefaultTopicPrefix = "quarry.mutations"

// MutationEvent announces that an entity was changed by a committed edit.
//
// Consumers should tolerate unknown fields and older schema versions.
type MutationEvent struct {
	SchemaVersion int `json:"schema_version"`

	EventID       string            `json:"event_id"`
	EntityType    string            `json:"entity_type"`
	EntityID      string            `json:"entity_id"`
	Action        models.EditAction `json:"action"`
	ActionLabel   string            `json:"action_label"`
	Actor         string            `json:"actor,omitempty"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`

	// Payload is the entity snapshot after the edit, if the committer returned one.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMutationEvent creates an event with a fresh ID and the current time.
func NewMutationEvent(entity, id string, action models.EditAction) *MutationEvent {
	return &MutationEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		EntityType:    entity,
		EntityID:      id,
		Action:        action,
		ActionLabel:   action.Description(),
		Timestamp:     time.Now().UTC(),
	}
}

// SetPayload encodes v as the event payload. A nil v clears it.
func (e *MutationEvent) SetPayload(v interface{}) error {
	if v == nil {
		e.Payload = nil
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	e.Payload = data
	return nil
}

// Validate checks that the event can be routed and consumed.
func (e *MutationEvent) Validate() error {
	if e.EventID == "" {
		return errors.New("event_id is required")
	}
	if e.EntityType == "" {
		return errors.New("entity_type is required")
	}
	if e.EntityID == "" {
		return errors.New("entity_id is required")
	}
	if !e.Action.Valid() {
		return fmt.Errorf("action %d is not a known edit action", uint8(e.Action))
	}
	if !e.Action.Mutates() {
		return fmt.Errorf("action %s does not change data", e.Action.Code())
	}
	if e.Timestamp.IsZero() {
		return errors.New("timestamp is required")
	}
	return nil
}

// Topic returns the subject for this event: <prefix>.<entity>.<action>.
// An empty prefix falls back to DefaultTopicPrefix.
func (e *MutationEvent) Topic(prefix string) string {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return prefix + "." + strings.ToLower(e.EntityType) + "." + strings.ToLower(e.Action.Code())
}
