// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package models

import "time"

// EntityEvent is the entity name of the mutation event log.
const EntityEvent = "event"

// EventRecord is one consumed mutation event as stored in the event log.
// Payload is the raw JSON snapshot, empty when the event had none.
type EventRecord struct {
	ID            string    `json:"id"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Action        string    `json:"action"`
	Actor         string    `json:"actor,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
	Payload       string    `json:"payload,omitempty"`
}
