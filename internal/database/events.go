// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/quarry/internal/eventprocessor"
	"github.com/tomtom215/quarry/internal/metrics"
)

// RecordEvent implements eventprocessor.EventRecorder. Redelivered events
// are ignored by event ID, so recording is idempotent.
func (db *DB) RecordEvent(ctx context.Context, event *eventprocessor.MutationEvent) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("insert", tableEvents, time.Since(start), err)
	}()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var payload interface{}
	if len(event.Payload) > 0 {
		payload = string(event.Payload)
	}

	_, err = db.conn.ExecContext(ctx, `INSERT OR IGNORE INTO mutation_events
		(event_id, entity_type, entity_id, action, actor, correlation_id, occurred_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.EventID,
		event.EntityType,
		event.EntityID,
		event.Action.Code(),
		event.Actor,
		event.CorrelationID,
		event.Timestamp.UTC(),
		payload,
	)
	if err != nil {
		return fmt.Errorf("record event %s: %w", event.EventID, err)
	}
	return nil
}
