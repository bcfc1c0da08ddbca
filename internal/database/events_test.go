// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package database

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/quarry/internal/catalog"
	"github.com/tomtom215/quarry/internal/eventprocessor"
	"github.com/tomtom215/quarry/internal/models"
	"github.com/tomtom215/quarry/internal/search"
	"github.com/tomtom215/quarry/internal/sorting"
)

func TestRecordEvent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := eventprocessor.NewMutationEvent(models.EntityOrder, "o-003", models.EditActionChangeStatus)
	first.Actor = "ada"
	first.CorrelationID = "corr-1"
	if err := first.SetPayload(models.Order{ID: "o-003", Status: models.StatusShipped}); err != nil {
		t.Fatal(err)
	}
	second := eventprocessor.NewMutationEvent(models.EntityProduct, "p-002", models.EditActionDelete)
	second.Timestamp = first.Timestamp.Add(time.Second)

	for _, e := range []*eventprocessor.MutationEvent{first, second, first} {
		if err := db.RecordEvent(ctx, e); err != nil {
			t.Fatalf("RecordEvent(%s) error = %v", e.EventID, err)
		}
	}

	if got := countRows(t, db, tableEvents); got != 2 {
		t.Fatalf("redelivered event should be ignored, have %d rows", got)
	}

	searcher, err := search.NewSearcher[models.EventRecord](models.EntityEvent, catalog.DefaultRegistry(), db.Events())
	if err != nil {
		t.Fatal(err)
	}

	env, err := searcher.Search(ctx, search.Request{
		Entity: models.EntityEvent,
		Sort:   sorting.ParseClause("occurredAt:desc"),
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if env.Infos.Total != 2 || env.Data[0].ID != second.EventID || env.Data[1].ID != first.EventID {
		t.Fatalf("events = %+v", env.Data)
	}

	got := env.Data[1]
	if got.Action != "CHANGE_STATUS" || got.Actor != "ada" || got.CorrelationID != "corr-1" || got.EntityType != "order" {
		t.Errorf("record = %+v", got)
	}
	if got.Payload == "" || env.Data[0].Payload != "" {
		t.Errorf("payloads = %q / %q", got.Payload, env.Data[0].Payload)
	}

	filtered, err := searcher.Search(ctx, search.Request{
		Entity: models.EntityEvent,
		Filter: map[string]string{"entityType": "product"},
		Limit:  10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if filtered.Infos.Total != 1 || filtered.Data[0].EntityID != "p-002" {
		t.Errorf("filtered = %+v", filtered.Data)
	}
}
