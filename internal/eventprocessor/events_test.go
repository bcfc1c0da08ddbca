// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package eventprocessor

import (
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/quarry/internal/models"
)

func validEvent() *MutationEvent {
	return &MutationEvent{
		SchemaVersion: SchemaVersion,
		EventID:       "evt-1",
		EntityType:    "order",
		EntityID:      "o-1",
		Action:        models.EditActionChangeStatus,
		ActionLabel:   "Change Status",
		Timestamp:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewMutationEvent(t *testing.T) {
	event := NewMutationEvent("product", "p-9", models.EditActionUpdate)

	if event.EventID == "" {
		t.Error("Expected EventID to be set")
	}
	if event.SchemaVersion != SchemaVersion {
		t.Errorf("Expected SchemaVersion=%d, got %d", SchemaVersion, event.SchemaVersion)
	}
	if event.ActionLabel != "Update" {
		t.Errorf("Expected ActionLabel=Update, got %s", event.ActionLabel)
	}
	if event.Timestamp.IsZero() {
		t.Error("Expected Timestamp to be set")
	}
	if err := event.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	other := NewMutationEvent("product", "p-9", models.EditActionUpdate)
	if other.EventID == event.EventID {
		t.Error("Expected unique event IDs")
	}
}

func TestMutationEvent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*MutationEvent)
		wantErr string
	}{
		{"valid event", func(*MutationEvent) {}, ""},
		{"missing event_id", func(e *MutationEvent) { e.EventID = "" }, "event_id"},
		{"missing entity_type", func(e *MutationEvent) { e.EntityType = "" }, "entity_type"},
		{"missing entity_id", func(e *MutationEvent) { e.EntityID = "" }, "entity_id"},
		{"unknown action", func(e *MutationEvent) { e.Action = models.EditAction(42) }, "not a known"},
		{"none action", func(e *MutationEvent) { e.Action = models.EditActionNone }, "does not change"},
		{"zero timestamp", func(e *MutationEvent) { e.Timestamp = time.Time{} }, "timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := validEvent()
			tt.mutate(event)

			err := event.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMutationEvent_Topic(t *testing.T) {
	tests := []struct {
		name   string
		entity string
		action models.EditAction
		prefix string
		want   string
	}{
		{"default prefix", "order", models.EditActionChangeStatus, "", "quarry.mutations.order.change_status"},
		{"custom prefix", "Product", models.EditActionCreate, "shop", "shop.product.create"},
		{"delete", "customer", models.EditActionDelete, "x", "x.customer.delete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &MutationEvent{EntityType: tt.entity, Action: tt.action}
			if got := event.Topic(tt.prefix); got != tt.want {
				t.Errorf("Topic() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMutationEvent_SetPayload(t *testing.T) {
	event := validEvent()

	if err := event.SetPayload(map[string]string{"status": "shipped"}); err != nil {
		t.Fatalf("SetPayload() error = %v", err)
	}
	if string(event.Payload) != `{"status":"shipped"}` {
		t.Errorf("Payload = %s", event.Payload)
	}

	if err := event.SetPayload(nil); err != nil {
		t.Fatalf("SetPayload(nil) error = %v", err)
	}
	if event.Payload != nil {
		t.Errorf("Payload = %s, want nil", event.Payload)
	}

	if err := event.SetPayload(make(chan int)); err == nil {
		t.Error("Expected error for unencodable payload")
	}
}
