// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package catalog

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/quarry/internal/sorting"
)

func TestDefaultRegistry_Shared(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry should return the same instance")
	}
}

func TestDefaultRegistry_Entities(t *testing.T) {
	reg := DefaultRegistry()

	want := []string{"customer", "event", "order", "product"}
	if got := reg.Entities(); !reflect.DeepEqual(got, want) {
		t.Errorf("Entities() = %v, want %v", got, want)
	}

	wantFields := map[string][]string{
		"product":  {"createdAt", "id", "name", "price", "status"},
		"customer": {"createdAt", "email", "id", "name"},
		"order":    {"createdAt", "id", "status", "total"},
		"event":    {"action", "actor", "entityId", "entityType", "id", "occurredAt"},
	}
	for entity, fields := range wantFields {
		if got := reg.Fields(entity); !reflect.DeepEqual(got, fields) {
			t.Errorf("Fields(%s) = %v, want %v", entity, got, fields)
		}
	}
}

func TestDefaultRegistry_Paths(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		entity, root, relation, field string
		want                          string
	}{
		{"product", "", "", "createdAt", "created_at"},
		{"order", "", "", "total", "o.total"},
		{"customer", "", "", "name", "name"},
		{"customer", "order", "customer", "name", "c.name"},
		{"customer", "order", "customer", "createdAt", "c.created_at"},
		{"event", "", "", "occurredAt", "occurred_at"},
	}
	for _, tt := range tests {
		got, ok := reg.Lookup(tt.entity, tt.root, tt.relation, tt.field)
		if !ok || got != tt.want {
			t.Errorf("Lookup(%s,%s,%s,%s) = %q, %v; want %q", tt.entity, tt.root, tt.relation, tt.field, got, ok, tt.want)
		}
	}
}

func TestDefaultRegistry_RejectsCrossEntityFields(t *testing.T) {
	reg := DefaultRegistry()

	err := reg.Validate("product", "", "", sorting.ParseClause("email:asc"))
	if !errors.Is(err, sorting.ErrUnknownSortField) {
		t.Errorf("Validate() = %v, want ErrUnknownSortField", err)
	}

	err = reg.Validate("product", "order", "customer", sorting.ParseClause("name"))
	if !errors.Is(err, sorting.ErrUnknownRelation) {
		t.Errorf("Validate() = %v, want ErrUnknownRelation", err)
	}
}
