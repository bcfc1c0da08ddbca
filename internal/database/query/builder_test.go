// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package query

import (
	"reflect"
	"testing"

	"github.com/tomtom215/quarry/internal/sorting"
)

func TestWhereBuilder_Empty(t *testing.T) {
	wb := NewWhereBuilder()

	if !wb.IsEmpty() {
		t.Error("Expected new builder to be empty")
	}

	if wb.Count() != 0 {
		t.Errorf("Expected count 0, got %d", wb.Count())
	}

	whereClause, args := wb.Build()
	if whereClause != "1=1" {
		t.Errorf("Expected '1=1' for empty builder, got %q", whereClause)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestWhereBuilder_AddEquals(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddEquals("o.status", "shipped").AddEquals("c.name", "Ada")

	whereClause, args := wb.Build()
	expected := "CAST(o.status AS VARCHAR) = ? AND CAST(c.name AS VARCHAR) = ?"
	if whereClause != expected {
		t.Errorf("Expected %q, got %q", expected, whereClause)
	}
	if !reflect.DeepEqual(args, []interface{}{"shipped", "Ada"}) {
		t.Errorf("args = %v", args)
	}
	if wb.Count() != 2 {
		t.Errorf("Expected count 2, got %d", wb.Count())
	}
}

func TestWhereBuilder_AddIn(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddIn("id", nil)
	if !wb.IsEmpty() {
		t.Error("empty IN list should be skipped")
	}

	wb.AddIn("id", []string{"a", "b", "c"})
	whereClause, args := wb.BuildWithPrefix()
	expected := "WHERE CAST(id AS VARCHAR) IN (?, ?, ?)"
	if whereClause != expected {
		t.Errorf("Expected %q, got %q", expected, whereClause)
	}
	if len(args) != 3 {
		t.Errorf("Expected 3 args, got %d", len(args))
	}
}

func TestWhereBuilder_AddClause(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddClause("price >= ?", 10).AddClause("price < ?", 20)

	whereClause, args := wb.Build()
	if whereClause != "price >= ? AND price < ?" {
		t.Errorf("got %q", whereClause)
	}
	if !reflect.DeepEqual(args, []interface{}{10, 20}) {
		t.Errorf("args = %v", args)
	}
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		name     string
		sort     sorting.Resolved
		tiebreak string
		want     string
	}{
		{"empty sort", nil, "id", "id ASC"},
		{"empty sort no tiebreak", nil, "", ""},
		{
			"appends tiebreak",
			sorting.Resolved{{Field: "price", Path: "price", Direction: sorting.Desc}},
			"id",
			"price DESC, id ASC",
		},
		{
			"keeps requested tiebreak direction",
			sorting.Resolved{
				{Field: "status", Path: "o.status", Direction: sorting.Asc},
				{Field: "id", Path: "o.id", Direction: sorting.Desc},
			},
			"o.id",
			"o.status ASC, o.id DESC",
		},
		{
			"joined path",
			sorting.Resolved{{Field: "name", Path: "c.name", Direction: sorting.Asc}},
			"o.id",
			"c.name ASC, o.id ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OrderBy(tt.sort, tt.tiebreak); got != tt.want {
				t.Errorf("OrderBy() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPage(t *testing.T) {
	sql, args := Page(25, 50)
	if sql != "LIMIT ? OFFSET ?" {
		t.Errorf("Page() sql = %q", sql)
	}
	if !reflect.DeepEqual(args, []interface{}{25, 50}) {
		t.Errorf("Page() args = %v", args)
	}
}
