// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package query

import (
	"fmt"
	"strings"

	"github.com/tomtom215/quarry/internal/sorting"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
// Column paths are interpolated into the SQL text, so they must come from the
// sort registry, never from the caller. Values are always bound.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("o.status", "shipped")
//	wb.AddIn("c.id", []string{"c-1", "c-2"})
//	whereClause, args := wb.Build()
//	// CAST(o.status AS VARCHAR) = ? AND CAST(c.id AS VARCHAR) IN (?, ?)
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
// This is useful for custom conditions not covered by helper methods.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEquals adds an equality filter on path. Both sides compare as text so
// a filter value from a query string matches numeric and timestamp columns
// without an implicit cast error.
func (wb *WhereBuilder) AddEquals(path, value string) *WhereBuilder {
	return wb.AddClause(fmt.Sprintf("CAST(%s AS VARCHAR) = ?", path), value)
}

// AddIn adds a membership filter using IN clause.
// An empty slice is skipped.
func (wb *WhereBuilder) AddIn(path string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		wb.args = append(wb.args, v)
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("CAST(%s AS VARCHAR) IN (%s)", path, strings.Join(placeholders, ", ")))
	return wb
}

// Build constructs the final WHERE clause and returns it with arguments.
// Clauses are joined with "AND". Returns ("1=1", []) if no clauses were added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// OrderBy renders a resolved sort as an ORDER BY list, without the keyword.
//
// tiebreak is appended ascending unless the sort already orders by it, so
// pages stay stable when the requested keys have duplicates. An empty sort
// orders by tiebreak alone. An empty tiebreak adds nothing.
func OrderBy(sort sorting.Resolved, tiebreak string) string {
	parts := make([]string, 0, len(sort)+1)
	seen := false
	for _, o := range sort {
		parts = append(parts, o.Path+" "+string(o.Direction))
		if o.Path == tiebreak {
			seen = true
		}
	}
	if tiebreak != "" && !seen {
		parts = append(parts, tiebreak+" "+string(sorting.Asc))
	}
	return strings.Join(parts, ", ")
}

// Page returns a LIMIT/OFFSET suffix and its arguments.
func Page(limit, offset int) (string, []interface{}) {
	return "LIMIT ? OFFSET ?", []interface{}{limit, offset}
}
