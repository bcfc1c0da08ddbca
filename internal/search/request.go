// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package search

import (
	"context"

	"github.com/tomtom215/quarry/internal/sorting"
)

// Limits applied when a request leaves paging unset.
const (
	DefaultLimit = 50
	MaxLimit     = 1000
	MaxOffset    = 1000000
)

// Request is a caller's search. Entity is the type whose fields the clause
// names; Root and Relation are set together when that type is reached
// through a join from Root.
type Request struct {
	Entity   string            `validate:"required,max=64"`
	Root     string            `validate:"required_with=Relation,max=64"`
	Relation string            `validate:"required_with=Root,max=64"`
	Sort     sorting.Clause    `validate:"sortable"`
	Filter   map[string]string `validate:"max=16"`
	Offset   int               `validate:"min=0,max=1000000"`
	Limit    int               `validate:"min=1,max=1000"`

	registry *sorting.Registry
}

// SortTarget binds the sortable tag to the searcher's registry.
func (r Request) SortTarget() (*sorting.Registry, string, string, string) {
	return r.registry, r.Entity, r.Root, r.Relation
}

// RootEntity is the entity whose rows the search returns.
func (r Request) RootEntity() string {
	if r.Root != "" {
		return r.Root
	}
	return r.Entity
}

// Condition is an equality filter on a resolved path.
type Condition struct {
	Field string
	Path  string
	Value string
}

// Query is a validated request handed to the query layer. Only paths
// resolved through the registry appear in Sort and Filter.
type Query struct {
	Entity   string
	Root     string
	Relation string
	Sort     sorting.Resolved
	Filter   []Condition
	Offset   int
	Limit    int
}

// Executor runs a validated query and returns one page of items in order
// plus the total number of matches.
type Executor[T any] interface {
	Execute(ctx context.Context, q Query) (items []T, total int64, err error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc[T any] func(ctx context.Context, q Query) ([]T, int64, error)

// Execute calls f.
func (f ExecutorFunc[T]) Execute(ctx context.Context, q Query) ([]T, int64, error) {
	return f(ctx, q)
}
