// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package sorting

import (
	"errors"
	"fmt"
)

// Sentinel errors for sort clause rejection. Use errors.Is to classify.
var (
	// ErrUnknownSortField means a clause names a field outside the allow-list.
	ErrUnknownSortField = errors.New("unknown sort field")

	// ErrMalformedSortDirection means a direction token is neither ASC nor DESC.
	ErrMalformedSortDirection = errors.New("malformed sort direction")

	// ErrUnknownRelation means the root/relation qualifiers do not name a
	// registered relation targeting the searched entity.
	ErrUnknownRelation = errors.New("unknown relation")
)

// Registry construction errors.
var (
	ErrEmptyName      = errors.New("sorting: empty name")
	ErrDuplicateField = errors.New("sorting: duplicate field")
	ErrDuplicateEntry = errors.New("sorting: duplicate registration")
	ErrUnknownEntity  = errors.New("sorting: unknown entity")
	ErrBuilderUsed    = errors.New("sorting: builder already built")
)

// UnknownFieldError names the rejected field and the scope it was checked in.
type UnknownFieldError struct {
	Field    string
	Entity   string
	Root     string
	Relation string
}

func (e *UnknownFieldError) Error() string {
	if e.Root != "" {
		return fmt.Sprintf("sort field %q is not sortable for entity %q via %s.%s",
			e.Field, e.Entity, e.Root, e.Relation)
	}
	return fmt.Sprintf("sort field %q is not sortable for entity %q", e.Field, e.Entity)
}

// Is matches ErrUnknownSortField.
func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrUnknownSortField
}

// DirectionError carries the rejected direction token.
type DirectionError struct {
	Field string
	Token string
}

func (e *DirectionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("sort direction %q for field %q must be ASC or DESC", e.Token, e.Field)
	}
	return fmt.Sprintf("sort direction %q must be ASC or DESC", e.Token)
}

// Is matches ErrMalformedSortDirection.
func (e *DirectionError) Is(target error) bool {
	return target == ErrMalformedSortDirection
}

// RelationError names a (root, relation) pair that does not lead to Entity.
type RelationError struct {
	Entity   string
	Root     string
	Relation string
}

func (e *RelationError) Error() string {
	return fmt.Sprintf("relation %q.%q does not resolve to entity %q", e.Root, e.Relation, e.Entity)
}

// Is matches ErrUnknownRelation.
func (e *RelationError) Is(target error) bool {
	return target == ErrUnknownRelation
}
