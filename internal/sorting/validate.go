// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package sorting

import (
	"github.com/tomtom215/quarry/internal/validation"
)

// ResolvedOrder is a validated order with its queryable path.
type ResolvedOrder struct {
	Field     string
	Path      string
	Direction Direction
}

// Resolved is a validated clause ready for the query layer.
type Resolved []ResolvedOrder

// Validate checks clause against the allow-list of entity.
//
// root and relation qualify a search that reaches entity through a joined
// field; both empty means a direct search. An empty clause is always valid.
// Each order is checked in sequence, direction before field, and the first
// problem is returned as a *validation.Failure whose cause matches
// ErrMalformedSortDirection, ErrUnknownSortField or ErrUnknownRelation.
func (r *Registry) Validate(entity, root, relation string, clause Clause) error {
	_, err := r.Resolve(entity, root, relation, clause)
	return err
}

// Resolve validates clause like Validate and returns the queryable paths.
func (r *Registry) Resolve(entity, root, relation string, clause Clause) (Resolved, error) {
	if len(clause) == 0 {
		return nil, nil
	}

	paths, prefix, err := r.scope(entity, root, relation)
	if err != nil {
		return nil, validation.WrapFailure(err.Error(), err).WithDetails(map[string]interface{}{
			"reason":   validation.ReasonUnknownRelation,
			"entity":   entity,
			"root":     root,
			"relation": relation,
		})
	}

	resolved := make(Resolved, 0, len(clause))
	for _, o := range clause {
		dir, err := ParseDirection(string(o.Direction))
		if err != nil {
			cause := &DirectionError{Field: o.Field, Token: string(o.Direction)}
			return nil, validation.WrapFailure(cause.Error(), cause).WithDetails(map[string]interface{}{
				"reason":    validation.ReasonMalformedDirection,
				"field":     o.Field,
				"direction": string(o.Direction),
			})
		}

		path, ok := paths[o.Field]
		if !ok {
			cause := &UnknownFieldError{Field: o.Field, Entity: entity, Root: root, Relation: relation}
			return nil, validation.WrapFailure(cause.Error(), cause).WithDetails(map[string]interface{}{
				"reason":  validation.ReasonUnknownField,
				"field":   o.Field,
				"entity":  entity,
				"allowed": r.Fields(entity),
			})
		}

		resolved = append(resolved, ResolvedOrder{
			Field:     o.Field,
			Path:      qualify(prefix, path),
			Direction: dir,
		})
	}

	return resolved, nil
}
