// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/quarry/internal/logging"
	"github.com/tomtom215/quarry/internal/metrics"
	"github.com/tomtom215/quarry/internal/sorting"
	"github.com/tomtom215/quarry/internal/validation"
)

// Errors returned by NewSearcher and filter resolution.
var (
	ErrNilRegistry        = errors.New("search: registry is required")
	ErrNilExecutor        = errors.New("search: executor is required")
	ErrUnregisteredEntity = errors.New("search: entity is not registered")
	ErrUnknownFilterField = errors.New("unknown filter field")
	ErrEntityMismatch     = errors.New("entity not served by this searcher")
)

// Handler is the type-erased form of a Searcher, for transports that route
// several entities through one code path.
type Handler interface {
	Entity() string
	SearchAny(ctx context.Context, req Request) (interface{}, error)
}

// Searcher validates requests for one root entity and wraps executor output
// in an Envelope. It is safe for concurrent use.
type Searcher[T any] struct {
	entity   string
	registry *sorting.Registry
	exec     Executor[T]
}

// NewSearcher returns a Searcher for rows of entity.
func NewSearcher[T any](entity string, reg *sorting.Registry, exec Executor[T]) (*Searcher[T], error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	if exec == nil {
		return nil, ErrNilExecutor
	}
	if !reg.HasEntity(entity) {
		return nil, fmt.Errorf("%w: %q", ErrUnregisteredEntity, entity)
	}
	return &Searcher[T]{entity: entity, registry: reg, exec: exec}, nil
}

// Entity returns the root entity this searcher serves.
func (s *Searcher[T]) Entity() string {
	return s.entity
}

// SearchAny implements Handler.
func (s *Searcher[T]) SearchAny(ctx context.Context, req Request) (interface{}, error) {
	env, err := s.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	return env, nil
}

// Search validates req, runs it and wraps the page.
//
// Rejected input is returned as *validation.Failure before the executor is
// called. Executor errors are wrapped and are never a Failure.
func (s *Searcher[T]) Search(ctx context.Context, req Request) (Envelope[T], error) {
	start := time.Now()

	env, err := s.search(ctx, req)

	outcome, reason := "ok", ""
	if err != nil {
		if f, ok := validation.AsFailure(err); ok {
			outcome = "rejected"
			reason, _ = f.Details()["reason"].(string)
			logging.Ctx(ctx).Debug().
				Str("entity", req.Entity).
				Str("sort", req.Sort.String()).
				Str("reason", reason).
				Msg("search rejected")
		} else {
			outcome = "error"
			logging.Ctx(ctx).Error().Err(err).Str("entity", s.entity).Msg("search failed")
		}
	}
	metrics.RecordSearch(s.entity, outcome, reason, env.Len(), time.Since(start))

	return env, err
}

func (s *Searcher[T]) search(ctx context.Context, req Request) (Envelope[T], error) {
	if req.Limit == 0 {
		req.Limit = DefaultLimit
	}

	if req.Entity != "" && req.RootEntity() != s.entity {
		cause := fmt.Errorf("%w: %q searched as %q", ErrEntityMismatch, req.RootEntity(), s.entity)
		return Envelope[T]{}, validation.WrapFailure(
			fmt.Sprintf("entity %q cannot be searched here", req.RootEntity()), cause,
		).WithDetails(map[string]interface{}{
			"reason": validation.ReasonInvalidRequest,
			"entity": req.RootEntity(),
		})
	}

	req.registry = s.registry
	if verr := validation.ValidateStruct(&req); verr != nil {
		// The tag only reports pass/fail; the registry call names the cause.
		if verr.HasTag(sorting.TagName) {
			if err := s.registry.Validate(req.Entity, req.Root, req.Relation, req.Sort); err != nil {
				return Envelope[T]{}, err
			}
		}
		return Envelope[T]{}, validation.FromRequest(verr)
	}

	if req.Root != "" && !s.registry.HasRelation(req.Root, req.Relation, req.Entity) {
		cause := &sorting.RelationError{Entity: req.Entity, Root: req.Root, Relation: req.Relation}
		return Envelope[T]{}, validation.WrapFailure(cause.Error(), cause).WithDetails(map[string]interface{}{
			"reason":   validation.ReasonUnknownRelation,
			"entity":   req.Entity,
			"root":     req.Root,
			"relation": req.Relation,
		})
	}

	resolved, err := s.registry.Resolve(req.Entity, req.Root, req.Relation, req.Sort)
	if err != nil {
		return Envelope[T]{}, err
	}

	filter, err := s.resolveFilter(req)
	if err != nil {
		return Envelope[T]{}, err
	}

	q := Query{
		Entity:   req.Entity,
		Root:     req.Root,
		Relation: req.Relation,
		Sort:     resolved,
		Filter:   filter,
		Offset:   req.Offset,
		Limit:    req.Limit,
	}

	items, total, err := s.exec.Execute(ctx, q)
	if err != nil {
		return Envelope[T]{}, fmt.Errorf("search %s: %w", s.entity, err)
	}

	infos := SearchInfos{
		Total:   total,
		Sort:    req.Sort,
		Offset:  req.Offset,
		Limit:   req.Limit,
		HasMore: int64(req.Offset+len(items)) < total,
	}
	return New(infos, items), nil
}

// resolveFilter maps filter keys through the same allow-list as sort fields.
// Conditions are ordered by field name so generated queries are stable.
//
// In a relation search plain keys name fields of the related entity. A key
// prefixed with the root entity and a dot, such as "order.status", names a
// field of the root itself.
func (s *Searcher[T]) resolveFilter(req Request) ([]Condition, error) {
	if len(req.Filter) == 0 {
		return nil, nil
	}

	fields := make([]string, 0, len(req.Filter))
	for f := range req.Filter {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	conds := make([]Condition, 0, len(fields))
	for _, f := range fields {
		path, ok := s.lookupFilter(req, f)
		if !ok {
			cause := fmt.Errorf("%w: %q on %q", ErrUnknownFilterField, f, req.Entity)
			return nil, validation.WrapFailure(
				fmt.Sprintf("filter field %q is not available for entity %q", f, req.Entity), cause,
			).WithDetails(map[string]interface{}{
				"reason":  validation.ReasonUnknownField,
				"field":   f,
				"entity":  req.Entity,
				"allowed": s.registry.Fields(req.Entity),
			})
		}
		conds = append(conds, Condition{Field: f, Path: path, Value: req.Filter[f]})
	}
	return conds, nil
}

func (s *Searcher[T]) lookupFilter(req Request, key string) (string, bool) {
	if req.Root != "" {
		if name, ok := strings.CutPrefix(key, req.Root+"."); ok {
			return s.registry.Lookup(req.Root, "", "", name)
		}
	}
	return s.registry.Lookup(req.Entity, req.Root, req.Relation, key)
}
