// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/quarry/internal/cache"
	"github.com/tomtom215/quarry/internal/metrics"
	"github.com/tomtom215/quarry/internal/models"
	"github.com/tomtom215/quarry/internal/search"
	"github.com/tomtom215/quarry/internal/sorting"
	"github.com/tomtom215/quarry/internal/validation"
)

// Query parameters with a fixed meaning. Every other parameter is a filter.
const (
	paramSort     = "sort"
	paramRoot     = "root"
	paramRelation = "relation"
	paramOffset   = "offset"
	paramLimit    = "limit"
)

var reservedParams = map[string]bool{
	paramSort:     true,
	paramRoot:     true,
	paramRelation: true,
	paramOffset:   true,
	paramLimit:    true,
}

// Search runs a validated search.
//
// The path names the entity whose fields sort and filter refer to. With
// root and relation set, rows of root are returned, ordered by the related
// entity's fields; filters prefixed with the root name apply to root fields.
//
//	GET /api/v1/search/product?sort=price:desc,name&status=active&limit=20
//	GET /api/v1/search/customer?root=order&relation=customer&sort=name&order.status=shipped
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, err := h.searchRequest(r)
	if err != nil {
		if f, ok := validation.AsFailure(err); ok {
			respondFailure(w, r, f)
			return
		}
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid search request", err)
		return
	}

	searcher, ok := h.searchers[req.RootEntity()]
	if !ok {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound,
			fmt.Sprintf("Entity %q is not searchable", sanitizeLogValue(req.RootEntity())), nil)
		return
	}

	// The event log is appended asynchronously, so its pages are never cached.
	var key string
	var gen uint64
	cacheable := h.results != nil && req.RootEntity() != models.EntityEvent
	if cacheable {
		key = searchCacheKey(req, r.URL.Query().Get(paramSort))
		if env, hit := h.results.Get(key); hit {
			metrics.RecordSearchCache(req.RootEntity(), true)
			respondSuccess(w, r, http.StatusOK, env, start)
			return
		}
		metrics.RecordSearchCache(req.RootEntity(), false)
		gen = h.results.Generation()
	}

	env, err := searcher.SearchAny(r.Context(), req)
	if err != nil {
		if f, ok := validation.AsFailure(err); ok {
			respondFailure(w, r, f)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeQuery, "Search failed", err)
		return
	}

	if cacheable {
		h.results.AddAt(gen, key, env)
	}
	respondSuccess(w, r, http.StatusOK, env, start)
}

// searchCacheKey identifies a search by every input that shapes its page.
func searchCacheKey(req search.Request, sort string) string {
	return cache.GenerateKey("search", struct {
		Entity   string            `json:"e"`
		Root     string            `json:"r"`
		Relation string            `json:"rel"`
		Sort     string            `json:"s"`
		Filter   map[string]string `json:"f"`
		Offset   int               `json:"o"`
		Limit    int               `json:"l"`
	}{req.Entity, req.Root, req.Relation, sort, req.Filter, req.Offset, req.Limit})
}

// searchRequest builds a search.Request from the URL.
func (h *Handler) searchRequest(r *http.Request) (search.Request, error) {
	defLimit, maxLimit := h.pageLimits()

	offset, err := getIntParam(r, paramOffset, 0)
	if err != nil {
		return search.Request{}, err
	}
	limit, err := getIntParam(r, paramLimit, defLimit)
	if err != nil {
		return search.Request{}, err
	}
	if limit > maxLimit {
		return search.Request{}, validation.NewFailure(fmt.Sprintf("limit must be at most %d", maxLimit)).
			WithDetails(map[string]interface{}{
				"reason": validation.ReasonInvalidRequest,
				"field":  paramLimit,
				"max":    maxLimit,
			})
	}

	query := r.URL.Query()
	var filter map[string]string
	for key, values := range query {
		if reservedParams[key] {
			continue
		}
		if len(values) != 1 {
			return search.Request{}, validation.NewFailure(fmt.Sprintf("filter %q given more than once", key)).
				WithDetails(map[string]interface{}{
					"reason": validation.ReasonInvalidRequest,
					"field":  key,
				})
		}
		if filter == nil {
			filter = make(map[string]string)
		}
		filter[key] = values[0]
	}

	return search.Request{
		Entity:   chi.URLParam(r, "entity"),
		Root:     query.Get(paramRoot),
		Relation: query.Get(paramRelation),
		Sort:     sorting.ParseClause(query.Get(paramSort)),
		Filter:   filter,
		Offset:   offset,
		Limit:    limit,
	}, nil
}

// SortableFields lists the sort fields of an entity and the joined scopes it
// can be sorted through.
//
//	GET /api/v1/entities/order/sortable
func (h *Handler) SortableFields(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entity := chi.URLParam(r, "entity")

	if !h.registry.HasEntity(entity) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound,
			fmt.Sprintf("Entity %q is not registered", sanitizeLogValue(entity)), nil)
		return
	}

	out := models.SortableFields{
		Entity: entity,
		Fields: h.registry.Fields(entity),
	}
	for _, rel := range h.registry.Relations(entity) {
		out.Relations = append(out.Relations, models.SortRelation{Root: rel.Root, Relation: rel.Field})
	}

	respondSuccess(w, r, http.StatusOK, out, start)
}

// Entities lists every registered entity.
func (h *Handler) Entities(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, h.registry.Entities(), time.Now())
}
