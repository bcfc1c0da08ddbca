// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/quarry/internal/cache"
	"github.com/tomtom215/quarry/internal/config"
	"github.com/tomtom215/quarry/internal/mutation"
	"github.com/tomtom215/quarry/internal/search"
	"github.com/tomtom215/quarry/internal/sorting"
	ws "github.com/tomtom215/quarry/internal/websocket"
)

// Version is reported by the health endpoints. Overridden at build time.
var Version = "dev"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler handles HTTP requests
type Handler struct {
	registry  *sorting.Registry
	searchers map[string]search.Handler
	mutations *mutation.Service
	db        Pinger
	config    *config.Config
	startTime time.Time

	// results caches search envelopes; nil when API.CacheTTL is zero.
	results *cache.LRU[interface{}]

	// liveFeed is nil until SetLiveFeed; the live route then answers 503.
	liveFeed *ws.Hub
}

// NewHandler creates a new Handler. Searchers are keyed by the root entity
// they serve; registering two for the same entity is an error.
func NewHandler(reg *sorting.Registry, mutations *mutation.Service, db Pinger, cfg *config.Config, searchers ...search.Handler) (*Handler, error) {
	if reg == nil {
		return nil, errors.New("api: registry is required")
	}

	byEntity := make(map[string]search.Handler, len(searchers))
	for _, s := range searchers {
		if _, dup := byEntity[s.Entity()]; dup {
			return nil, errors.New("api: duplicate searcher for entity " + s.Entity())
		}
		byEntity[s.Entity()] = s
	}

	h := &Handler{
		registry:  reg,
		searchers: byEntity,
		mutations: mutations,
		db:        db,
		config:    cfg,
		startTime: time.Now(),
	}
	if cfg != nil && cfg.API.CacheTTL > 0 {
		h.results = cache.NewLRU[interface{}](cfg.API.CacheSize, cfg.API.CacheTTL)
	}
	return h, nil
}

// SearchCacheJanitor returns a service that sweeps expired search results,
// or nil when the cache is disabled.
func (h *Handler) SearchCacheJanitor() *cache.Janitor {
	if h.results == nil {
		return nil
	}
	return cache.NewJanitor("search-cache-janitor", h.results, h.config.API.CacheTTL)
}

// InvalidateSearchCache drops every cached search result.
func (h *Handler) InvalidateSearchCache() {
	if h.results != nil {
		h.results.Clear()
	}
}

// pageLimits returns the configured default and maximum page sizes.
func (h *Handler) pageLimits() (int, int) {
	def, max := search.DefaultLimit, search.MaxLimit
	if h.config != nil {
		if h.config.API.DefaultPageSize > 0 {
			def = h.config.API.DefaultPageSize
		}
		if h.config.API.MaxPageSize > 0 {
			max = h.config.API.MaxPageSize
		}
	}
	return def, max
}
