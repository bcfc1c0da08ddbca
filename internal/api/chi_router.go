// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/quarry/internal/config"
	"github.com/tomtom215/quarry/internal/middleware"
	"github.com/tomtom215/quarry/internal/models"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router binds handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router. A nil cfg uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	mwConfig := DefaultChiMiddlewareConfig()
	if cfg != nil {
		mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
		mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
		mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
		mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled
	}
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(chiMiddleware(middleware.RequestID)) // Request and correlation IDs into context
	r.Use(chimiddleware.RealIP)                 // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)              // Recover from panics
	r.Use(router.chiMiddleware.CORS())          // CORS must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondAPIError(w, req, http.StatusNotFound, &models.APIError{
			Code: ErrCodeNotFound, Message: "Route not found",
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondAPIError(w, req, http.StatusMethodNotAllowed, &models.APIError{
			Code: ErrCodeMethodNotAllowed, Message: "Method not allowed",
		})
	})

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// Core API Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		// The live feed hijacks the connection, which the metrics and
		// compression response wrappers do not support.
		r.Get("/events/live", router.handler.LiveFeed)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(middleware.PrometheusMetrics))
			r.Use(chiMiddleware(middleware.Compression))

			r.Get("/search/{entity}", router.handler.Search)
			r.Get("/entities", router.handler.Entities)
			r.Get("/entities/{entity}/sortable", router.handler.SortableFields)
			r.Get("/edit-actions", router.handler.EditActions)

			r.With(router.chiMiddleware.RateLimitCustom(RateLimitWrite)).
				Post("/entities/{entity}/mutations", router.handler.SubmitMutation)
		})
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
