// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Search Metrics
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Total number of search requests by entity and outcome",
		},
		[]string{"entity", "outcome"}, // outcome: "ok", "rejected", "error"
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_duration_seconds",
			Help:    "Search duration in seconds, validation through envelope",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"entity"},
	)

	SearchResultItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_result_items",
			Help:    "Number of items returned per search page",
			Buckets: []float64{0, 1, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	SortRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sort_rejections_total",
			Help: "Total number of rejected sort clauses",
		},
		[]string{"entity", "reason"}, // reason: "unknown_field", "malformed_direction", "unknown_relation", "invalid_request"
	)

	// Mutation Metrics
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mutations_total",
			Help: "Total number of mutations by entity, edit action and outcome",
		},
		[]string{"entity", "action", "outcome"}, // outcome: "committed", "skipped", "rejected", "failed"
	)

	// Event Publishing Metrics
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of mutation events handed to the broker",
		},
		[]string{"topic"},
	)

	EventsPublishFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_publish_failed_total",
			Help: "Total number of mutation events the broker rejected",
		},
		[]string{"topic", "reason"}, // reason: "circuit_open", "timeout", "broker", "serialize"
	)

	EventsConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Total number of mutation events handled by the event log consumer",
		},
		[]string{"topic", "outcome"}, // outcome: "recorded", "invalid", "error"
	)

	SearchCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_cache_total",
			Help: "Search result cache lookups",
		},
		[]string{"entity", "result"}, // result: "hit", "miss"
	)

	PolicyDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "policy_decisions_total",
			Help: "Edit action policy decisions",
		},
		[]string{"entity", "action", "decision"}, // decision: "allow", "deny"
	)

	LiveFeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_feed_clients",
			Help: "Connected live mutation feed clients",
		},
	)

	EventsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "events_in_flight",
			Help: "Mutation events currently being published",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)
)

// RecordDBQuery records a DuckDB query duration and error.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordSearch records a finished search. reason is the rejection reason and
// only used when outcome is "rejected".
func RecordSearch(entity, outcome, reason string, items int, duration time.Duration) {
	SearchRequestsTotal.WithLabelValues(entity, outcome).Inc()
	SearchDuration.WithLabelValues(entity).Observe(duration.Seconds())

	switch outcome {
	case "ok":
		SearchResultItems.Observe(float64(items))
	case "rejected":
		if reason == "" {
			reason = "invalid_request"
		}
		SortRejectionsTotal.WithLabelValues(entity, reason).Inc()
	}
}

// RecordMutation records the outcome of a mutation request.
func RecordMutation(entity, action, outcome string) {
	MutationsTotal.WithLabelValues(entity, action, outcome).Inc()
}

// RecordEventPublished records a successful hand-off to the broker.
func RecordEventPublished(topic string) {
	EventsPublishedTotal.WithLabelValues(topic).Inc()
}

// RecordEventPublishFailed records a publish failure.
func RecordEventPublishFailed(topic, reason string) {
	EventsPublishFailedTotal.WithLabelValues(topic, reason).Inc()
}

// RecordEventConsumed records one consumed event.
func RecordEventConsumed(topic, outcome string) {
	EventsConsumedTotal.WithLabelValues(topic, outcome).Inc()
}

// RecordSearchCache records one search cache lookup.
func RecordSearchCache(entity string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	SearchCacheTotal.WithLabelValues(entity, result).Inc()
}

// RecordPolicyDecision records one edit action policy decision.
func RecordPolicyDecision(entity, action string, allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	PolicyDecisionsTotal.WithLabelValues(entity, action, decision).Inc()
}

// SetLiveFeedClients records the number of connected live feed clients.
func SetLiveFeedClients(n int) {
	LiveFeedClients.Set(float64(n))
}

// TrackEventInFlight increments or decrements the in-flight publish gauge.
func TrackEventInFlight(start bool) {
	if start {
		EventsInFlight.Inc()
	} else {
		EventsInFlight.Dec()
	}
}

// RecordCircuitBreakerTransition records a breaker state change.
// States follow gobreaker: 0 closed, 1 half-open, 2 open.
func RecordCircuitBreakerTransition(name string, from, to string, toState int) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(float64(toState))
}

// RecordAPIRequest records API request metrics.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rate limit rejection.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}
