// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are registered on the default registry with promauto and exposed at
/metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Search:
  - search_requests_total{entity, outcome}
  - search_duration_seconds{entity}
  - search_result_items
  - sort_rejections_total{entity, reason}

Mutations and events:
  - mutations_total{entity, action, outcome}
  - events_published_total{topic}
  - events_publish_failed_total{topic, reason}
  - events_in_flight
  - circuit_breaker_state{name}, circuit_breaker_transitions_total{name, from, to}

Database and API:
  - duckdb_query_duration_seconds{operation, table}, duckdb_query_errors_total{operation, table}
  - api_requests_total{method, endpoint, status_code}, api_request_duration_seconds{method, endpoint}
  - api_active_requests, api_rate_limit_hits_total{endpoint}

Record helpers are safe for concurrent use.
*/
package metrics
