// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package models

import (
	"time"
)

// APIResponse is the wrapper every HTTP endpoint returns.
//
// Status is "success" with Data populated, or "error" with Error populated:
//
//	{
//	  "status": "success",
//	  "data": {"search_infos": {"total": 42, ...}, "data": [...]},
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z", "query_time_ms": 3}
//	}
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "sort field \"colour\" is not sortable for entity \"product\"",
//	    "details": {"reason": "unknown_field", "field": "colour", "entity": "product"}
//	  },
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is the structured error body.
//
// Codes:
//   - VALIDATION_ERROR: rejected input, including sort clauses (400)
//   - NOT_FOUND: unknown entity or row (404)
//   - QUERY_ERROR: the query layer failed (500)
//   - COMMIT_ERROR: the persistence layer failed (500)
//   - METHOD_NOT_ALLOWED (405)
//   - RATE_LIMIT_EXCEEDED (429)
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the health endpoints.
type HealthStatus struct {
	Status   string            `json:"status"`
	Version  string            `json:"version,omitempty"`
	Checks   map[string]string `json:"checks,omitempty"`
	Uptime   float64           `json:"uptime_seconds"`
	Database bool              `json:"database_connected"`
}

// SortableFields describes what an entity accepts in a sort clause.
type SortableFields struct {
	Entity    string         `json:"entity"`
	Fields    []string       `json:"fields"`
	Relations []SortRelation `json:"relations,omitempty"`
}

// SortRelation is one joined scope through which an entity can be sorted.
type SortRelation struct {
	Root     string `json:"root"`
	Relation string `json:"relation"`
}
