// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

/*
Package api exposes search, sort discovery and mutations over HTTP.

# Routes

	GET  /api/v1/health/live                  liveness
	GET  /api/v1/health/ready                 readiness, 503 without a database
	GET  /api/v1/search/{entity}              validated search
	GET  /api/v1/entities                     registered entities
	GET  /api/v1/entities/{entity}/sortable   sort fields and joined scopes
	GET  /api/v1/edit-actions                 edit action table
	POST /api/v1/entities/{entity}/mutations  apply an edit
	GET  /metrics                             Prometheus

# Search Parameters

sort takes a comma-separated clause such as "price:desc,name". root and
relation select a joined scope. offset and limit page the result. Any other
parameter is an equality filter on a sortable field of the entity.

# Responses

Every endpoint answers with models.APIResponse. Rejected input, including an
unknown sort field or a malformed direction, is a 400 VALIDATION_ERROR whose
details carry a machine-readable reason:

	{
	  "status": "error",
	  "error": {
	    "code": "VALIDATION_ERROR",
	    "message": "sort direction \"up\" for field \"price\" must be ASC or DESC",
	    "details": {"reason": "malformed_direction", "field": "price", "direction": "up"}
	  }
	}

# Middleware

Global: request ID, real IP, panic recovery and CORS. API routes add
per-IP rate limiting (go-chi/httprate), security headers, Prometheus
request metrics and gzip compression.
*/
package api
