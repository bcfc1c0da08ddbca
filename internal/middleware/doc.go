// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

/*
Package middleware provides HTTP middleware components for the API.

Key Components:

  - RequestID: request and correlation IDs in headers and the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled by route pattern
  - Compression: gzip for clients that accept it

All middleware uses the http.HandlerFunc signature; the api package adapts
them to chi with a one-line wrapper:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
*/
package middleware
