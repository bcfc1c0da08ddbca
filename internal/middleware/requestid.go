// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/tomtom215/quarry/internal/logging"
)

// Header names for request tracing.
const (
	RequestIDHeader     = "X-Request-ID"
	CorrelationIDHeader = "X-Correlation-ID"
)

// maxTraceIDLength bounds caller-supplied IDs so a client cannot inflate every
// log line and event for the request.
const maxTraceIDLength = 128

type contextKey string

const RequestIDKey contextKey = "request_id"

// RequestID middleware assigns each request an ID and a correlation ID.
//
// Upstream values from X-Request-ID and X-Correlation-ID are kept when they
// look sane; otherwise new UUIDs are generated. Both are echoed in the
// response and stored in the logging context, from where the mutation
// service copies the correlation ID into published events.
func RequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := traceID(r.Header.Get(RequestIDHeader))
		correlationID := traceID(r.Header.Get(CorrelationIDHeader))
		if correlationID == "" {
			correlationID = requestID
		}

		w.Header().Set(RequestIDHeader, requestID)
		w.Header().Set(CorrelationIDHeader, correlationID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = logging.ContextWithRequestID(ctx, requestID)
		ctx = logging.ContextWithCorrelationID(ctx, correlationID)

		next(w, r.WithContext(ctx))
	}
}

// traceID returns id if it is usable, or a new UUID.
func traceID(id string) string {
	if id == "" || len(id) > maxTraceIDLength {
		return uuid.New().String()
	}
	for _, c := range id {
		if c < 0x21 || c > 0x7E {
			return uuid.New().String()
		}
	}
	return id
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
