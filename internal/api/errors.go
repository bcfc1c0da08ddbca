// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package api

import "github.com/tomtom215/quarry/internal/validation"

// Error codes used in APIError responses.
const (
	ErrCodeValidation        = validation.CodeValidationError
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeQuery             = "QUERY_ERROR"
	ErrCodeCommit            = "COMMIT_ERROR"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrCodeServiceUnavail    = "SERVICE_UNAVAILABLE"
)

// maxRequestBodySize caps mutation bodies.
const maxRequestBodySize = 1 << 20
