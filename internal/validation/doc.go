// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

// Package validation provides struct validation using go-playground/validator v10
// and the Failure type that every request-shape rejection is reported as.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Error translation to human-readable messages
//   - APIError conversion matching the VALIDATION_ERROR response format
//   - Failure, a message plus optional cause, for wrap-and-rethrow propagation
//
// # Quick Start
//
//	type SearchRequest struct {
//	    Entity string `validate:"required"`
//	    Limit  int    `validate:"min=1,max=1000"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    return validation.FromRequest(verr)
//	}
//
// # Failures
//
// A Failure is terminal for the request that produced it. The HTTP layer maps
// any *Failure in an error chain to 400 VALIDATION_ERROR and never retries.
// Failure.Error returns the validator-level message only; Unwrap exposes the
// lower-level cause:
//
//	err := validation.WrapFailure("sort rejected", sorting.ErrUnknownSortField)
//	errors.Is(err, sorting.ErrUnknownSortField) // true
//	err.Error()                                 // "sort rejected"
//
// # Custom Tags
//
// Packages may add tags to the singleton with RegisterValidation from an init
// function. Registration is not safe concurrently with validation.
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use.
package validation
