// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package validation

import "errors"

// Error codes and detail reasons shared by every validation rejection.
const (
	CodeValidationError = "VALIDATION_ERROR"

	ReasonInvalidRequest     = "invalid_request"
	ReasonUnknownField       = "unknown_field"
	ReasonMalformedDirection = "malformed_direction"
	ReasonUnknownRelation    = "unknown_relation"
)

// Failure is the terminal rejection of a single request's input.
//
// Error returns only the validator-level message; the lower-level cause stays
// reachable through errors.Is and errors.As for logging. A Failure is never
// retried.
type Failure struct {
	message string
	cause   error
	details map[string]interface{}
}

// NewFailure creates a Failure with no underlying cause.
func NewFailure(message string) *Failure {
	return &Failure{message: message}
}

// WrapFailure creates a Failure that preserves cause for diagnostics.
func WrapFailure(message string, cause error) *Failure {
	return &Failure{message: message, cause: cause}
}

// WithDetails attaches structured details surfaced in API error responses.
func (f *Failure) WithDetails(details map[string]interface{}) *Failure {
	f.details = details
	return f
}

// Error returns the validator-level message.
func (f *Failure) Error() string {
	if f.message == "" {
		return "validation failed"
	}
	return f.message
}

// Unwrap returns the underlying cause, if any.
func (f *Failure) Unwrap() error {
	return f.cause
}

// Cause returns the underlying cause, if any.
func (f *Failure) Cause() error {
	return f.cause
}

// Details returns the structured details, or nil.
func (f *Failure) Details() map[string]interface{} {
	return f.details
}

// ToAPIError converts the failure to the VALIDATION_ERROR response shape.
func (f *Failure) ToAPIError() *APIError {
	return &APIError{
		Code:    CodeValidationError,
		Message: f.Error(),
		Details: f.details,
	}
}

// FromRequest wraps a struct validation result as a Failure carrying the same
// message and details.
func FromRequest(verr *RequestValidationError) *Failure {
	if verr == nil {
		return nil
	}
	apiErr := verr.ToAPIError()
	return &Failure{message: apiErr.Message, cause: verr, details: apiErr.Details}
}

// AsFailure returns the first *Failure in err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsFailure reports whether err is, or wraps, a *Failure.
func IsFailure(err error) bool {
	_, ok := AsFailure(err)
	return ok
}
