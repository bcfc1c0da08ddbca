// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/quarry/internal/logging"
	"github.com/tomtom215/quarry/internal/middleware"
	"github.com/tomtom215/quarry/internal/models"
	"github.com/tomtom215/quarry/internal/mutation"
	"github.com/tomtom215/quarry/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			RequestID:   middleware.GetRequestID(r.Context()),
		},
	})
}

// respondAPIError sends an error envelope.
func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError) {
	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: middleware.GetRequestID(r.Context()),
		},
		Error: apiErr,
	})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}
	respondAPIError(w, r, status, &models.APIError{Code: code, Message: message})
}

// respondFailure sends a rejected-input response. The message and details
// come from the failure; the cause is only logged.
func respondFailure(w http.ResponseWriter, r *http.Request, f *validation.Failure) {
	if cause := f.Cause(); cause != nil {
		logging.Ctx(r.Context()).Debug().
			Str("cause", sanitizeLogValue(cause.Error())).
			Msg("Request rejected")
	}
	apiErr := f.ToAPIError()
	respondAPIError(w, r, http.StatusBadRequest, &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	})
}

// respondMutationError maps a Service.Apply error to a response.
func respondMutationError(w http.ResponseWriter, r *http.Request, err error) {
	if f, ok := validation.AsFailure(err); ok {
		respondFailure(w, r, f)
		return
	}
	switch {
	case errors.Is(err, mutation.ErrNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Entity not found", nil)
	case errors.Is(err, mutation.ErrUnsupportedEntity):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Action is not supported for this entity", nil)
	case errors.Is(err, mutation.ErrConflict):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, "Entity already exists", nil)
	case errors.Is(err, mutation.ErrForbidden):
		respondError(w, r, http.StatusForbidden, ErrCodeForbidden, "Action is not permitted for this actor", nil)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeCommit, "Failed to apply mutation", err)
	}
}

// getIntParam extracts an integer query parameter with a default value.
// A value that is present but not an integer is reported as an error.
func getIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, validation.WrapFailure(fmt.Sprintf("%s must be an integer", key), err).
			WithDetails(map[string]interface{}{
				"reason": validation.ReasonInvalidRequest,
				"field":  key,
			})
	}

	return intValue, nil
}
