// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package validation

import (
	"errors"
	"fmt"
	"testing"
)

var errLowLevel = errors.New("low level")

func TestFailure_Message(t *testing.T) {
	tests := []struct {
		name string
		f    *Failure
		want string
	}{
		{"plain", NewFailure("bad sort"), "bad sort"},
		{"wrapped keeps own message", WrapFailure("bad sort", errLowLevel), "bad sort"},
		{"empty message", NewFailure(""), "validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFailure_CauseChain(t *testing.T) {
	f := WrapFailure("outer", errLowLevel)

	if !errors.Is(f, errLowLevel) {
		t.Error("errors.Is should reach the wrapped cause")
	}
	if f.Cause() != errLowLevel {
		t.Errorf("Cause() = %v", f.Cause())
	}
	if NewFailure("x").Unwrap() != nil {
		t.Error("unwrapped failure should have nil cause")
	}

	// Wrapped again by an outer layer, still detectable.
	outer := fmt.Errorf("search product: %w", f)
	got, ok := AsFailure(outer)
	if !ok || got != f {
		t.Fatalf("AsFailure() = %v, %v", got, ok)
	}
	if !IsFailure(outer) {
		t.Error("IsFailure() = false")
	}
	if IsFailure(errLowLevel) {
		t.Error("plain error must not be a Failure")
	}
}

func TestFailure_ToAPIError(t *testing.T) {
	f := NewFailure("sort field \"x\" is not sortable").WithDetails(map[string]interface{}{
		"reason": ReasonUnknownField,
	})

	apiErr := f.ToAPIError()
	if apiErr.Code != CodeValidationError {
		t.Errorf("Code = %s", apiErr.Code)
	}
	if apiErr.Details["reason"] != ReasonUnknownField {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestFromRequest(t *testing.T) {
	if FromRequest(nil) != nil {
		t.Error("FromRequest(nil) should be nil")
	}

	verr := ValidateStruct(&pageStruct{Limit: 1})
	f := FromRequest(verr)
	if f == nil {
		t.Fatal("expected failure")
	}
	if f.Error() != verr.ToAPIError().Message {
		t.Errorf("Error() = %q", f.Error())
	}

	var target *RequestValidationError
	if !errors.As(f, &target) {
		t.Error("cause should be the RequestValidationError")
	}
	if f.Details()["reason"] != ReasonInvalidRequest {
		t.Errorf("reason = %v", f.Details()["reason"])
	}
}
