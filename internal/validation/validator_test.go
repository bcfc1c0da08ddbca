// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package validation

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// ===================================================================================================
// ValidateStruct Tests
// ===================================================================================================

type pageStruct struct {
	Entity   string `validate:"required,min=1,max=64"`
	Root     string `validate:"required_with=Relation"`
	Relation string `validate:"required_with=Root"`
	Limit    int    `validate:"min=1,max=1000"`
	Offset   int    `validate:"min=0,max=1000000"`
	Status   string `validate:"omitempty,oneof=active archived"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input pageStruct
	}{
		{
			name:  "direct entity",
			input: pageStruct{Entity: "product", Limit: 50},
		},
		{
			name:  "qualified entity",
			input: pageStruct{Entity: "customer", Root: "order", Relation: "customer", Limit: 1},
		},
		{
			name:  "maximum values",
			input: pageStruct{Entity: "product", Limit: 1000, Offset: 1000000, Status: "archived"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     pageStruct
		wantField string
		wantTag   string
	}{
		{"missing entity", pageStruct{Limit: 10}, "Entity", "required"},
		{"limit too low", pageStruct{Entity: "product", Limit: 0}, "Limit", "min"},
		{"limit too high", pageStruct{Entity: "product", Limit: 2000}, "Limit", "max"},
		{"negative offset", pageStruct{Entity: "product", Limit: 1, Offset: -1}, "Offset", "min"},
		{"root without relation", pageStruct{Entity: "customer", Root: "order", Limit: 1}, "Relation", "required_with"},
		{"relation without root", pageStruct{Entity: "customer", Relation: "customer", Limit: 1}, "Root", "required_with"},
		{"bad status", pageStruct{Entity: "product", Limit: 1, Status: "Active"}, "Status", "oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}

			found := false
			for _, e := range err.Errors() {
				if e.Field() == tt.wantField && e.Tag() == tt.wantTag {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Expected error on field %s with tag %s, got: %v", tt.wantField, tt.wantTag, err.Errors())
			}
			if !err.HasTag(tt.wantTag) {
				t.Errorf("HasTag(%q) = false", tt.wantTag)
			}
		})
	}
}

// ===================================================================================================
// ToAPIError Tests
// ===================================================================================================

func TestToAPIError_SingleError(t *testing.T) {
	err := ValidateStruct(&pageStruct{Limit: 10})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != CodeValidationError {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}
	if apiErr.Message != "Entity is required" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "Entity" {
		t.Errorf("Details[field] = %v", apiErr.Details["field"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	err := ValidateStruct(&pageStruct{Limit: 0, Offset: -1})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("Expected details to contain 'fields' key")
	}
	if !strings.Contains(apiErr.Message, "Limit:") || !strings.Contains(apiErr.Message, "Offset:") {
		t.Errorf("Message should list every field, got %q", apiErr.Message)
	}
}

// ===================================================================================================
// Custom Tag Tests
// ===================================================================================================

type evenStruct struct {
	N int `validate:"even_number"`
}

func TestRegisterValidation(t *testing.T) {
	if err := RegisterValidation("", nil); err == nil {
		t.Error("empty tag should be rejected")
	}

	err := RegisterValidation("even_number", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%2 == 0
	})
	if err != nil {
		t.Fatalf("RegisterValidation() error = %v", err)
	}
	RegisterMessage("even_number", "%s must be even")

	if verr := ValidateStruct(&evenStruct{N: 4}); verr != nil {
		t.Errorf("unexpected error: %v", verr)
	}

	verr := ValidateStruct(&evenStruct{N: 3})
	if verr == nil {
		t.Fatal("expected error for odd number")
	}
	if got := verr.Error(); got != "N must be even" {
		t.Errorf("Error() = %q", got)
	}
}
