// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package sorting

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/quarry/internal/validation"
)

type taggedRequest struct {
	Entity   string
	Root     string
	Relation string
	Sort     Clause `validate:"sortable"`

	reg *Registry
}

func (r taggedRequest) SortTarget() (*Registry, string, string, string) {
	return r.reg, r.Entity, r.Root, r.Relation
}

type untargeted struct {
	Sort Clause `validate:"sortable"`
}

func TestSortableTag(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name    string
		req     taggedRequest
		wantErr bool
	}{
		{"allowed", taggedRequest{Entity: "customer", Sort: ParseClause("name"), reg: reg}, false},
		{"empty", taggedRequest{Entity: "customer", reg: reg}, false},
		{"joined", taggedRequest{Entity: "customer", Root: "order", Relation: "customer", Sort: ParseClause("email:desc"), reg: reg}, false},
		{"unknown field", taggedRequest{Entity: "customer", Sort: ParseClause("bogus"), reg: reg}, true},
		{"malformed direction", taggedRequest{Entity: "customer", Sort: ParseClause("name:up"), reg: reg}, true},
		{"no registry", taggedRequest{Entity: "customer", Sort: ParseClause("bogus")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := validation.ValidateStruct(&tt.req)
			if (verr != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() = %v, wantErr %v", verr, tt.wantErr)
			}
			if verr != nil && !verr.HasTag(TagName) {
				t.Errorf("failing tag should be %q, got %v", TagName, verr.Errors())
			}
		})
	}
}

func TestSortableTag_RequiresTarget(t *testing.T) {
	if verr := validation.ValidateStruct(&untargeted{Sort: ParseClause("name")}); verr == nil {
		t.Error("a non-empty clause without a Target must be rejected")
	}
	if verr := validation.ValidateStruct(&untargeted{}); verr != nil {
		t.Errorf("empty clause should pass, got %v", verr)
	}
}

// ============================================================================
// Parameterized Tag
// ============================================================================

type customerQuery struct {
	Sort Clause `validate:"sortable=customer"`
}

type orderCustomerQuery struct {
	Sort Clause `validate:"sortable=customer order customer"`
}

type badScopeQuery struct {
	Sort Clause `validate:"sortable=customer order"`
}

func TestRegisterValidation(t *testing.T) {
	reg := testRegistry(t)
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterValidation(v, reg); err != nil {
		t.Fatalf("RegisterValidation() error = %v", err)
	}

	tests := []struct {
		name    string
		value   interface{}
		wantErr bool
	}{
		{"entity allowed", &customerQuery{Sort: ParseClause("name:desc")}, false},
		{"entity empty clause", &customerQuery{}, false},
		{"entity unknown field", &customerQuery{Sort: ParseClause("total")}, true},
		{"entity malformed direction", &customerQuery{Sort: ParseClause("name:sideways")}, true},
		{"relation allowed", &orderCustomerQuery{Sort: ParseClause("email,name:asc")}, false},
		{"relation unknown field", &orderCustomerQuery{Sort: ParseClause("status")}, true},
		{"incomplete scope", &badScopeQuery{Sort: ParseClause("name")}, true},
		{"target scope with fixed registry", &taggedRequest{Entity: "order", Sort: ParseClause("total")}, false},
		{"target scope unknown field", &taggedRequest{Entity: "order", Sort: ParseClause("email")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Struct() = %v, wantErr %v", err, tt.wantErr)
			}
			var verrs validator.ValidationErrors
			if err != nil && (!errors.As(err, &verrs) || verrs[0].Tag() != TagName) {
				t.Errorf("failing tag should be %q, got %v", TagName, err)
			}
		})
	}
}

func TestRegisterValidation_RequiresArguments(t *testing.T) {
	if err := RegisterValidation(nil, testRegistry(t)); err == nil {
		t.Error("nil validator should be rejected")
	}
	if err := RegisterValidation(validator.New(), nil); err == nil {
		t.Error("nil registry should be rejected")
	}
}

func TestSortableTag_ParamUsesTargetRegistry(t *testing.T) {
	type scoped struct {
		taggedRequest
		Other Clause `validate:"sortable=order"`
	}
	reg := testRegistry(t)

	ok := scoped{taggedRequest: taggedRequest{Entity: "customer", reg: reg}, Other: ParseClause("status")}
	if verr := validation.ValidateStruct(&ok); verr != nil {
		t.Errorf("order.status should pass, got %v", verr)
	}
	bad := scoped{taggedRequest: taggedRequest{Entity: "customer", reg: reg}, Other: ParseClause("email")}
	if verr := validation.ValidateStruct(&bad); verr == nil {
		t.Error("order.email should fail")
	}
}
