// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package sorting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/quarry/internal/validation"
)

// TagName is the struct tag that binds a Clause field to Registry.Validate.
//
// The scope may be fixed in the tag itself, either the entity alone or the
// entity followed by the root and relation it is reached through:
//
//	type ProductQuery struct {
//	    Sort sorting.Clause `validate:"sortable=product"`
//	}
//
//	type OrderCustomerQuery struct {
//	    Sort sorting.Clause `validate:"sortable=customer order customer"`
//	}
//
// Without a parameter the enclosing struct supplies the scope by implementing
// Target.
const TagName = "sortable"

// Target is implemented by request structs carrying a sortable Clause.
// A nil registry disables the check.
type Target interface {
	SortTarget() (reg *Registry, entity, root, relation string)
}

func init() {
	if err := validation.RegisterValidation(TagName, tagFunc(nil)); err != nil {
		panic(err)
	}
	validation.RegisterMessage(TagName, "%s is not a valid sort for this entity")
}

// RegisterValidation registers the sortable tag on v, checking clauses
// against reg. A Target on the enclosing struct still supplies the scope
// for tags without a parameter, but reg takes precedence over its registry.
func RegisterValidation(v *validator.Validate, reg *Registry) error {
	if v == nil || reg == nil {
		return errors.New("sorting: validator and registry are required")
	}
	if err := v.RegisterValidation(TagName, tagFunc(reg)); err != nil {
		return fmt.Errorf("register %q validation: %w", TagName, err)
	}
	return nil
}

func tagFunc(fixed *Registry) validator.Func {
	return func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if !field.CanInterface() {
			return false
		}
		clause, ok := field.Interface().(Clause)
		if !ok {
			return false
		}
		if len(clause) == 0 {
			return true
		}

		var (
			reg                    = fixed
			entity, root, relation string
		)
		target, hasTarget := sortTarget(fl)

		if param := strings.TrimSpace(fl.Param()); param != "" {
			entity, root, relation, ok = parseScope(param)
			if !ok {
				return false
			}
			if reg == nil && hasTarget {
				reg, _, _, _ = target.SortTarget()
			}
			if reg == nil {
				return false
			}
			return reg.Validate(entity, root, relation, clause) == nil
		}

		if !hasTarget {
			return false
		}
		var targetReg *Registry
		targetReg, entity, root, relation = target.SortTarget()
		if reg == nil {
			if targetReg == nil {
				return true
			}
			reg = targetReg
		}
		return reg.Validate(entity, root, relation, clause) == nil
	}
}

// parseScope reads "entity" or "entity root relation".
func parseScope(param string) (entity, root, relation string, ok bool) {
	parts := strings.Fields(param)
	switch len(parts) {
	case 1:
		return parts[0], "", "", true
	case 3:
		return parts[0], parts[1], parts[2], true
	default:
		return "", "", "", false
	}
}

func sortTarget(fl validator.FieldLevel) (Target, bool) {
	parent := fl.Parent()
	if parent.CanInterface() {
		if t, ok := parent.Interface().(Target); ok {
			return t, true
		}
	}
	if parent.CanAddr() && parent.Addr().CanInterface() {
		if t, ok := parent.Addr().Interface().(Target); ok {
			return t, true
		}
	}
	return nil, false
}
