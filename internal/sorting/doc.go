// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

// Package sorting validates caller-supplied sort clauses against a per-entity
// allow-list before any query runs.
//
// A Registry maps (entity, logical field) to a queryable path and records
// relations so an entity reached through a join can be sorted on its own
// fields, qualified with the join alias:
//
//	reg, err := sorting.NewRegistryBuilder().
//	    Entity("customer", sorting.Field{Name: "name"}, sorting.Field{Name: "createdAt", Path: "created_at"}).
//	    Entity("order", sorting.Field{Name: "total"}).
//	    Relation("order", "customer", "customer", "c").
//	    Build()
//
//	reg.Validate("customer", "", "", sorting.ParseClause("name:asc"))           // nil
//	reg.Validate("customer", "order", "customer", sorting.ParseClause("name"))  // nil, path c.name
//	reg.Validate("customer", "", "", sorting.ParseClause("email"))              // ErrUnknownSortField
//	reg.Validate("customer", "", "", sorting.ParseClause("name:sideways"))      // ErrMalformedSortDirection
//
// Validation is a plain function on the registry. The "sortable" struct tag
// binds it to request structs through the shared validator; see Target.
//
// Field matching is exact and case-sensitive. Direction tokens are matched
// case-insensitively. A Registry never changes after Build.
package sorting
