// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

// Package query provides SQL query building utilities for the database package.
//
// WhereBuilder produces parameterized WHERE clauses, OrderBy renders a
// validated sort with a stable tie-breaker, and Page produces the paging
// suffix:
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("status", "active")
//	where, args := wb.BuildWithPrefix()
//
//	sql := fmt.Sprintf("SELECT * FROM products %s ORDER BY %s LIMIT ? OFFSET ?",
//	    where, query.OrderBy(resolved, "id"))
//
// Paths passed to these helpers are written into the SQL text. They must be
// taken from a sorting.Registry so only declared columns can appear.
package query
