// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

// Package database is the DuckDB-backed query layer for the shop entities.
//
// # Overview
//
// DB owns the connection and the three demo tables (customers, products,
// orders). It serves two roles:
//
//   - Search executors: Products, Customers and Orders return
//     search.Executor values. They receive a search.Query whose sort and
//     filter paths were resolved through the catalog registry, count the
//     matches, and read one page ordered by those paths with the primary key
//     as tie-breaker.
//   - Mutation committer: Commit implements mutation.Committer and performs
//     CREATE, UPDATE, DELETE and CHANGE_STATUS with per-entity column
//     allow-lists.
//
// # SQL Safety
//
// Column paths appear in SQL text only after registry resolution; every
// value is bound as a parameter. Filter comparisons cast the column to
// VARCHAR so text values from a query string compare against any column type.
//
// # Files
//
//   - database.go: lifecycle (New, Ping, Close, Checkpoint, timeouts)
//   - schema.go: table and index creation
//   - seed.go: deterministic demo data
//   - tables.go: per-entity select specs
//   - executor.go: generic search executor
//   - commit.go: mutation committer
//   - query/: WHERE, ORDER BY and paging builders
package database
