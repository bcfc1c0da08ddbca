// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/quarry/internal/database/query"
	"github.com/tomtom215/quarry/internal/metrics"
	"github.com/tomtom215/quarry/internal/models"
	"github.com/tomtom215/quarry/internal/search"
)

// errRowNotFound is returned by getByID when no row has the id.
var errRowNotFound = errors.New("row not found")

// tableExecutor runs validated search queries against one table spec.
type tableExecutor[T any] struct {
	db   *DB
	spec tableSpec[T]
}

// Products returns the search executor for products.
func (db *DB) Products() search.Executor[models.Product] {
	return &tableExecutor[models.Product]{db: db, spec: productSpec}
}

// Customers returns the search executor for customers.
func (db *DB) Customers() search.Executor[models.Customer] {
	return &tableExecutor[models.Customer]{db: db, spec: customerSpec}
}

// Orders returns the search executor for orders. Rows carry the customer
// name from the join.
func (db *DB) Orders() search.Executor[models.Order] {
	return &tableExecutor[models.Order]{db: db, spec: orderSpec}
}

// Events returns the search executor for the mutation event log.
func (db *DB) Events() search.Executor[models.EventRecord] {
	return &tableExecutor[models.EventRecord]{db: db, spec: eventSpec}
}

// Execute implements search.Executor. It counts all matches, then reads one
// page ordered by the resolved sort with the primary key as tie-breaker.
func (e *tableExecutor[T]) Execute(ctx context.Context, q search.Query) (items []T, total int64, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("search", e.spec.table, time.Since(start), err)
	}()

	ctx, cancel := e.db.ensureContext(ctx)
	defer cancel()

	wb := query.NewWhereBuilder()
	for _, c := range q.Filter {
		wb.AddEquals(c.Path, c.Value)
	}
	where, args := wb.BuildWithPrefix()

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", e.spec.from, where)
	if err = e.db.conn.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", e.spec.table, err)
	}

	items = make([]T, 0)
	if total == 0 || int64(q.Offset) >= total {
		return items, total, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = search.DefaultLimit
	}
	page, pageArgs := query.Page(limit, q.Offset)

	selectSQL := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY %s %s",
		e.spec.columns, e.spec.from, where, query.OrderBy(q.Sort, e.spec.idPath), page)

	rows, err := e.db.conn.QueryContext(ctx, selectSQL, append(args, pageArgs...)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query %s: %w", e.spec.table, err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		item, scanErr := e.spec.scan(rows)
		if scanErr != nil {
			err = fmt.Errorf("scan %s: %w", e.spec.table, scanErr)
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate %s: %w", e.spec.table, err)
	}

	return items, total, nil
}

// getByID reads one row through spec.
func getByID[T any](ctx context.Context, db *DB, spec tableSpec[T], id string) (T, error) {
	sqlText := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", spec.columns, spec.from, spec.idPath)
	item, err := spec.scan(db.conn.QueryRowContext(ctx, sqlText, id))
	if errors.Is(err, sql.ErrNoRows) {
		return item, errRowNotFound
	}
	return item, err
}
