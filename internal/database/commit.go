// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/quarry/internal/metrics"
	"github.com/tomtom215/quarry/internal/models"
	"github.com/tomtom215/quarry/internal/mutation"
	"github.com/tomtom215/quarry/internal/validation"
)

type columnKind int

const (
	kindText columnKind = iota
	kindNumber
)

// column is an editable column, keyed in editableTable by its change key.
type column struct {
	name     string
	kind     columnKind
	required bool // must be present on CREATE
}

// editableTable lists what a mutation may write to one table.
type editableTable struct {
	table    string
	columns  map[string]column
	statuses []string // allowed status values; nil when the table has no status
	snapshot func(ctx context.Context, db *DB, id string) (interface{}, error)
}

var editableTables = map[string]editableTable{
	models.EntityProduct: {
		table: tableProducts,
		columns: map[string]column{
			"name":   {name: "name", kind: kindText, required: true},
			"price":  {name: "price", kind: kindNumber},
			"status": {name: "status", kind: kindText},
		},
		statuses: []string{models.StatusActive, models.StatusArchived},
		snapshot: func(ctx context.Context, db *DB, id string) (interface{}, error) {
			return getByID(ctx, db, productSpec, id)
		},
	},
	models.EntityCustomer: {
		table: tableCustomers,
		columns: map[string]column{
			"name":  {name: "name", kind: kindText, required: true},
			"email": {name: "email", kind: kindText, required: true},
		},
		snapshot: func(ctx context.Context, db *DB, id string) (interface{}, error) {
			return getByID(ctx, db, customerSpec, id)
		},
	},
	models.EntityOrder: {
		table: tableOrders,
		columns: map[string]column{
			"customer_id": {name: "customer_id", kind: kindText, required: true},
			"total":       {name: "total", kind: kindNumber},
			"status":      {name: "status", kind: kindText},
		},
		statuses: []string{models.StatusPending, models.StatusShipped, models.StatusArchived},
		snapshot: func(ctx context.Context, db *DB, id string) (interface{}, error) {
			return getByID(ctx, db, orderSpec, id)
		},
	},
}

// Commit implements mutation.Committer.
//
// Unknown entities and missing rows wrap mutation.ErrNotFound. A CREATE
// whose ID is already taken wraps mutation.ErrConflict. CHANGE_STATUS
// on an entity without a status wraps mutation.ErrUnsupportedEntity. Change
// keys that are not editable, or values of the wrong type, are returned as
// a *validation.Failure. The committed row is returned as the snapshot.
func (db *DB) Commit(ctx context.Context, m mutation.Mutation) (committed mutation.Committed, err error) {
	t, ok := editableTables[m.Entity]
	if !ok {
		return mutation.Committed{}, fmt.Errorf("%w: unknown entity %q", mutation.ErrNotFound, m.Entity)
	}

	start := time.Now()
	defer func() {
		if !validation.IsFailure(err) {
			metrics.RecordDBQuery(strings.ToLower(m.Action.Code()), t.table, time.Since(start), err)
		}
	}()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var id string
	switch m.Action {
	case models.EditActionCreate:
		id, err = db.insert(ctx, t, m)
	case models.EditActionUpdate:
		id, err = db.update(ctx, t, m.ID, m.Changes)
	case models.EditActionChangeStatus:
		if t.statuses == nil {
			return mutation.Committed{}, fmt.Errorf("%w: %s has no status", mutation.ErrUnsupportedEntity, m.Entity)
		}
		id, err = db.update(ctx, t, m.ID, map[string]interface{}{"status": m.Changes["status"]})
	case models.EditActionDelete:
		return db.delete(ctx, t, m.ID)
	default:
		return mutation.Committed{}, fmt.Errorf("%w: %s is not a write", mutation.ErrUnsupportedEntity, m.Action.Code())
	}
	if err != nil {
		return mutation.Committed{}, err
	}

	snap, err := t.snapshot(ctx, db, id)
	if err != nil {
		return mutation.Committed{}, fmt.Errorf("read back %s %s: %w", m.Entity, id, err)
	}
	return mutation.Committed{EntityID: id, Snapshot: snap}, nil
}

func (db *DB) insert(ctx context.Context, t editableTable, m mutation.Mutation) (string, error) {
	cols, args, err := t.bind(m.Changes)
	if err != nil {
		return "", err
	}
	for _, key := range sortedKeys(t.columns) {
		if t.columns[key].required && m.Changes[key] == nil {
			return "", changeFailure(key, fmt.Sprintf("%s is required for CREATE", key), nil)
		}
	}

	id := m.ID
	if id == "" {
		id = uuid.New().String()
	} else if exists, err := db.rowExists(ctx, t.table, id); err != nil {
		return "", fmt.Errorf("check %s %s: %w", t.table, id, err)
	} else if exists {
		return "", fmt.Errorf("%w: %s %s already exists", mutation.ErrConflict, t.table, id)
	}

	cols = append([]string{"id", "created_at"}, cols...)
	args = append([]interface{}{id, time.Now().UTC()}, args...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	sqlText := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.table, strings.Join(cols, ", "), placeholders)
	if _, err := db.conn.ExecContext(ctx, sqlText, args...); err != nil {
		if isUniqueConstraintError(err) {
			return "", fmt.Errorf("%w: %s %s already exists: %v", mutation.ErrConflict, t.table, id, err)
		}
		return "", fmt.Errorf("insert %s: %w", t.table, err)
	}
	return id, nil
}

func (db *DB) rowExists(ctx context.Context, table, id string) (bool, error) {
	var n int64
	err := db.conn.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = ?", table), id).Scan(&n)
	return n > 0, err
}

func (db *DB) update(ctx context.Context, t editableTable, id string, changes map[string]interface{}) (string, error) {
	cols, args, err := t.bind(changes)
	if err != nil {
		return "", err
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = ?"
	}
	args = append(args, id)

	sqlText := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", t.table, strings.Join(sets, ", "))
	res, err := db.conn.ExecContext(ctx, sqlText, args...)
	if err != nil {
		return "", fmt.Errorf("update %s: %w", t.table, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return "", fmt.Errorf("%w: %s %s", mutation.ErrNotFound, t.table, id)
	}
	return id, nil
}

// delete reads the row first so the event can carry what was removed.
func (db *DB) delete(ctx context.Context, t editableTable, id string) (mutation.Committed, error) {
	snap, err := t.snapshot(ctx, db, id)
	if errors.Is(err, errRowNotFound) {
		return mutation.Committed{}, fmt.Errorf("%w: %s %s", mutation.ErrNotFound, t.table, id)
	}
	if err != nil {
		return mutation.Committed{}, fmt.Errorf("read %s %s: %w", t.table, id, err)
	}

	res, err := db.conn.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.table), id)
	if err != nil {
		return mutation.Committed{}, fmt.Errorf("delete %s: %w", t.table, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return mutation.Committed{}, fmt.Errorf("%w: %s %s", mutation.ErrNotFound, t.table, id)
	}
	return mutation.Committed{EntityID: id, Snapshot: snap}, nil
}

// bind maps change keys to columns in key order and coerces their values.
func (t editableTable) bind(changes map[string]interface{}) ([]string, []interface{}, error) {
	keys := sortedKeys(changes)
	cols := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys))

	for _, key := range keys {
		col, ok := t.columns[key]
		if !ok {
			return nil, nil, changeFailure(key, fmt.Sprintf("%s is not editable", key), sortedKeys(t.columns))
		}

		value, err := coerce(col.kind, changes[key])
		if err != nil {
			return nil, nil, changeFailure(key, fmt.Sprintf("%s %s", key, err.Error()), nil)
		}
		if key == "status" && !contains(t.statuses, value.(string)) {
			return nil, nil, changeFailure(key, fmt.Sprintf("status %q is not allowed", value), t.statuses)
		}

		cols = append(cols, col.name)
		args = append(args, value)
	}
	return cols, args, nil
}

func coerce(kind columnKind, v interface{}) (interface{}, error) {
	switch kind {
	case kindText:
		s, ok := v.(string)
		if !ok {
			return nil, errors.New("must be a string")
		}
		if strings.TrimSpace(s) == "" {
			return nil, errors.New("must not be empty")
		}
		return s, nil
	case kindNumber:
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case float32:
			f = float64(n)
		case int:
			f = float64(n)
		case int64:
			f = float64(n)
		default:
			return nil, errors.New("must be a number")
		}
		if f < 0 {
			return nil, errors.New("must not be negative")
		}
		return f, nil
	}
	return nil, fmt.Errorf("unsupported column kind %d", kind)
}

// changeFailure reports a bad change entry, with the accepted values if known.
func changeFailure(key, msg string, allowed []string) *validation.Failure {
	details := map[string]interface{}{
		"reason": validation.ReasonInvalidRequest,
		"field":  "changes." + key,
	}
	if allowed != nil {
		details["allowed"] = allowed
	}
	return validation.NewFailure(msg).WithDetails(details)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
