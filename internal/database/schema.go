// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package database

import (
	"context"
	"fmt"
	"time"
)

// Table names.
const (
	tableCustomers = "customers"
	tableProducts  = "products"
	tableOrders    = "orders"
	tableEvents    = "mutation_events"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// created_at has no default: CURRENT_TIMESTAMP is TIMESTAMPTZ and needs the
// ICU extension, which is deliberately not loaded. Writers set it explicitly.
// orders.customer_id has no foreign key so customers can be deleted while
// their orders remain; the order query uses a LEFT JOIN.
var tableCreationQueries = []struct {
	table string
	sql   string
}{
	{tableCustomers, `CREATE TABLE IF NOT EXISTS customers (
		id VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		email VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`},
	{tableProducts, `CREATE TABLE IF NOT EXISTS products (
		id VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		price DOUBLE NOT NULL DEFAULT 0,
		status VARCHAR NOT NULL DEFAULT 'active',
		created_at TIMESTAMP NOT NULL
	)`},
	{tableOrders, `CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR PRIMARY KEY,
		customer_id VARCHAR NOT NULL,
		total DOUBLE NOT NULL DEFAULT 0,
		status VARCHAR NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP NOT NULL
	)`},
	{tableEvents, `CREATE TABLE IF NOT EXISTS mutation_events (
		event_id VARCHAR PRIMARY KEY,
		entity_type VARCHAR NOT NULL,
		entity_id VARCHAR NOT NULL,
		action VARCHAR NOT NULL,
		actor VARCHAR NOT NULL DEFAULT '',
		correlation_id VARCHAR NOT NULL DEFAULT '',
		occurred_at TIMESTAMP NOT NULL,
		payload VARCHAR
	)`},
}

var indexCreationQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_mutation_events_entity ON mutation_events(entity_type, entity_id)`,
}

// createTables creates the core database tables and their indexes
func (db *DB) createTables(ctx context.Context) error {
	for _, q := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, q.sql); err != nil {
			return fmt.Errorf("failed to create table %s: %w", q.table, err)
		}
	}
	for _, q := range indexCreationQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
