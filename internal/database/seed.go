// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/quarry/internal/logging"
	"github.com/tomtom215/quarry/internal/models"
)

// seedEpoch anchors seed timestamps so sorting by createdAt is reproducible.
var seedEpoch = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

var seedCustomers = []models.Customer{
	{ID: "c-001", Name: "Ada Lovelace", Email: "ada@example.com"},
	{ID: "c-002", Name: "Grace Hopper", Email: "grace@example.com"},
	{ID: "c-003", Name: "Alan Turing", Email: "alan@example.com"},
	{ID: "c-004", Name: "Edsger Dijkstra", Email: "edsger@example.com"},
	{ID: "c-005", Name: "Barbara Liskov", Email: "barbara@example.com"},
}

var seedProducts = []models.Product{
	{ID: "p-001", Name: "Desk Lamp", Price: 39.90, Status: models.StatusActive},
	{ID: "p-002", Name: "Notebook", Price: 4.50, Status: models.StatusActive},
	{ID: "p-003", Name: "Fountain Pen", Price: 24.00, Status: models.StatusActive},
	{ID: "p-004", Name: "Monitor Arm", Price: 89.00, Status: models.StatusArchived},
	{ID: "p-005", Name: "Cable Tray", Price: 19.99, Status: models.StatusActive},
	{ID: "p-006", Name: "Standing Mat", Price: 49.00, Status: models.StatusActive},
	{ID: "p-007", Name: "Whiteboard", Price: 64.00, Status: models.StatusArchived},
	{ID: "p-008", Name: "Headphone Hook", Price: 12.00, Status: models.StatusActive},
}

var seedOrders = []models.Order{
	{ID: "o-001", CustomerID: "c-001", Total: 44.40, Status: models.StatusShipped},
	{ID: "o-002", CustomerID: "c-002", Total: 89.00, Status: models.StatusShipped},
	{ID: "o-003", CustomerID: "c-001", Total: 24.00, Status: models.StatusPending},
	{ID: "o-004", CustomerID: "c-003", Total: 113.00, Status: models.StatusPending},
	{ID: "o-005", CustomerID: "c-004", Total: 19.99, Status: models.StatusShipped},
	{ID: "o-006", CustomerID: "c-005", Total: 12.00, Status: models.StatusPending},
	{ID: "o-007", CustomerID: "c-002", Total: 64.00, Status: models.StatusArchived},
	{ID: "o-008", CustomerID: "c-003", Total: 4.50, Status: models.StatusShipped},
}

// Seed inserts demo customers, products and orders. It does nothing when
// products already has rows, so it is safe to call on every start.
func (db *DB) Seed(ctx context.Context) error {
	var existing int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&existing); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if existing > 0 {
		logging.Debug().Int64("products", existing).Msg("Skipping seed, data present")
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer rollbackQuietly(tx)

	for i, c := range seedCustomers {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO customers (id, name, email, created_at) VALUES (?, ?, ?, ?)",
			c.ID, c.Name, c.Email, seedTime(i)); err != nil {
			return fmt.Errorf("seed customer %s: %w", c.ID, err)
		}
	}
	for i, p := range seedProducts {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO products (id, name, price, status, created_at) VALUES (?, ?, ?, ?, ?)",
			p.ID, p.Name, p.Price, p.Status, seedTime(i)); err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	for i, o := range seedOrders {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO orders (id, customer_id, total, status, created_at) VALUES (?, ?, ?, ?, ?)",
			o.ID, o.CustomerID, o.Total, o.Status, seedTime(i)); err != nil {
			return fmt.Errorf("seed order %s: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	logging.Info().
		Int("customers", len(seedCustomers)).
		Int("products", len(seedProducts)).
		Int("orders", len(seedOrders)).
		Msg("Seeded demo data")
	return nil
}

func seedTime(i int) time.Time {
	return seedEpoch.Add(time.Duration(i) * 6 * time.Hour)
}
