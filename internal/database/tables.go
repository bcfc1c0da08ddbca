// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package database

import (
	"database/sql"

	"github.com/tomtom215/quarry/internal/catalog"
	"github.com/tomtom215/quarry/internal/models"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// tableSpec describes how to read one entity.
//
// from and columns are written into SQL text and must use the same aliases
// as the paths declared in the catalog registry.
type tableSpec[T any] struct {
	table   string
	from    string
	columns string
	idPath  string
	scan    func(rowScanner) (T, error)
}

var productSpec = tableSpec[models.Product]{
	table:   tableProducts,
	from:    tableProducts,
	columns: "id, name, price, status, created_at",
	idPath:  "id",
	scan: func(r rowScanner) (models.Product, error) {
		var p models.Product
		err := r.Scan(&p.ID, &p.Name, &p.Price, &p.Status, &p.CreatedAt)
		return p, err
	},
}

var customerSpec = tableSpec[models.Customer]{
	table:   tableCustomers,
	from:    tableCustomers,
	columns: "id, name, email, created_at",
	idPath:  "id",
	scan: func(r rowScanner) (models.Customer, error) {
		var c models.Customer
		err := r.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt)
		return c, err
	},
}

// Orders always join their customer so order searches can sort and filter
// on customer fields through the order.customer relation.
var orderSpec = tableSpec[models.Order]{
	table: tableOrders,
	from: tableOrders + " " + catalog.OrderAlias +
		" LEFT JOIN " + tableCustomers + " " + catalog.CustomerAlias +
		" ON " + catalog.CustomerAlias + ".id = " + catalog.OrderAlias + ".customer_id",
	columns: "o.id, o.customer_id, COALESCE(c.name, ''), o.total, o.status, o.created_at",
	idPath:  catalog.OrderAlias + ".id",
	scan: func(r rowScanner) (models.Order, error) {
		var o models.Order
		err := r.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.Total, &o.Status, &o.CreatedAt)
		return o, err
	},
}

var eventSpec = tableSpec[models.EventRecord]{
	table:   tableEvents,
	from:    tableEvents,
	columns: "event_id, entity_type, entity_id, action, actor, correlation_id, occurred_at, payload",
	idPath:  "event_id",
	scan: func(r rowScanner) (models.EventRecord, error) {
		var e models.EventRecord
		var payload sql.NullString
		err := r.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.Actor, &e.CorrelationID, &e.OccurredAt, &payload)
		e.Payload = payload.String
		return e, err
	},
}
