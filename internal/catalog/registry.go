// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

// Package catalog declares which fields of the shop entities may be sorted
// and filtered on, and the SQL paths behind them.
package catalog

import (
	"sync"

	"github.com/tomtom215/quarry/internal/models"
	"github.com/tomtom215/quarry/internal/sorting"
)

// Join aliases used by the query layer.
const (
	OrderAlias    = "o"
	CustomerAlias = "c"
)

// RelationCustomer is the relation name from order to its customer.
const RelationCustomer = "customer"

var (
	defaultOnce     sync.Once
	defaultRegistry *sorting.Registry
)

// NewRegistry builds the registry for products, customers, orders and the
// mutation event log.
//
// Order paths carry the order alias because order searches always join the
// customer table; customer paths are bare and get the customer alias only
// when reached through order.customer.
func NewRegistry() (*sorting.Registry, error) {
	return sorting.NewRegistryBuilder().
		Entity(models.EntityProduct,
			sorting.Field{Name: "id"},
			sorting.Field{Name: "name"},
			sorting.Field{Name: "price"},
			sorting.Field{Name: "status"},
			sorting.Field{Name: "createdAt", Path: "created_at"},
		).
		Entity(models.EntityCustomer,
			sorting.Field{Name: "id"},
			sorting.Field{Name: "name"},
			sorting.Field{Name: "email"},
			sorting.Field{Name: "createdAt", Path: "created_at"},
		).
		Entity(models.EntityOrder,
			sorting.Field{Name: "id", Path: OrderAlias + ".id"},
			sorting.Field{Name: "total", Path: OrderAlias + ".total"},
			sorting.Field{Name: "status", Path: OrderAlias + ".status"},
			sorting.Field{Name: "createdAt", Path: OrderAlias + ".created_at"},
		).
		Entity(models.EntityEvent,
			sorting.Field{Name: "id", Path: "event_id"},
			sorting.Field{Name: "entityType", Path: "entity_type"},
			sorting.Field{Name: "entityId", Path: "entity_id"},
			sorting.Field{Name: "action"},
			sorting.Field{Name: "actor"},
			sorting.Field{Name: "occurredAt", Path: "occurred_at"},
		).
		Relation(models.EntityOrder, RelationCustomer, models.EntityCustomer, CustomerAlias).
		Build()
}

// DefaultRegistry returns the shared registry. The declaration is static,
// so a build error is a programming error and panics.
func DefaultRegistry() *sorting.Registry {
	defaultOnce.Do(func() {
		reg, err := NewRegistry()
		if err != nil {
			panic("catalog: " + err.Error())
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}
