// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package models

import "time"

// Entity type names used by the registry, the HTTP routes and event topics.
const (
	EntityProduct  = "product"
	EntityCustomer = "customer"
	EntityOrder    = "order"
)

// Status values shared by products and orders.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
	StatusPending  = "pending"
	StatusShipped  = "shipped"
)

// Product is a catalog item.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Customer places orders.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Order belongs to a customer. CustomerName is filled from the join.
type Order struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name,omitempty"`
	Total        float64   `json:"total"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
