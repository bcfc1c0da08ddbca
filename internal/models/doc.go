// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

/*
Package models defines the data structures shared across Quarry.

Key Components:

  - EditAction: closed enumeration tagging a mutation (NONE, CREATE, UPDATE,
    DELETE, CHANGE_STATUS), each with a fixed display description
  - Product, Customer, Order: searchable entities
  - EventRecord: a row of the mutation event log, searchable as "event"
  - APIResponse, APIError, Metadata: HTTP response wrapper

EditAction encodes as its code in JSON and text:

	models.EditActionChangeStatus.Code()        // "CHANGE_STATUS"
	models.Describe(models.EditActionChangeStatus) // "Change Status"
	models.ParseEditAction("create")            // EditActionCreate

The description table is fixed at compile time and never mutated.
*/
package models
