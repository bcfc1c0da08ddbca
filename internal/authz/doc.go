// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

// Package authz decides which actors may apply which edit actions to which
// entities, using Casbin.
//
// A decision is a (subject, object, action) triple: the actor named on the
// mutation, the entity type, and the edit action code. Roles are Casbin
// grouping rules, and "*" in a policy field matches anything.
//
//	p, editor, product, UPDATE
//	p, support, order, CHANGE_STATUS
//	p, admin, *, *
//	g, alice, editor
//
// Without a policy file the built-in policy allows everything, which keeps
// behavior unchanged until an operator opts in. The actor is taken as
// supplied on the request; this package limits what a named actor may do,
// it does not authenticate anyone.
//
// Decisions are cached per triple in a TTL cache that is cleared on every
// policy change. Run the Enforcer under the supervisor to reload the policy
// file periodically.
package authz
