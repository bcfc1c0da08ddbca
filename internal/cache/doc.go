// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

/*
Package cache provides a bounded LRU cache with TTL expiry, used to hold
search result pages between identical requests.

Every Clear advances a generation counter. A caller that computes a value
outside the lock records the generation first and stores with AddAt, so a
result computed before a mutation never lands in the cache after the
mutation cleared it:

	gen := c.Generation()
	page, err := run()
	if err == nil {
	    c.AddAt(gen, key, page)
	}
*/
package cache
