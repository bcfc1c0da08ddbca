// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package cache

import (
	"context"
	"time"

	"github.com/tomtom215/quarry/internal/logging"
)

// Expirer is a cache that can drop its expired entries.
type Expirer interface {
	CleanupExpired() int
}

// Janitor sweeps expired entries from a cache on a fixed interval.
// It implements suture.Service.
type Janitor struct {
	name     string
	target   Expirer
	interval time.Duration
}

// NewJanitor creates a janitor for target. A non-positive interval
// defaults to one minute.
func NewJanitor(name string, target Expirer, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Janitor{name: name, target: target, interval: interval}
}

// Serve sweeps until ctx is done.
func (j *Janitor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := j.target.CleanupExpired(); removed > 0 {
				logging.Debug().Str("cache", j.name).Int("removed", removed).Msg("Expired cache entries removed")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (j *Janitor) String() string {
	return j.name
}
