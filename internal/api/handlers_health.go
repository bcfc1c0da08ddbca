// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/quarry/internal/models"
)

// HealthLive reports that the process is serving requests. It never touches
// the database, so orchestrators do not restart a pod for a slow disk.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, models.HealthStatus{
		Status:  "alive",
		Version: Version,
		Uptime:  time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// HealthReady reports whether requests can be served. 503 when the database
// does not answer a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	health := models.HealthStatus{
		Status:   "ready",
		Version:  Version,
		Uptime:   time.Since(h.startTime).Seconds(),
		Database: dbConnected,
		Checks:   map[string]string{"database": "ok"},
	}

	status := http.StatusOK
	if !dbConnected {
		health.Status = "not_ready"
		health.Checks["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	respondSuccess(w, r, status, health, start)
}
