// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/quarry/internal/logging"
	ws "github.com/tomtom215/quarry/internal/websocket"
)

// SetLiveFeed attaches the hub served at /api/v1/events/live. Call it
// before the router is set up.
func (h *Handler) SetLiveFeed(hub *ws.Hub) {
	h.liveFeed = hub
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts origins listed in Security.CORSOrigins.
// Browsers always send Origin, so a request without one is rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("Live feed connection rejected: missing Origin header")
		return false
	}

	if h.config == nil {
		return true
	}
	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("Live feed connection rejected from unauthorized origin")
	return false
}

// LiveFeed upgrades the connection and streams committed mutation events.
//
// GET /api/v1/events/live
func (h *Handler) LiveFeed(w http.ResponseWriter, r *http.Request) {
	if h.liveFeed == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavail, "Live feed unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logging.Debug().Err(err).Msg("Live feed upgrade failed")
		return
	}

	client := ws.NewClient(h.liveFeed, conn)
	if err := h.liveFeed.Register(r.Context(), client); err != nil {
		logging.Warn().Err(err).Msg("Live feed client not registered")
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "shutting down"))
		_ = conn.Close()
		return
	}
	client.Start()
}
