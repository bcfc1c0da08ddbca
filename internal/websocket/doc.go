// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

/*
Package websocket pushes committed mutation events to connected clients.

The Hub owns the client set and runs under the supervisor tree; each Client
has a read pump (pings and close detection) and a write pump (messages and
keepalive pings). The event router feeds the hub through BroadcastMutation.

	hub := websocket.NewHub()
	tree.AddMessagingService(hub)

	// GET /api/v1/events/live
	conn, _ := upgrader.Upgrade(w, r, nil)
	client := websocket.NewClient(hub, conn)
	if err := hub.Register(r.Context(), client); err != nil {
	    conn.Close()
	    return
	}
	client.Start()

Messages are JSON objects with a type and data:

	{"type":"mutation","data":{"event_id":"...","entity_type":"order",...}}

A client whose send buffer is full is disconnected rather than slowing the
hub down. Clients may send {"type":"ping"} and receive {"type":"pong"}.
*/
package websocket
