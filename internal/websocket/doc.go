// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

/*
Package websocket pushes view state and catalog events to browsers.

It uses gorilla/websocket with a hub-client architecture:

	┌──────────┐
	│   Hub    │ ← session-targeted and global broadcasts
	└────┬─────┘
	     │
	┌────┴─────┬──────────┬──────────┐
	│ Client   │ Client   │ Client   │
	│ sess=A   │ sess=A   │ sess=B   │
	└──────────┴──────────┴──────────┘

Every client belongs to one session (the mp_session cookie). A visitor with
two tabs open gets two clients on the same session; a state change made in
one tab is pushed to both.

Message types:

  - state_changed: a session's view state snapshot, sent to that session only
  - catalog_reloaded: the catalog was reloaded, sent to everyone
  - ping / pong: application-level keepalive requested by the browser

Each client has two goroutines: readPump handles inbound pings and the pong
deadline, writePump drains the send buffer and sends protocol pings. A client
whose buffer is full is dropped rather than allowed to slow the hub.

Usage:

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)

	r.Get("/api/v1/ws", func(w http.ResponseWriter, r *http.Request) {
	    websocket.ServeWS(hub, w, r, sessionID, &initial)
	})
*/
package websocket
