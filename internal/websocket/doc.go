// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

/*
Package websocket pushes view updates to connected browsers.

It uses gorilla/websocket with a hub-client architecture: the Hub owns the
set of clients and fans out every broadcast; each Client runs a read pump
(answers "ping" with "pong") and a write pump (delivers queued messages and
keepalive pings).

Message Types:

  - view_state: full session snapshot after every change
  - notice: a notice was raised, expired or dismissed
  - availability: the remote recommender status changed
  - ping / pong: application-level keepalive

Usage:

	hub := websocket.NewHub()
	tree.AddAPIService(hub) // Serve(ctx) runs RunWithContext

	upgrader := websocket.NewUpgrader(cfg.Server.CORSOrigins)
	r.Get("/api/v1/ws", func(w http.ResponseWriter, r *http.Request) {
	    websocket.ServeWS(hub, upgrader, w, r, websocket.Message{Type: websocket.MessageTypeViewState, Data: session.Snapshot()})
	})

	hub.BroadcastJSON(websocket.MessageTypeNotice, event)

Thread Safety:

Hub methods are safe for concurrent use. BroadcastJSON never blocks; when the
broadcast queue is full the message is dropped and logged. A client whose
send buffer is full is disconnected.
*/
package websocket
