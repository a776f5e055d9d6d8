// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package api

import (
	"net/http"

	ws "github.com/tomtom215/songrec/internal/websocket"
)

// WebSocket handles GET /api/v1/ws. A new client first receives the current
// availability and view, then every broadcast.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		NewResponseWriter(w, r).ServiceUnavailable("Live updates are not enabled")
		return
	}

	ws.ServeWS(h.hub, h.upgrader, w, r,
		ws.Message{Type: ws.MessageTypeAvailability, Data: h.ctrl.Status()},
		ws.Message{Type: ws.MessageTypeViewState, Data: h.session.Snapshot()},
	)
}
