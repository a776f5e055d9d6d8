// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthStatus is the readiness report.
type HealthStatus struct {
	Status          string  `json:"status"`
	RemoteAvailable bool    `json:"remote_available"`
	CatalogSource   string  `json:"catalog_source"`
	QueryLog        string  `json:"query_log"`
	WSClients       int     `json:"ws_clients"`
	Uptime          float64 `json:"uptime_seconds"`
}

// HealthLive reports that the process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]string{"status": "alive"})
}

// HealthReady reports dependency state. The server is ready whenever it runs:
// an unreachable recommender means demo mode, not an outage.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	st := h.ctrl.Status()

	status := "ready"
	qlState := "disabled"
	if h.queryLog != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.queryLog.Ping(ctx); err != nil {
			qlState = "error"
			status = "degraded"
		} else {
			qlState = "ok"
		}
	}
	if !st.Available {
		status = "degraded"
	}

	clients := 0
	if h.hub != nil {
		clients = h.hub.GetClientCount()
	}

	WriteSuccess(w, r, HealthStatus{
		Status:          status,
		RemoteAvailable: st.Available,
		CatalogSource:   string(st.CatalogSource),
		QueryLog:        qlState,
		WSClients:       clients,
		Uptime:          time.Since(h.startTime).Seconds(),
	})
}
