// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package api

import (
	"net/http"

	"github.com/tomtom215/songrec/internal/middleware"
)

// PerformanceResponse is the latency report.
type PerformanceResponse struct {
	Endpoints []middleware.EndpointStats  `json:"endpoints"`
	Recent    []middleware.RequestMetrics `json:"recent"`
}

// Performance handles GET /api/v1/performance.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, PerformanceResponse{
		Endpoints: h.perf.GetStats(),
		Recent:    h.perf.GetRecentMetrics(20),
	})
}
