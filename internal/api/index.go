// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package api

import (
	_ "embed" // index page
	"net/http"
)

//go:embed static/index.html
var indexHTML []byte

// Index serves the single-page UI.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy",
		"default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; "+
			"frame-src https://www.youtube.com https://open.spotify.com; connect-src 'self' ws: wss:")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexHTML)
}
