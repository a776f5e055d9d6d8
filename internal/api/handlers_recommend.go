// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/songrec/internal/models"
)

// Status handles GET /api/v1/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.ctrl.Status())
}

// RefreshStatus handles POST /api/v1/status/refresh.
func (h *Handler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.ctrl.Refresh(r.Context()))
}

// SongsResponse is the catalog listing.
type SongsResponse struct {
	Source string        `json:"source"`
	Songs  []models.Song `json:"songs"`
}

// Songs handles GET /api/v1/songs.
func (h *Handler) Songs(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, SongsResponse{
		Source: string(h.ctrl.Status().CatalogSource),
		Songs:  h.ctrl.Catalog(),
	})
}

// SuggestionsResponse lists the titles matching a partial query.
type SuggestionsResponse struct {
	Query       string        `json:"query"`
	Suggestions []models.Song `json:"suggestions"`
}

// Suggestions handles GET /api/v1/suggestions?q=.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if len(q) > 200 || strings.ContainsAny(q, "\r\n") {
		NewResponseWriter(w, r).ValidationError("q must be at most 200 characters on one line", map[string]string{"field": "q"})
		return
	}

	suggestions := h.ctrl.Suggestions(r.Context(), q)
	if suggestions == nil {
		suggestions = []models.Song{}
	}
	WriteSuccess(w, r, SuggestionsResponse{Query: q, Suggestions: suggestions})
}

// Recommendations handles POST /api/v1/recommendations. It does not touch
// the shared view.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	set, err := h.ctrl.Recommend(r.Context(), req.SongName)
	if err != nil {
		writeControllerError(w, r, err)
		return
	}
	WriteSuccess(w, r, set)
}
