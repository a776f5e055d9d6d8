// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package api

import (
	"net/http"

	"github.com/tomtom215/songrec/internal/embed"
)

// EmbedVideo handles POST /api/v1/embed/video.
func (h *Handler) EmbedVideo(w http.ResponseWriter, r *http.Request) {
	var req EmbedRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	v, err := embed.ResolveVideo(req.Input)
	if err != nil {
		writeControllerError(w, r, err)
		return
	}
	WriteSuccess(w, r, v)
}

// EmbedAudio handles POST /api/v1/embed/audio.
func (h *Handler) EmbedAudio(w http.ResponseWriter, r *http.Request) {
	var req EmbedRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := embed.ResolveAudio(req.Input)
	if err != nil {
		writeControllerError(w, r, err)
		return
	}
	WriteSuccess(w, r, a)
}
