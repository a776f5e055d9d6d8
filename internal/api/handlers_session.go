// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/songrec/internal/view"
)

// Session handles GET /api/v1/session.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.session.Snapshot())
}

// SessionQuery handles POST /api/v1/session/query.
func (h *Handler) SessionQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	WriteSuccess(w, r, h.session.Type(r.Context(), req.Query))
}

// SessionSearch handles POST /api/v1/session/search. A search overtaken by a
// newer one answers 409 and leaves the view to the newer search.
func (h *Handler) SessionSearch(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respondState(w, r)(h.session.Search(r.Context(), req.SongName))
}

// SessionVideo handles POST /api/v1/session/video.
func (h *Handler) SessionVideo(w http.ResponseWriter, r *http.Request) {
	var req EmbedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respondState(w, r)(h.session.PlayVideo(req.Input))
}

// SessionAudio handles POST /api/v1/session/audio.
func (h *Handler) SessionAudio(w http.ResponseWriter, r *http.Request) {
	var req EmbedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respondState(w, r)(h.session.PlayAudio(req.Input))
}

// SessionCardPlay handles POST /api/v1/session/cards/{index}/play.
func (h *Handler) SessionCardPlay(w http.ResponseWriter, r *http.Request) {
	index, ok := cardIndex(w, r)
	if !ok {
		return
	}
	h.respondState(w, r)(h.session.PlayCard(index))
}

// SessionCardSpotify handles POST /api/v1/session/cards/{index}/spotify.
func (h *Handler) SessionCardSpotify(w http.ResponseWriter, r *http.Request) {
	index, ok := cardIndex(w, r)
	if !ok {
		return
	}
	h.respondState(w, r)(h.session.SpotifyCard(index))
}

// DismissNotice handles DELETE /api/v1/session/notices/{id}.
func (h *Handler) DismissNotice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.board.Dismiss(id) {
		NewResponseWriter(w, r).NotFound("Notice not found or already expired")
		return
	}
	WriteSuccess(w, r, h.session.Snapshot())
}

// respondState returns a writer for the (State, error) pair of a session
// operation.
func (h *Handler) respondState(w http.ResponseWriter, r *http.Request) func(view.State, error) {
	return func(st view.State, err error) {
		if err != nil {
			writeControllerError(w, r, err)
			return
		}
		WriteSuccess(w, r, st)
	}
}

func cardIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		NewResponseWriter(w, r).ValidationError("Card index must be an integer", map[string]string{"field": "index"})
		return 0, false
	}
	return index, true
}
