// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/songrec/internal/validation"
)

// maxBodyBytes caps request bodies; every request here is a short string.
const maxBodyBytes = 16 * 1024

// RecommendRequest is the body of POST /recommendations and /session/search.
// Emptiness is checked by the controller so the user sees its message.
type RecommendRequest struct {
	SongName string `json:"song_name" validate:"max=200,nocontrol"`
}

// QueryRequest is the body of POST /session/query.
type QueryRequest struct {
	Query string `json:"query" validate:"max=200,nocontrol"`
}

// EmbedRequest is the body of the embed and pane endpoints.
type EmbedRequest struct {
	Input string `json:"input" validate:"max=2048,nocontrol"`
}

// decodeJSON reads a bounded JSON body into dst and validates it. On failure
// it writes the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	rw := NewResponseWriter(w, r)

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			rw.Error(http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "Request body too large")
		} else {
			rw.BadRequest("Could not read request body")
		}
		return false
	}
	if len(bytes.TrimSpace(data)) == 0 {
		rw.BadRequest("Request body is required")
		return false
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		rw.BadRequest("Invalid JSON body")
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// intQueryParam parses an optional positive integer query parameter.
func intQueryParam(r *http.Request, key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return n, nil
}
