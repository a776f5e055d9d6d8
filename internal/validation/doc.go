// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

// Package validation validates decoded API request structs with
// go-playground/validator v10.
//
// A single validator instance is shared (it caches struct metadata). Error
// field names come from json tags, so messages match what the client sent:
//
//	type recommendRequest struct {
//	    SongName string `json:"song_name" validate:"max=200,nocontrol"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// Emptiness of free-text inputs is not checked here; the controller reports
// it with its own user-facing message.
package validation
