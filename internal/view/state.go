// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

// Package view holds the interactive session state that the index page and
// websocket clients render.
package view

import (
	"github.com/tomtom215/songrec/internal/models"
	"github.com/tomtom215/songrec/internal/notice"
)

// Pane is the visible embedded player.
type Pane string

const (
	PaneNone  Pane = "none"
	PaneVideo Pane = "video"
	PaneAudio Pane = "audio"
)

// State is a render-ready snapshot of a session.
type State struct {
	Query          string          `json:"query"`
	Suggestions    []models.Song   `json:"suggestions"`
	Heading        string          `json:"heading"`
	Results        []models.Song   `json:"results"`
	Source         models.Source   `json:"source,omitempty"`
	ResultsVisible bool            `json:"results_visible"`
	Loading        bool            `json:"loading"`
	ActivePane     Pane            `json:"active_pane"`
	VideoInput     string          `json:"video_input"`
	AudioInput     string          `json:"audio_input"`
	VideoURL       string          `json:"video_url"`
	AudioURL       string          `json:"audio_url"`
	TotalDisplay   string          `json:"total_display"`
	Notices        []notice.Notice `json:"notices"`
	Seq            uint64          `json:"seq"`
}

func (s State) clone() State {
	out := s
	if s.Suggestions != nil {
		out.Suggestions = append([]models.Song(nil), s.Suggestions...)
	}
	if s.Results != nil {
		out.Results = append([]models.Song(nil), s.Results...)
	}
	return out
}
