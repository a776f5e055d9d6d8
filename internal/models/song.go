// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

// Package models holds the domain types shared by the recommender controller,
// the remote client and the HTTP layer.
package models

import "strings"

// Song is one catalog or recommendation entry. JSON names follow the remote
// recommender's wire format.
type Song struct {
	// Title is the song name.
	Title string `json:"song_name"`

	// Artist is the performing singer.
	Artist string `json:"singer"`

	// ReleaseYear is kept as a string; the remote service sends it verbatim.
	ReleaseYear string `json:"released_date"`
}

// NormalizedTitle returns the trimmed, lower-cased title used for matching.
func (s Song) NormalizedTitle() string {
	return Normalize(s.Title)
}

// Normalize trims and lower-cases a free-text query.
func Normalize(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Source identifies where a recommendation set came from.
type Source string

const (
	// SourceRemote means the remote recommender answered.
	SourceRemote Source = "remote"

	// SourceCache means a cached remote answer was reused.
	SourceCache Source = "cache"

	// SourceCurated means the local curated table matched.
	SourceCurated Source = "curated"

	// SourceShuffle means the local shuffle of the fallback catalog was used.
	SourceShuffle Source = "shuffle"
)

// IsLocal reports whether the set was produced without the remote service.
func (s Source) IsLocal() bool {
	return s == SourceCurated || s == SourceShuffle
}

// RecommendationSet is the ordered answer to one query.
type RecommendationSet struct {
	Query  string `json:"query"`
	Songs  []Song `json:"songs"`
	Source Source `json:"source"`

	// Seq is the view session sequence number, 0 for unfenced calls.
	Seq uint64 `json:"seq,omitempty"`
}
