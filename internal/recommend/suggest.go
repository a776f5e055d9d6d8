// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package recommend

import (
	"strings"

	"github.com/tomtom215/songrec/internal/models"
)

const (
	// MinSuggestionQuery is the shortest normalized query that yields suggestions.
	MinSuggestionQuery = 2

	// MaxSuggestions caps the suggestion list.
	MaxSuggestions = 5
)

// Suggest returns up to MaxSuggestions catalog entries whose title contains the
// normalized query, in catalog order. Queries shorter than MinSuggestionQuery
// after trimming return nil.
func Suggest(catalog []models.Song, query string) []models.Song {
	q := models.Normalize(query)
	if len([]rune(q)) < MinSuggestionQuery {
		return nil
	}

	var out []models.Song
	for _, song := range catalog {
		if strings.Contains(strings.ToLower(song.Title), q) {
			out = append(out, song)
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}
