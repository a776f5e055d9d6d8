// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package recommend

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agext/levenshtein"

	"github.com/tomtom215/songrec/internal/models"
)

const (
	// maxDidYouMean caps the hints attached to a not-found error.
	maxDidYouMean = 3

	// minHintSimilarity is the lowest Levenshtein similarity accepted as a hint.
	minHintSimilarity = 0.5
)

// Shuffler permutes n elements through swap. *math/rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Heuristic produces recommendations without the remote service.
type Heuristic struct {
	mu  sync.Mutex // guards rng; *rand.Rand is not safe for concurrent use
	rng Shuffler
}

// NewHeuristic creates a heuristic using rng for the shuffle step. A nil rng
// is replaced by a clock-seeded source.
func NewHeuristic(rng Shuffler) *Heuristic {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // shuffle order, not security
	}
	return &Heuristic{rng: rng}
}

// Recommend answers title against catalog:
//  1. the title must match a catalog title in either substring direction,
//  2. the curated table is consulted in order,
//  3. otherwise count shuffled entries of the fallback catalog are returned.
//
// An empty catalog is treated as the fallback catalog.
func (h *Heuristic) Recommend(catalog []models.Song, title string, count int) (*models.RecommendationSet, error) {
	const op = "heuristic.recommend"

	q := models.Normalize(title)
	if q == "" {
		return nil, models.NewValidationError(op, "Please enter a song name")
	}
	if len(catalog) == 0 {
		catalog = fallbackCatalog
	}
	if count <= 0 {
		count = MaxSuggestions
	}

	if !inCatalog(catalog, q) {
		examples := ExampleTitles()
		msg := fmt.Sprintf("Song \"%s\" not found in dataset. Try: \"%s\" or \"%s\"", strings.TrimSpace(title), examples[0], examples[1])
		return nil, models.NewNotFoundError(op, msg, didYouMean(catalog, q))
	}

	for _, entry := range curatedTable {
		key := strings.ToLower(entry.key)
		if strings.Contains(q, key) || strings.Contains(key, q) {
			return &models.RecommendationSet{
				Query:  strings.TrimSpace(title),
				Songs:  firstN(cloneSongs(entry.songs), count),
				Source: models.SourceCurated,
			}, nil
		}
	}

	return &models.RecommendationSet{
		Query:  strings.TrimSpace(title),
		Songs:  firstN(h.shuffled(), count),
		Source: models.SourceShuffle,
	}, nil
}

// shuffled returns a permuted copy of the fallback catalog.
func (h *Heuristic) shuffled() []models.Song {
	songs := cloneSongs(fallbackCatalog)
	h.mu.Lock()
	h.rng.Shuffle(len(songs), func(i, j int) { songs[i], songs[j] = songs[j], songs[i] })
	h.mu.Unlock()
	return songs
}

func inCatalog(catalog []models.Song, q string) bool {
	for _, song := range catalog {
		t := song.NormalizedTitle()
		if t == "" {
			continue
		}
		if strings.Contains(t, q) || strings.Contains(q, t) {
			return true
		}
	}
	return false
}

// didYouMean ranks catalog titles by similarity to q.
func didYouMean(catalog []models.Song, q string) []string {
	type hint struct {
		title string
		score float64
	}

	seen := make(map[string]struct{}, len(catalog))
	var hints []hint
	for _, song := range catalog {
		t := song.NormalizedTitle()
		if _, dup := seen[t]; dup || t == "" {
			continue
		}
		seen[t] = struct{}{}
		if score := levenshtein.Similarity(q, t, nil); score >= minHintSimilarity {
			hints = append(hints, hint{title: song.Title, score: score})
		}
	}

	sort.SliceStable(hints, func(i, j int) bool { return hints[i].score > hints[j].score })
	if len(hints) > maxDidYouMean {
		hints = hints[:maxDidYouMean]
	}

	out := make([]string, len(hints))
	for i, h := range hints {
		out[i] = h.title
	}
	return out
}

func firstN(songs []models.Song, n int) []models.Song {
	if len(songs) > n {
		return songs[:n]
	}
	return songs
}
