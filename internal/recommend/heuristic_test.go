// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package recommend

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/songrec/internal/models"
)

func titles(songs []models.Song) []string {
	out := make([]string, len(songs))
	for i, s := range songs {
		out[i] = s.Title
	}
	return out
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	catalog := FallbackCatalog()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty", "", nil},
		{"single char", "a", nil},
		{"single char padded", "  a  ", nil},
		{"case insensitive", "LAG", []string{"Lag Jaa Gale"}},
		{"catalog order", "dil", []string{"Chura Liya Hai Tumne Jo Dil Ko", "Kabhi Kabhie Mere Dil Mein", "Dil Deewana Bin Sajna Ke"}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Suggest(catalog, tt.query)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestSuggest_CapsAtFive(t *testing.T) {
	t.Parallel()

	got := Suggest(FallbackCatalog(), "in")
	assert.Len(t, got, MaxSuggestions)
	assert.Equal(t, "Bheegi Bheegi Raaton Mein", got[0].Title)
}

func TestHeuristic_EmptyTitle(t *testing.T) {
	t.Parallel()

	_, err := NewHeuristic(nil).Recommend(FallbackCatalog(), "   ", 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestHeuristic_NotFound(t *testing.T) {
	t.Parallel()

	_, err := NewHeuristic(nil).Recommend(FallbackCatalog(), "Lag Ja Galey", 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	var e *models.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, `Song "Lag Ja Galey" not found in dataset. Try: "Ek Ajnabee Haseena Se" or "Chura Liya Hai Tumne Jo Dil Ko"`, e.Message)
	require.NotEmpty(t, e.Suggestions)
	assert.Equal(t, "Lag Jaa Gale", e.Suggestions[0])
	assert.LessOrEqual(t, len(e.Suggestions), maxDidYouMean)
}

func TestHeuristic_NotFoundKeepsRawQuotes(t *testing.T) {
	t.Parallel()

	_, err := NewHeuristic(nil).Recommend(FallbackCatalog(), `it's "x"`, 5)
	var e *models.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, `Song "it's "x"" not found in dataset. Try: "Ek Ajnabee Haseena Se" or "Chura Liya Hai Tumne Jo Dil Ko"`, e.Message)
}

func TestHeuristic_MatchesEitherDirection(t *testing.T) {
	t.Parallel()

	h := NewHeuristic(rand.New(rand.NewSource(1)))

	// query contained in a catalog title
	set, err := h.Recommend(FallbackCatalog(), "lag jaa", 5)
	require.NoError(t, err)
	assert.Equal(t, models.SourceShuffle, set.Source)

	// catalog title contained in the query
	set, err = h.Recommend(FallbackCatalog(), "play Lag Jaa Gale please", 5)
	require.NoError(t, err)
	assert.Equal(t, models.SourceShuffle, set.Source)
}

func TestHeuristic_CuratedTable(t *testing.T) {
	t.Parallel()

	h := NewHeuristic(nil)

	set, err := h.Recommend(FallbackCatalog(), "Ek Ajnabee Haseena Se", 5)
	require.NoError(t, err)
	assert.Equal(t, models.SourceCurated, set.Source)
	assert.Equal(t, []string{
		"Pyar Deewana Hota Hai",
		"Hamen Tumse Pyar Kitna",
		"Bheegi Bheegi Raaton Mein",
		"Main Pal Do Pal Ka Shayar Hoon",
		"Ye Jo Vaada Kiya",
	}, titles(set.Songs))

	set, err = h.Recommend(FallbackCatalog(), "  chura liya  ", 5)
	require.NoError(t, err)
	assert.Equal(t, models.SourceCurated, set.Source)
	assert.Equal(t, "Tum Aa Gaye Ho Noor Aa Gaya", set.Songs[0].Title)
	assert.Equal(t, "chura liya", set.Query)
}

func TestHeuristic_CuratedListIsACopy(t *testing.T) {
	t.Parallel()

	h := NewHeuristic(nil)
	set, err := h.Recommend(FallbackCatalog(), "Ek Ajnabee Haseena Se", 5)
	require.NoError(t, err)
	set.Songs[0].Title = "mutated"

	again, err := h.Recommend(FallbackCatalog(), "Ek Ajnabee Haseena Se", 5)
	require.NoError(t, err)
	assert.Equal(t, "Pyar Deewana Hota Hai", again.Songs[0].Title)
}

func TestHeuristic_ShuffleFixedSeed(t *testing.T) {
	t.Parallel()

	first, err := NewHeuristic(rand.New(rand.NewSource(42))).Recommend(FallbackCatalog(), "Lag Jaa Gale", 5)
	require.NoError(t, err)
	second, err := NewHeuristic(rand.New(rand.NewSource(42))).Recommend(FallbackCatalog(), "Lag Jaa Gale", 5)
	require.NoError(t, err)

	assert.Equal(t, models.SourceShuffle, first.Source)
	assert.Len(t, first.Songs, 5)
	assert.Equal(t, first.Songs, second.Songs, "same seed must give the same order")

	seen := make(map[string]bool)
	fallback := make(map[string]bool)
	for _, s := range FallbackCatalog() {
		fallback[s.Title] = true
	}
	for _, s := range first.Songs {
		assert.False(t, seen[s.Title], "duplicate %q", s.Title)
		assert.True(t, fallback[s.Title], "%q not in fallback catalog", s.Title)
		seen[s.Title] = true
	}
}

func TestHeuristic_ShuffleUsesFallbackCatalog(t *testing.T) {
	t.Parallel()

	remote := []models.Song{{Title: "Remote Only Song", Artist: "Someone", ReleaseYear: "2001"}}
	set, err := NewHeuristic(rand.New(rand.NewSource(7))).Recommend(remote, "Remote Only Song", 5)
	require.NoError(t, err)
	assert.Len(t, set.Songs, 5)
	assert.NotContains(t, titles(set.Songs), "Remote Only Song")
}

func TestHeuristic_EmptyCatalogUsesFallback(t *testing.T) {
	t.Parallel()

	set, err := NewHeuristic(nil).Recommend(nil, "Rim Jhim", 5)
	require.NoError(t, err)
	assert.Len(t, set.Songs, 5)
}

func TestHeuristic_CountLimits(t *testing.T) {
	t.Parallel()

	set, err := NewHeuristic(nil).Recommend(FallbackCatalog(), "Ek Ajnabee Haseena Se", 3)
	require.NoError(t, err)
	assert.Len(t, set.Songs, 3)
}
