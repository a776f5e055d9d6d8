// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package view

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/songrec/internal/config"
	"github.com/tomtom215/songrec/internal/models"
	"github.com/tomtom215/songrec/internal/notice"
	"github.com/tomtom215/songrec/internal/recommend"
)

// downRemote always fails the check, so the controller serves the fallback catalog.
type downRemote struct{}

func (downRemote) DatasetInfo(context.Context) (*models.DatasetInfo, error) {
	return nil, models.NewNetworkError("dataset_info", errors.New("connection refused"))
}

func (downRemote) Songs(context.Context) ([]models.Song, error) {
	return nil, errors.New("unreachable")
}

func (downRemote) Recommend(context.Context, string, int) ([]models.Song, error) {
	return nil, errors.New("unreachable")
}

func newBoard(t *testing.T) *notice.Board {
	t.Helper()
	b := notice.NewBoard(config.NoticesConfig{ErrorTTL: time.Hour, SuccessTTL: time.Hour, InfoTTL: time.Hour, MaxActive: 20})
	t.Cleanup(b.Close)
	return b
}

func newTestSession(t *testing.T) (*Session, *notice.Board) {
	t.Helper()
	board := newBoard(t)
	ctrl := recommend.New(downRemote{}, recommend.Config{NumRecommendations: 5, RefreshInterval: time.Hour},
		recommend.WithRand(rand.New(rand.NewSource(1))),
		recommend.WithAvailabilityHook(AvailabilityNotices(board)))
	ctrl.Refresh(context.Background())
	return NewSession(ctrl, board), board
}

func noticeTexts(ns []notice.Notice) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Text
	}
	return out
}

func TestSession_DemoNoticeAndTotal(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)
	st := s.Snapshot()
	assert.Equal(t, recommend.DemoTotalDisplay, st.TotalDisplay)
	assert.Contains(t, noticeTexts(st.Notices), recommend.DemoNotice)
	assert.Equal(t, PaneNone, st.ActivePane)
}

func TestSession_TypeShowsSuggestions(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)
	st := s.Type(context.Background(), "lag")
	assert.Equal(t, "lag", st.Query)
	require.Len(t, st.Suggestions, 1)
	assert.Equal(t, "Lag Jaa Gale", st.Suggestions[0].Title)

	st = s.Type(context.Background(), "l")
	assert.Empty(t, st.Suggestions)
}

func TestSession_SearchCurated(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)
	s.Type(context.Background(), "ek")

	st, err := s.Search(context.Background(), "Ek Ajnabee Haseena Se")
	require.NoError(t, err)
	assert.False(t, st.Loading)
	assert.True(t, st.ResultsVisible)
	assert.Empty(t, st.Suggestions)
	assert.Equal(t, `Songs similar to "Ek Ajnabee Haseena Se"`, st.Heading)
	assert.Len(t, st.Results, 5)
	assert.Equal(t, models.SourceCurated, st.Source)
	assert.Contains(t, noticeTexts(st.Notices), "Found 5 similar songs!")
}

func TestSession_SearchErrorsBecomeNotices(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)

	_, err := s.Search(context.Background(), "  ")
	assert.True(t, errors.Is(err, models.ErrValidation))

	st, err := s.Search(context.Background(), "Unknown Melody")
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.False(t, st.Loading)
	assert.False(t, st.ResultsVisible)

	texts := noticeTexts(st.Notices)
	assert.Contains(t, texts, "Please enter a song name")
	assert.Contains(t, texts, `Song "Unknown Melody" not found in dataset. Try: "Ek Ajnabee Haseena Se" or "Chura Liya Hai Tumne Jo Dil Ko"`)
}

// gatedRecommender blocks each Recommend call until its gate is released.
type gatedRecommender struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func (g *gatedRecommender) gate(title string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gates == nil {
		g.gates = make(map[string]chan struct{})
	}
	ch, ok := g.gates[title]
	if !ok {
		ch = make(chan struct{})
		g.gates[title] = ch
	}
	return ch
}

func (g *gatedRecommender) Recommend(ctx context.Context, title string) (*models.RecommendationSet, error) {
	<-g.gate(title)
	return &models.RecommendationSet{
		Query:  title,
		Songs:  []models.Song{{Title: title + " (similar)", Artist: "Test", ReleaseYear: "2000"}},
		Source: models.SourceRemote,
	}, nil
}

func (g *gatedRecommender) Suggestions(context.Context, string) []models.Song { return nil }

func (g *gatedRecommender) Status() recommend.Status {
	return recommend.Status{Available: true, TotalDisplay: "42"}
}

func TestSession_StaleResponseDiscarded(t *testing.T) {
	t.Parallel()

	rec := &gatedRecommender{}
	s := NewSession(rec, newBoard(t))

	type result struct {
		st  State
		err error
	}
	older := make(chan result, 1)
	go func() {
		st, err := s.Search(context.Background(), "first")
		older <- result{st, err}
	}()

	// Wait until the first search is in flight.
	require.Eventually(t, func() bool { return s.Snapshot().Seq == 1 }, time.Second, time.Millisecond)

	newer := make(chan result, 1)
	go func() {
		st, err := s.Search(context.Background(), "second")
		newer <- result{st, err}
	}()
	require.Eventually(t, func() bool { return s.Snapshot().Seq == 2 }, time.Second, time.Millisecond)

	close(rec.gate("second"))
	r := <-newer
	require.NoError(t, r.err)
	assert.Equal(t, "second (similar)", r.st.Results[0].Title)

	close(rec.gate("first"))
	r = <-older
	assert.ErrorIs(t, r.err, ErrSuperseded)

	st := s.Snapshot()
	assert.Equal(t, `Songs similar to "second"`, st.Heading)
	assert.Equal(t, "second (similar)", st.Results[0].Title)
	assert.Equal(t, uint64(2), st.Seq)
	assert.Equal(t, "42", st.TotalDisplay)
}

func TestSession_LoadingStaysWhileNewerInFlight(t *testing.T) {
	t.Parallel()

	rec := &gatedRecommender{}
	s := NewSession(rec, newBoard(t))

	done := make(chan struct{})
	go func() {
		_, _ = s.Search(context.Background(), "first")
		close(done)
	}()
	require.Eventually(t, func() bool { return s.Snapshot().Seq == 1 }, time.Second, time.Millisecond)

	go func() { _, _ = s.Search(context.Background(), "second") }()
	require.Eventually(t, func() bool { return s.Snapshot().Seq == 2 }, time.Second, time.Millisecond)

	close(rec.gate("first"))
	<-done
	assert.True(t, s.Snapshot().Loading, "stale completion must not clear loading")

	close(rec.gate("second"))
	require.Eventually(t, func() bool { return !s.Snapshot().Loading }, time.Second, time.Millisecond)
}

func TestSession_HeadingKeepsRawQuotes(t *testing.T) {
	t.Parallel()

	rec := &gatedRecommender{}
	close(rec.gate(`it's "x"`))
	s := NewSession(rec, newBoard(t))

	st, err := s.Search(context.Background(), `it's "x"`)
	require.NoError(t, err)
	assert.Equal(t, `Songs similar to "it's "x""`, st.Heading)
}

// hookedRecommender runs onStatus on the first Status call after a
// Recommend returns.
type hookedRecommender struct {
	*gatedRecommender
	armed    atomic.Bool
	onStatus func()
}

func (h *hookedRecommender) Recommend(ctx context.Context, title string) (*models.RecommendationSet, error) {
	set, err := h.gatedRecommender.Recommend(ctx, title)
	h.armed.Store(true)
	return set, err
}

func (h *hookedRecommender) Status() recommend.Status {
	if h.armed.CompareAndSwap(true, false) {
		h.onStatus()
	}
	return h.gatedRecommender.Status()
}

func TestSession_PushesNeverRegress(t *testing.T) {
	t.Parallel()

	blocked := make(chan struct{})
	resume := make(chan struct{})
	var once sync.Once
	rec := &hookedRecommender{
		gatedRecommender: &gatedRecommender{},
		onStatus: func() {
			once.Do(func() {
				close(blocked)
				<-resume
			})
		},
	}
	close(rec.gate("first"))
	s := NewSession(rec, newBoard(t))

	var mu sync.Mutex
	var pushed []State
	s.Subscribe(func(st State) {
		mu.Lock()
		pushed = append(pushed, st)
		mu.Unlock()
	})
	last := func() (State, bool) {
		mu.Lock()
		defer mu.Unlock()
		if len(pushed) == 0 {
			return State{}, false
		}
		return pushed[len(pushed)-1], true
	}

	firstDone := make(chan error, 1)
	go func() {
		_, err := s.Search(context.Background(), "first")
		firstDone <- err
	}()

	// The first search has its result and is about to push it.
	<-blocked
	go func() { _, _ = s.Search(context.Background(), "second") }()
	require.Eventually(t, func() bool { return s.Snapshot().Seq == 2 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	close(resume)
	require.NoError(t, <-firstDone)

	require.Eventually(t, func() bool {
		st, ok := last()
		return ok && st.Seq == 2
	}, time.Second, time.Millisecond)
	st, _ := last()
	assert.True(t, st.Loading, "last push must be the newer search's loading state")
	assert.False(t, st.ResultsVisible)

	mu.Lock()
	for i := 1; i < len(pushed); i++ {
		assert.GreaterOrEqual(t, pushed[i].Seq, pushed[i-1].Seq, "push %d went back in sequence", i)
	}
	mu.Unlock()

	close(rec.gate("second"))
	require.Eventually(t, func() bool { return !s.Snapshot().Loading }, time.Second, time.Millisecond)
}

func TestSession_Panes(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)

	st, err := s.PlayVideo("https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, PaneVideo, st.ActivePane)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1", st.VideoURL)

	st, err = s.PlayAudio("spotify:track:11dFghVXANMlKmJXsNCbNl")
	require.NoError(t, err)
	assert.Equal(t, PaneAudio, st.ActivePane)
	assert.Equal(t, "https://open.spotify.com/embed/track/11dFghVXANMlKmJXsNCbNl", st.AudioURL)

	// Garbage leaves the active pane unchanged.
	st, err = s.PlayAudio("garbage")
	require.Error(t, err)
	assert.Equal(t, PaneAudio, st.ActivePane)
	assert.Equal(t, "https://open.spotify.com/embed/track/11dFghVXANMlKmJXsNCbNl", st.AudioURL)

	_, err = s.PlayVideo("")
	require.Error(t, err)
	assert.Equal(t, PaneAudio, s.Snapshot().ActivePane)
}

func TestSession_CardActions(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)

	_, err := s.PlayCard(0)
	assert.True(t, errors.Is(err, models.ErrValidation), "no results yet")

	_, err = s.Search(context.Background(), "Chura Liya Hai Tumne Jo Dil Ko")
	require.NoError(t, err)

	st, err := s.PlayCard(0)
	require.NoError(t, err)
	assert.Equal(t, PaneVideo, st.ActivePane)
	assert.Equal(t, "Tum Aa Gaye Ho Noor Aa Gaya Hindi song", st.VideoInput)
	assert.Equal(t, "https://www.youtube.com/embed?listType=search&list=Tum%20Aa%20Gaye%20Ho%20Noor%20Aa%20Gaya%20Hindi%20song&autoplay=1", st.VideoURL)

	s.mu.Lock()
	s.state.AudioInput = "half typed"
	s.mu.Unlock()

	st, err = s.SpotifyCard(1)
	require.NoError(t, err)
	assert.Empty(t, st.AudioInput)
	assert.Contains(t, noticeTexts(st.Notices), `To play on Spotify: paste the track URL/URI for "Aap Ki Ankhon Mein Kuch" into the box and click Play Spotify.`)

	_, err = s.SpotifyCard(9)
	assert.Error(t, err)
}

func TestSession_SubscribeReceivesSnapshots(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)
	var mu sync.Mutex
	var got []State
	s.Subscribe(func(st State) {
		mu.Lock()
		got = append(got, st)
		mu.Unlock()
	})

	s.Type(context.Background(), "rim")
	_, _ = s.PlayVideo("test song")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	assert.Equal(t, "rim", got[0].Query)
	assert.Equal(t, PaneVideo, got[1].ActivePane)
}
