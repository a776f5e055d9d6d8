// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tomtom215/songrec/internal/embed"
	"github.com/tomtom215/songrec/internal/logging"
	"github.com/tomtom215/songrec/internal/metrics"
	"github.com/tomtom215/songrec/internal/models"
	"github.com/tomtom215/songrec/internal/notice"
	"github.com/tomtom215/songrec/internal/recommend"
)

// ErrSuperseded is returned by Search when a newer query was started before
// this one finished. The view was not changed.
var ErrSuperseded = errors.New("superseded by a newer query")

// Recommender is the controller surface a session needs.
type Recommender interface {
	Recommend(ctx context.Context, title string) (*models.RecommendationSet, error)
	Suggestions(ctx context.Context, q string) []models.Song
	Status() recommend.Status
}

// Session is one interactive view: query box, suggestions, result cards and
// the two player panes.
type Session struct {
	mu        sync.Mutex
	pubMu     sync.Mutex
	state     State
	fence     recommend.Fence
	rec       Recommender
	board     *notice.Board
	listeners []func(State)
}

// NewSession creates an idle session that reports notices from board.
func NewSession(rec Recommender, board *notice.Board) *Session {
	return &Session{
		rec:   rec,
		board: board,
		state: State{ActivePane: PaneNone},
	}
}

// Subscribe registers fn to receive a snapshot after every change.
func (s *Session) Subscribe(fn func(State)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Snapshot returns the current view.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	st := s.state.clone()
	s.mu.Unlock()
	return s.decorate(st)
}

// Type updates the query text and the suggestion list.
func (s *Session) Type(ctx context.Context, q string) State {
	suggestions := s.rec.Suggestions(ctx, q)

	s.mu.Lock()
	s.state.Query = q
	s.state.Suggestions = suggestions
	st := s.state.clone()
	s.mu.Unlock()

	return s.publish(st)
}

// Select puts a suggested title in the query box and searches for it.
func (s *Session) Select(ctx context.Context, title string) (State, error) {
	s.mu.Lock()
	s.state.Query = title
	s.state.Suggestions = nil
	s.mu.Unlock()

	return s.Search(ctx, title)
}

// Search fetches recommendations for title. Only the latest search may change
// the view; an older one finishing late returns ErrSuperseded.
func (s *Session) Search(ctx context.Context, title string) (State, error) {
	if models.Normalize(title) == "" {
		err := models.NewValidationError("view.search", "Please enter a song name")
		s.board.Error(models.UserMessage(err))
		return s.Snapshot(), err
	}

	seq := s.fence.Next()
	ctx = logging.ContextWithQuerySeq(ctx, seq)

	s.mu.Lock()
	s.state.Query = title
	s.state.Suggestions = nil
	s.state.Loading = true
	s.state.ResultsVisible = false
	s.state.Seq = seq
	st := s.state.clone()
	s.mu.Unlock()
	s.publish(st)

	set, err := s.rec.Recommend(ctx, title)

	s.mu.Lock()
	if !s.fence.Current(seq) {
		s.mu.Unlock()
		metrics.StaleResponsesDiscarded.Inc()
		logging.Ctx(ctx).Debug().Uint64("latest_seq", s.fence.Latest()).Msg("Discarding superseded recommendation response")
		return s.Snapshot(), ErrSuperseded
	}

	s.state.Loading = false
	if err == nil {
		set.Seq = seq
		s.state.Heading = fmt.Sprintf("Songs similar to \"%s\"", set.Query)
		s.state.Results = set.Songs
		s.state.Source = set.Source
		s.state.ResultsVisible = true
	}
	st = s.state.clone()
	s.mu.Unlock()

	switch {
	case err == nil:
		s.board.Success(fmt.Sprintf("Found %d similar songs!", len(set.Songs)))
	case recommend.IsUserError(err):
		s.board.Error(models.UserMessage(err))
	default:
		logging.Ctx(ctx).Warn().Err(err).Msg("Recommendation aborted")
	}

	return s.publish(st), err
}

// PlayVideo resolves input and shows it in the video pane.
func (s *Session) PlayVideo(input string) (State, error) {
	v, err := embed.ResolveVideo(input)

	s.mu.Lock()
	s.state.VideoInput = input
	if err == nil {
		s.state.VideoURL = v.URL
		s.state.ActivePane = PaneVideo
	}
	st := s.state.clone()
	s.mu.Unlock()

	if err != nil {
		s.board.Error(models.UserMessage(err))
	}
	return s.publish(st), err
}

// PlayAudio resolves input and shows it in the audio pane. An unparsable
// input leaves the panes as they were.
func (s *Session) PlayAudio(input string) (State, error) {
	a, err := embed.ResolveAudio(input)

	s.mu.Lock()
	s.state.AudioInput = input
	if err == nil {
		s.state.AudioURL = a.URL
		s.state.ActivePane = PaneAudio
	}
	st := s.state.clone()
	s.mu.Unlock()

	if err != nil {
		s.board.Error(models.UserMessage(err))
	}
	return s.publish(st), err
}

// PlayCard searches the video pane for the result card at index.
func (s *Session) PlayCard(index int) (State, error) {
	song, err := s.card(index)
	if err != nil {
		return s.Snapshot(), err
	}
	return s.PlayVideo(embed.SongSearchPhrase(song.Title))
}

// SpotifyCard clears the audio input and tells the user how to play the
// result card at index on Spotify.
func (s *Session) SpotifyCard(index int) (State, error) {
	song, err := s.card(index)
	if err != nil {
		return s.Snapshot(), err
	}

	s.mu.Lock()
	s.state.AudioInput = ""
	st := s.state.clone()
	s.mu.Unlock()

	s.board.Info(fmt.Sprintf("To play on Spotify: paste the track URL/URI for \"%s\" into the box and click Play Spotify.", song.Title))
	return s.publish(st), nil
}

func (s *Session) card(index int) (models.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.ResultsVisible || index < 0 || index >= len(s.state.Results) {
		return models.Song{}, models.NewValidationError("view.card", fmt.Sprintf("No recommendation card at index %d", index))
	}
	return s.state.Results[index], nil
}

// decorate fills in the fields owned by other components.
func (s *Session) decorate(st State) State {
	st.TotalDisplay = s.rec.Status().TotalDisplay
	st.Notices = s.board.Active()
	return st
}

// publish returns st to the caller and pushes the current view to
// listeners. Pushes are serialized and each one is cloned under pubMu, so
// listeners never see an older search after a newer one.
func (s *Session) publish(st State) State {
	st = s.decorate(st)

	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	listeners := s.listeners
	cur := s.state.clone()
	s.mu.Unlock()

	if len(listeners) == 0 {
		return st
	}
	cur = s.decorate(cur)
	for _, fn := range listeners {
		fn(cur)
	}
	return st
}

// AvailabilityNotices returns an availability hook that raises the demo
// notice whenever the remote service becomes unavailable.
func AvailabilityNotices(board *notice.Board) func(prev, next recommend.Status) {
	return func(prev, next recommend.Status) {
		if recommend.EnteredDemoMode(prev, next) {
			board.Info(recommend.DemoNotice)
		}
	}
}
