// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package recommend

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/songrec/internal/cache"
	"github.com/tomtom215/songrec/internal/config"
	"github.com/tomtom215/songrec/internal/logging"
	"github.com/tomtom215/songrec/internal/metrics"
	"github.com/tomtom215/songrec/internal/models"
)

// Remote is the recommender service as seen by the controller.
// *backend.CircuitBreakerClient implements it.
type Remote interface {
	DatasetInfo(ctx context.Context) (*models.DatasetInfo, error)
	Songs(ctx context.Context) ([]models.Song, error)
	Recommend(ctx context.Context, title string, count int) ([]models.Song, error)
}

// QueryRecorder persists controller queries.
type QueryRecorder interface {
	Record(ctx context.Context, rec models.QueryRecord) error
}

// Config holds controller timing and sizing.
type Config struct {
	CheckTimeout       time.Duration
	ArtificialDelay    time.Duration
	RefreshInterval    time.Duration
	NumRecommendations int
	CacheTTL           time.Duration
}

// ConfigFrom extracts controller settings from the recommender config.
func ConfigFrom(rc *config.RecommenderConfig) Config {
	return Config{
		CheckTimeout:       rc.CheckTimeout,
		ArtificialDelay:    rc.ArtificialDelay,
		RefreshInterval:    rc.RefreshInterval,
		NumRecommendations: rc.NumRecommendations,
		CacheTTL:           rc.CacheTTL,
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithRand sets the random source for the heuristic shuffle.
func WithRand(rng Shuffler) Option {
	return func(c *Controller) {
		c.heuristic = NewHeuristic(rng)
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithAvailabilityHook registers fn to run after every check.
func WithAvailabilityHook(fn func(prev, next Status)) Option {
	return func(c *Controller) {
		c.hooks = append(c.hooks, fn)
	}
}

// WithQueryRecorder sets where queries are logged.
func WithQueryRecorder(r QueryRecorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// Controller answers suggestion and recommendation queries, preferring the
// remote service and falling back to the local heuristic.
type Controller struct {
	remote    Remote
	cfg       Config
	avail     *Availability
	heuristic *Heuristic
	cache     *cache.TTL[[]models.Song]
	recorder  QueryRecorder
	hooks     []func(prev, next Status)
	now       func() time.Time

	refreshMu sync.Mutex
}

// New creates a controller. It does not check; call Refresh.
func New(remote Remote, cfg Config, opts ...Option) *Controller {
	if cfg.NumRecommendations <= 0 {
		cfg.NumRecommendations = MaxSuggestions
	}
	c := &Controller{
		remote: remote,
		cfg:    cfg,
		avail:  NewAvailability(),
		cache:  cache.New[[]models.Song](cfg.CacheTTL),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.heuristic == nil {
		c.heuristic = NewHeuristic(nil)
	}
	return c
}

// Cache exposes the recommendation cache so its janitor can be supervised.
func (c *Controller) Cache() *cache.TTL[[]models.Song] {
	return c.cache
}

// RefreshInterval returns the configured re-check period.
func (c *Controller) RefreshInterval() time.Duration {
	return c.cfg.RefreshInterval
}

// Status returns the availability snapshot.
func (c *Controller) Status() Status {
	return c.avail.Snapshot()
}

// Catalog returns the active catalog. Callers must not modify it.
func (c *Controller) Catalog() []models.Song {
	return c.avail.Catalog()
}

// Refresh checks the remote service and swaps in the resulting catalog.
// Concurrent calls are serialised.
func (c *Controller) Refresh(ctx context.Context) Status {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	log := logging.Ctx(ctx).With().Str("component", "recommend").Logger()

	checkCtx := ctx
	if c.cfg.CheckTimeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, c.cfg.CheckTimeout)
		defer cancel()
	}

	var prev, next Status
	info, err := c.remote.DatasetInfo(checkCtx)
	var songs []models.Song
	if err == nil {
		songs, err = c.remote.Songs(checkCtx)
	}
	if err != nil {
		prev, next = c.avail.markUnavailable(c.now(), err)
	} else {
		prev, next = c.avail.markAvailable(c.now(), info, songs)
	}

	metrics.RecordCheck(next.Available, next.CatalogSize)

	switch {
	case next.Available && !prev.Available:
		log.Info().
			Int("total_songs", next.TotalSongs).
			Int("catalog_size", next.CatalogSize).
			Str("catalog_source", string(next.CatalogSource)).
			Msg("Remote recommender available")
	case EnteredDemoMode(prev, next):
		log.Warn().Err(err).Msg("Remote recommender unavailable, serving fallback catalog")
	case !next.Available:
		log.Debug().Err(err).Msg("Remote recommender still unavailable")
	}

	for _, hook := range c.hooks {
		hook(prev, next)
	}
	return next
}

// Suggestions returns catalog entries whose title contains q.
func (c *Controller) Suggestions(ctx context.Context, q string) []models.Song {
	metrics.SuggestionsTotal.Inc()
	out := Suggest(c.avail.Catalog(), q)
	if len([]rune(models.Normalize(q))) >= MinSuggestionQuery {
		c.record(ctx, models.QueryRecord{
			Query:      strings.TrimSpace(q),
			Type:       models.QueryTypeSuggestion,
			NumResults: len(out),
			Success:    true,
			Source:     string(c.avail.Snapshot().CatalogSource),
		})
	}
	return out
}

// Recommend returns songs similar to title. Remote failures are downgraded to
// the heuristic; only validation, not-found and context errors are returned.
func (c *Controller) Recommend(ctx context.Context, title string) (*models.RecommendationSet, error) {
	start := c.now()
	log := logging.Ctx(ctx).With().Str("component", "recommend").Str("query", strings.TrimSpace(title)).Logger()

	q := models.Normalize(title)
	if q == "" {
		err := models.NewValidationError("recommend", "Please enter a song name")
		c.finish(ctx, title, nil, err, start)
		return nil, err
	}

	if c.avail.Stale(c.now(), c.cfg.RefreshInterval) {
		c.Refresh(ctx)
	}

	if err := sleepContext(ctx, c.cfg.ArtificialDelay); err != nil {
		return nil, err
	}

	if c.avail.Snapshot().Available {
		set, err := c.fetchRemote(ctx, strings.TrimSpace(title))
		if err == nil {
			c.finish(ctx, title, set, nil, start)
			return set, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		kind := models.KindOf(err).String()
		metrics.RemoteFallbacks.WithLabelValues(kind).Inc()
		log.Warn().Err(err).Str("kind", kind).Msg("Remote recommendation failed, using local heuristic")
	} else {
		metrics.RemoteFallbacks.WithLabelValues("unavailable").Inc()
	}

	set, err := c.heuristic.Recommend(c.avail.Catalog(), title, c.cfg.NumRecommendations)
	c.finish(ctx, title, set, err, start)
	return set, err
}

// fetchRemote asks the service for title, cached by the exact trimmed title.
// The service matches titles case-sensitively, so case variants are distinct keys.
func (c *Controller) fetchRemote(ctx context.Context, title string) (*models.RecommendationSet, error) {
	if songs, ok := c.cache.Get(title); ok {
		metrics.CacheHits.Inc()
		return &models.RecommendationSet{Query: title, Songs: cloneSongs(songs), Source: models.SourceCache}, nil
	}
	metrics.CacheMisses.Inc()

	songs, err := c.remote.Recommend(ctx, title, c.cfg.NumRecommendations)
	if err != nil {
		return nil, err
	}
	if songs == nil {
		songs = []models.Song{}
	}
	c.cache.Set(title, cloneSongs(songs))
	return &models.RecommendationSet{Query: title, Songs: songs, Source: models.SourceRemote}, nil
}

// finish records metrics and the query log entry for one Recommend call.
func (c *Controller) finish(ctx context.Context, title string, set *models.RecommendationSet, err error, start time.Time) {
	rec := models.QueryRecord{
		Query: strings.TrimSpace(title),
		Type:  models.QueryTypeRecommendation,
	}
	if err != nil {
		rec.Source = models.KindOf(err).String()
	} else {
		rec.Success = true
		rec.Source = string(set.Source)
		rec.NumResults = len(set.Songs)
	}
	metrics.RecordRecommendation(rec.Source, c.now().Sub(start))
	c.record(ctx, rec)
}

func (c *Controller) record(ctx context.Context, rec models.QueryRecord) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(ctx, rec); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("query", rec.Query).Msg("Query log write failed")
	}
}

// sleepContext waits d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsUserError reports whether err is meant to be shown to the user rather
// than logged as a failure.
func IsUserError(err error) bool {
	return errors.Is(err, models.ErrValidation) || errors.Is(err, models.ErrNotFound)
}
