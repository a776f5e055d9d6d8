// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package main

import (
	"github.com/tomtom215/songrec/internal/backend"
	"github.com/tomtom215/songrec/internal/backup"
	"github.com/tomtom215/songrec/internal/config"
	"github.com/tomtom215/songrec/internal/eventprocessor"
	"github.com/tomtom215/songrec/internal/logging"
	"github.com/tomtom215/songrec/internal/notice"
	"github.com/tomtom215/songrec/internal/querylog"
	"github.com/tomtom215/songrec/internal/recommend"
	"github.com/tomtom215/songrec/internal/view"
	ws "github.com/tomtom215/songrec/internal/websocket"
)

// RecommendComponents holds the controller and everything that observes it.
type RecommendComponents struct {
	Controller *recommend.Controller
	Session    *view.Session
}

// initQueryLog opens the query log when enabled. A store that fails to open
// is logged and skipped; the controller runs without it.
func initQueryLog(cfg *config.QueryLogConfig) *querylog.Store {
	if !cfg.Enabled {
		logging.Info().Msg("Query log disabled (QUERYLOG_ENABLED=false)")
		return nil
	}
	var opts []querylog.Option
	if cfg.WAL {
		opts = append(opts, querylog.WithWAL(cfg.Synchronous))
	}
	store, err := querylog.Open(cfg.Path, opts...)
	if err != nil {
		logging.Error().Err(err).Str("path", cfg.Path).Msg("Failed to open query log, continuing without it")
		return nil
	}
	logging.Info().Str("path", cfg.Path).Bool("wal", cfg.WAL).Msg("Query log opened")
	return store
}

// initBackups builds the query log backup manager. It returns nil when
// backups are disabled or there is no store to back up.
func initBackups(cfg *config.QueryLogConfig, store *querylog.Store) *backup.Manager {
	if store == nil {
		return nil
	}
	if !cfg.BackupEnabled {
		logging.Info().Msg("Query log backups disabled (BACKUP_ENABLED=false)")
		return nil
	}

	bcfg := backup.DefaultConfig(cfg.BackupDir)
	bcfg.Interval = cfg.BackupInterval
	bcfg.PreferredHour = cfg.BackupPreferredHour
	bcfg.RetryDelay = cfg.BackupRetryDelay
	bcfg.Retention = backup.RetentionPolicy{
		KeepCount: cfg.BackupKeepCount,
		MaxAge:    cfg.BackupMaxAge,
	}

	mgr, err := backup.NewManager(bcfg, store)
	if err != nil {
		logging.Error().Err(err).Msg("Invalid backup configuration, continuing without backups")
		return nil
	}
	return mgr
}

// initRecommend builds the controller and the view session, and publishes
// availability, view and notice changes on the event bus.
func initRecommend(cfg *config.Config, store *querylog.Store, board *notice.Board, bus *eventprocessor.Bus) *RecommendComponents {
	remote := backend.NewCircuitBreakerClient(&cfg.Recommender)

	publishAvailability := bus.PublishFunc(eventprocessor.TopicAvailability, ws.MessageTypeAvailability)
	publishView := bus.PublishFunc(eventprocessor.TopicViewState, ws.MessageTypeViewState)
	publishNotice := bus.PublishFunc(eventprocessor.TopicNotices, ws.MessageTypeNotice)

	opts := []recommend.Option{
		recommend.WithAvailabilityHook(view.AvailabilityNotices(board)),
		recommend.WithAvailabilityHook(func(_, next recommend.Status) {
			publishAvailability(next)
		}),
	}
	// A typed nil *Store must not reach the interface.
	if store != nil {
		opts = append(opts, recommend.WithQueryRecorder(store))
	}

	ctrl := recommend.New(remote, recommend.ConfigFrom(&cfg.Recommender), opts...)

	session := view.NewSession(ctrl, board)
	session.Subscribe(func(st view.State) {
		publishView(st)
	})
	board.Subscribe(func(ev notice.Event) {
		publishNotice(ev)
	})

	logging.Info().
		Str("base_url", remote.BaseURL()).
		Dur("check_timeout", cfg.Recommender.CheckTimeout).
		Dur("refresh_interval", cfg.Recommender.RefreshInterval).
		Int("num_recommendations", cfg.Recommender.NumRecommendations).
		Msg("Recommendation controller initialized")

	return &RecommendComponents{Controller: ctrl, Session: session}
}

// initEventBus creates the event bus and routes its topics to the hub.
func initEventBus(hub *ws.Hub) (*eventprocessor.Bus, error) {
	bus, err := eventprocessor.NewBus(eventprocessor.DefaultConfig())
	if err != nil {
		return nil, err
	}
	handler, err := eventprocessor.NewWebSocketHandler(hub)
	if err != nil {
		return nil, err
	}
	handler.Subscribe(bus)
	return bus, nil
}
