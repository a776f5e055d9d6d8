// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tomtom215/songrec/internal/api"
	"github.com/tomtom215/songrec/internal/config"
	"github.com/tomtom215/songrec/internal/logging"
	"github.com/tomtom215/songrec/internal/middleware"
	"github.com/tomtom215/songrec/internal/notice"
	"github.com/tomtom215/songrec/internal/supervisor"
	"github.com/tomtom215/songrec/internal/supervisor/services"
	ws "github.com/tomtom215/songrec/internal/websocket"
)

func main() {
	// A missing .env file is normal outside development.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if envErr != nil {
		logging.Debug().Err(envErr).Msg("No .env file loaded")
	}

	logging.Info().Msg("Starting Songrec with supervisor tree")
	logging.Info().
		Str("recommender_url", cfg.Recommender.BaseURL).
		Str("addr", cfg.Server.Addr()).
		Bool("querylog_enabled", cfg.QueryLog.Enabled).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === CORE COMPONENTS ===

	store := initQueryLog(&cfg.QueryLog)
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing query log")
			}
		}()
	}

	backups := initBackups(&cfg.QueryLog, store)

	board := notice.NewBoard(cfg.Notices)
	defer board.Close()

	hub := ws.NewHub()

	bus, err := initEventBus(hub)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event bus")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	rc := initRecommend(cfg, store, board, bus)

	// Check once before serving so the first page load reflects reality.
	status := rc.Controller.Refresh(ctx)
	logging.Info().
		Bool("available", status.Available).
		Int("catalog_size", status.CatalogSize).
		Msg("Initial availability check complete")

	// === HTTP ===

	deps := api.Deps{
		Controller:     rc.Controller,
		Session:        rc.Session,
		Board:          board,
		Hub:            hub,
		Performance:    middleware.NewPerformanceMonitor(1000, middleware.DefaultSlowThreshold),
		AllowedOrigins: cfg.Server.CORSOrigins,
	}
	if store != nil {
		deps.QueryLog = store
	}
	if backups != nil {
		deps.Backups = backups
	}

	handler := api.NewHandler(deps)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(cfg.Server)))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Recommender layer
	tree.AddRecommenderService(services.NewRefreshService(rc.Controller, rc.Controller.RefreshInterval()))
	tree.AddRecommenderService(rc.Controller.Cache())
	logging.Info().Dur("interval", rc.Controller.RefreshInterval()).Msg("Availability refresher added to supervisor tree")
	if backups != nil {
		// Serve takes the startup backup before its first interval.
		tree.AddRecommenderService(backups)
		logging.Info().Dur("interval", cfg.QueryLog.BackupInterval).Msg("Query log backup scheduler added to supervisor tree")
	}

	// Messaging layer
	tree.AddMessagingService(hub)
	tree.AddMessagingService(bus)
	logging.Info().Msg("WebSocket hub and event bus added to supervisor tree")

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// The channel delivers exactly one result and is never closed.
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
