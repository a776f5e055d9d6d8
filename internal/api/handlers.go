// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package api

import (
	"context"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/songrec/internal/backup"
	"github.com/tomtom215/songrec/internal/middleware"
	"github.com/tomtom215/songrec/internal/models"
	"github.com/tomtom215/songrec/internal/notice"
	"github.com/tomtom215/songrec/internal/recommend"
	"github.com/tomtom215/songrec/internal/view"
	ws "github.com/tomtom215/songrec/internal/websocket"
)

// Controller is the recommendation surface the handlers use.
// *recommend.Controller implements it.
type Controller interface {
	Status() recommend.Status
	Refresh(ctx context.Context) recommend.Status
	Catalog() []models.Song
	Suggestions(ctx context.Context, q string) []models.Song
	Recommend(ctx context.Context, title string) (*models.RecommendationSet, error)
}

// QueryLog is the read side of the query log. *querylog.Store implements it.
type QueryLog interface {
	List(ctx context.Context, limit int) ([]models.QueryLogEntry, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// Backups lists and triggers query log backups. *backup.Manager implements it.
type Backups interface {
	List() ([]backup.Backup, error)
	BackupNow(ctx context.Context) (*backup.Backup, error)
}

// Deps are the components served by the handlers. QueryLog, Backups and Hub
// may be nil.
type Deps struct {
	Controller     Controller
	Session        *view.Session
	Board          *notice.Board
	QueryLog       QueryLog
	Backups        Backups
	Hub            *ws.Hub
	Performance    *middleware.PerformanceMonitor
	AllowedOrigins []string
}

// Handler holds the HTTP handlers.
type Handler struct {
	ctrl      Controller
	session   *view.Session
	board     *notice.Board
	queryLog  QueryLog
	backups   Backups
	hub       *ws.Hub
	upgrader  *gorillaws.Upgrader
	perf      *middleware.PerformanceMonitor
	startTime time.Time
}

// NewHandler creates the handlers for deps.
func NewHandler(deps Deps) *Handler {
	perf := deps.Performance
	if perf == nil {
		perf = middleware.NewPerformanceMonitor(0, 0)
	}
	return &Handler{
		ctrl:      deps.Controller,
		session:   deps.Session,
		board:     deps.Board,
		queryLog:  deps.QueryLog,
		backups:   deps.Backups,
		hub:       deps.Hub,
		upgrader:  ws.NewUpgrader(deps.AllowedOrigins),
		perf:      perf,
		startTime: time.Now(),
	}
}
