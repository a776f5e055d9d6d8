// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/songrec/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(h.perf.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		// Long-lived; not compressed.
		r.Get("/ws", h.WebSocket)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(middleware.Compression))

			r.Get("/status", h.Status)
			r.Post("/status/refresh", h.RefreshStatus)
			r.Get("/songs", h.Songs)
			r.Get("/suggestions", h.Suggestions)
			r.Post("/recommendations", h.Recommendations)

			r.Post("/embed/video", h.EmbedVideo)
			r.Post("/embed/audio", h.EmbedAudio)

			r.Route("/session", func(r chi.Router) {
				r.Get("/", h.Session)
				r.Post("/query", h.SessionQuery)
				r.Post("/search", h.SessionSearch)
				r.Post("/video", h.SessionVideo)
				r.Post("/audio", h.SessionAudio)
				r.Post("/cards/{index}/play", h.SessionCardPlay)
				r.Post("/cards/{index}/spotify", h.SessionCardSpotify)
				r.Delete("/notices/{id}", h.DismissNotice)
			})

			r.Get("/query-logs", h.QueryLogs)
			r.Get("/query-logs/backups", h.QueryLogBackups)
			r.Post("/query-logs/backups", h.CreateQueryLogBackup)
			r.Get("/performance", h.Performance)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", h.Index)

	return r
}
