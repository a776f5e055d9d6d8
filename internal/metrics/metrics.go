// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

// Package metrics declares the Prometheus instrumentation for Songrec:
// API latency, recommendation sources, remote availability, the circuit
// breaker, view sessions, notices, websocket clients and the query log.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songrec_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "songrec_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "songrec_api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songrec_recommendations_total",
			Help: "Recommendation requests by result source",
		},
		[]string{"source"}, // remote, cache, curated, shuffle, validation, not_found
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "songrec_recommendation_duration_seconds",
			Help:    "End-to-end recommendation latency including the artificial delay",
			Buckets: []float64{0.1, 0.5, 1, 1.5, 2, 3, 5, 10},
		},
		[]string{"source"},
	)

	RemoteFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songrec_remote_fallbacks_total",
			Help: "Remote recommendation failures downgraded to the local heuristic",
		},
		[]string{"kind"}, // service, network, unavailable
	)

	SuggestionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "songrec_suggestions_total",
			Help: "Total number of suggestion lookups",
		},
	)

	StaleResponsesDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "songrec_stale_responses_discarded_total",
			Help: "Recommendation responses dropped because a newer query superseded them",
		},
	)

	// Availability Metrics
	RemoteAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "songrec_remote_available",
			Help: "Whether the remote recommender answered the last check (1) or not (0)",
		},
	)

	ChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songrec_checks_total",
			Help: "Availability checks by result",
		},
		[]string{"result"}, // available, unavailable
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "songrec_catalog_songs",
			Help: "Number of songs in the active catalog",
		},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "songrec_recommendation_cache_hits_total",
			Help: "Cached remote recommendation sets served",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "songrec_recommendation_cache_misses_total",
			Help: "Recommendation cache lookups that found nothing",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// View and Notice Metrics
	NoticesRaised = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songrec_notices_raised_total",
			Help: "Transient notices raised by kind",
		},
		[]string{"kind"},
	)

	NoticesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "songrec_notices_active",
			Help: "Notices currently visible",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "songrec_websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songrec_websocket_messages_sent_total",
			Help: "Total number of WebSocket messages broadcast",
		},
		[]string{"type"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songrec_events_published_total",
			Help: "Events published to the internal bus by topic and result",
		},
		[]string{"topic", "result"}, // ok, error
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songrec_events_handled_total",
			Help: "Events consumed from the internal bus by handler",
		},
		[]string{"handler"},
	)

	EventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "songrec_events_dropped_total",
			Help: "Events dropped after handler retries were exhausted",
		},
	)

	// Query Log Metrics
	QueryLogWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songrec_querylog_writes_total",
			Help: "Query log inserts by result",
		},
		[]string{"result"}, // ok, error
	)

	// Backup Metrics
	BackupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songrec_querylog_backups_total",
			Help: "Query log backups by result",
		},
		[]string{"result"}, // ok, error
	)

	BackupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "songrec_querylog_backup_duration_seconds",
			Help:    "Time taken to write a query log backup",
			Buckets: prometheus.DefBuckets,
		},
	)

	BackupLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "songrec_querylog_backup_last_success_timestamp_seconds",
			Help: "Unix time of the last successful query log backup",
		},
	)

	BackupsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "songrec_querylog_backups_pruned_total",
			Help: "Query log backups deleted by the retention policy",
		},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one finished recommendation by outcome label.
func RecordRecommendation(outcome string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordCheck records an availability check result and updates the gauges.
func RecordCheck(available bool, catalogSize int) {
	result := "unavailable"
	value := 0.0
	if available {
		result = "available"
		value = 1
	}
	ChecksTotal.WithLabelValues(result).Inc()
	RemoteAvailable.Set(value)
	CatalogSize.Set(float64(catalogSize))
}

// RecordQueryLogWrite records a query log insert.
func RecordQueryLogWrite(err error) {
	if err != nil {
		QueryLogWrites.WithLabelValues("error").Inc()
		return
	}
	QueryLogWrites.WithLabelValues("ok").Inc()
}

// RecordBackup records a finished backup attempt.
func RecordBackup(err error, duration time.Duration) {
	if err != nil {
		BackupsTotal.WithLabelValues("error").Inc()
		return
	}
	BackupsTotal.WithLabelValues("ok").Inc()
	BackupDuration.Observe(duration.Seconds())
	BackupLastSuccess.SetToCurrentTime()
}
