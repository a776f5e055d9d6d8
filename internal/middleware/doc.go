// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

/*
Package middleware provides HTTP middleware for the Songrec API.

Components:

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge per route
  - Compression: pooled gzip writers
  - PerformanceMonitor: sliding-window latency percentiles and slow-request warnings

RequestID, PrometheusMetrics and Compression use the http.HandlerFunc shape;
the api package adapts them to chi's func(http.Handler) http.Handler.
Metrics are labelled with the chi route pattern ("/api/v1/session/cards/{index}/play")
so path parameters do not create new series.
*/
package middleware
