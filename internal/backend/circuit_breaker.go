// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/songrec/internal/config"
	"github.com/tomtom215/songrec/internal/logging"
	"github.com/tomtom215/songrec/internal/metrics"
	"github.com/tomtom215/songrec/internal/models"
)

// breakerName labels the recommender breaker in metrics and logs.
const breakerName = "recommender-api"

// CircuitBreakerClient wraps Client with a circuit breaker.
//
// The breaker trips after BreakerMaxFailures consecutive failures, or when
// at least 10 requests in the current interval failed 60% of the time. Only
// transport errors, 5xx answers and unreadable bodies count as failures; an
// {"error": ...} payload for an unknown song is a healthy answer.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient creates a breaker-protected client.
func NewCircuitBreakerClient(cfg *config.RecommenderConfig) *CircuitBreakerClient {
	return newCircuitBreakerClient(NewClient(cfg), cfg)
}

func newCircuitBreakerClient(client *Client, cfg *config.RecommenderConfig) *CircuitBreakerClient {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)

	maxFailures := cfg.BreakerMaxFailures
	log := logging.WithComponent("backend")

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerOpenTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= maxFailures {
				log.Warn().Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				log.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			log.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		IsSuccessful: countsAsSuccess,
	})

	return &CircuitBreakerClient{client: client, cb: cb, name: breakerName}
}

// countsAsSuccess decides which errors leave the breaker untouched.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code < 500
	}
	var payloadErr *PayloadError
	return errors.As(err, &payloadErr)
}

func (cbc *CircuitBreakerClient) execute(op string, fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)
	if err == nil {
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)
		return result, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
		logging.Debug().Str("op", op).Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		return nil, models.NewNetworkError(op, err)
	}

	if countsAsSuccess(err) {
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	} else {
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(cbc.cb.Counts().ConsecutiveFailures))
	}
	return nil, err
}

func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// DatasetInfo fetches /dataset-info through the breaker.
func (cbc *CircuitBreakerClient) DatasetInfo(ctx context.Context) (*models.DatasetInfo, error) {
	return castResult[*models.DatasetInfo](cbc.execute("dataset-info", func() (interface{}, error) {
		return cbc.client.DatasetInfo(ctx)
	}))
}

// Songs fetches /songs through the breaker.
func (cbc *CircuitBreakerClient) Songs(ctx context.Context) ([]models.Song, error) {
	return castResult[[]models.Song](cbc.execute("songs", func() (interface{}, error) {
		return cbc.client.Songs(ctx)
	}))
}

// Recommend posts to /recommend through the breaker.
func (cbc *CircuitBreakerClient) Recommend(ctx context.Context, title string, count int) ([]models.Song, error) {
	return castResult[[]models.Song](cbc.execute("recommend", func() (interface{}, error) {
		return cbc.client.Recommend(ctx, title, count)
	}))
}

// State returns the breaker state as "closed", "half-open" or "open".
func (cbc *CircuitBreakerClient) State() string {
	return stateToString(cbc.cb.State())
}

// BaseURL returns the wrapped client's service root.
func (cbc *CircuitBreakerClient) BaseURL() string {
	return cbc.client.BaseURL()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
