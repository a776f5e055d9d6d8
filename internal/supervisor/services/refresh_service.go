// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/songrec/internal/logging"
	"github.com/tomtom215/songrec/internal/recommend"
)

// Refresher re-checks the remote recommender. *recommend.Controller
// implements it.
type Refresher interface {
	Refresh(ctx context.Context) recommend.Status
}

// RefreshService keeps the availability state current by probing on a fixed
// interval. Without it the controller still re-checks lazily, but only when
// a query arrives.
type RefreshService struct {
	refresher Refresher
	interval  time.Duration
	logger    zerolog.Logger
	name      string
}

// NewRefreshService creates a refresher. A non-positive interval disables
// periodic probing; Serve then just waits for shutdown.
func NewRefreshService(refresher Refresher, interval time.Duration) *RefreshService {
	return &RefreshService{
		refresher: refresher,
		interval:  interval,
		logger:    logging.WithComponent("availability-refresher"),
		name:      "availability-refresher",
	}
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info().Msg("periodic availability refresh disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	s.logger.Info().Dur("interval", s.interval).Msg("availability refresher running")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("availability refresher shutting down")
			return ctx.Err()

		case <-ticker.C:
			st := s.refresher.Refresh(ctx)
			s.logger.Debug().
				Bool("available", st.Available).
				Uint64("checks", st.Checks).
				Msg("scheduled availability check complete")
		}
	}
}

// String returns the service name for logging.
func (s *RefreshService) String() string {
	return s.name
}
