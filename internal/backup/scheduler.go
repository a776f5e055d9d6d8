// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package backup

import (
	"context"
	"time"

	"github.com/tomtom215/songrec/internal/logging"
)

// Serve takes a backup now and then on schedule until ctx is canceled. It
// implements suture.Service.
func (m *Manager) Serve(ctx context.Context) error {
	logger := logging.WithComponent("querylog-backup")
	logger.Info().
		Str("dir", m.cfg.Dir).
		Dur("interval", m.cfg.Interval).
		Int("keep_count", m.cfg.Retention.KeepCount).
		Msg("Backup scheduler started")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Backup scheduler stopped")
			return ctx.Err()
		case <-timer.C:
			wait := m.cfg.RetryDelay
			if _, err := m.BackupNow(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Error().Err(err).Dur("retry_in", wait).Msg("Scheduled backup failed")
			} else {
				wait = m.nextBackupTime(m.now()).Sub(m.now())
			}
			timer.Reset(wait)
		}
	}
}

// String names the service for supervisor logs.
func (m *Manager) String() string {
	return "querylog-backup"
}

// nextBackupTime returns when the backup after one finished at now is due.
func (m *Manager) nextBackupTime(now time.Time) time.Time {
	interval := m.cfg.Interval
	if interval < 24*time.Hour || m.cfg.PreferredHour < 0 {
		return now.Add(interval)
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), m.cfg.PreferredHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	if days := int(interval.Hours() / 24); days > 1 {
		next = next.AddDate(0, 0, days-1)
	}
	return next
}
