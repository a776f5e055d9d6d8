// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package backup

import (
	"fmt"
	"os"
	"time"

	"github.com/tomtom215/songrec/internal/logging"
	"github.com/tomtom215/songrec/internal/metrics"
)

// ApplyRetention deletes the backups the policy no longer keeps and returns
// how many were removed.
func (m *Manager) ApplyRetention() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applyRetentionLocked()
}

func (m *Manager) applyRetentionLocked() (int, error) {
	backups, err := m.listLocked()
	if err != nil {
		return 0, err
	}

	toDelete := selectForDeletion(backups, m.cfg.Retention, m.now())

	var deleted int
	var firstErr error
	for _, b := range toDelete {
		if err := os.Remove(b.Path); err != nil && !os.IsNotExist(err) {
			logging.Warn().Err(err).Str("backup", b.Name).Msg("Failed to delete backup")
			if firstErr == nil {
				firstErr = fmt.Errorf("delete backup %s: %w", b.Name, err)
			}
			continue
		}
		deleted++
		logging.Info().Str("backup", b.Name).Msg("Removed old backup")
	}
	metrics.BackupsPruned.Add(float64(deleted))
	return deleted, firstErr
}

// selectForDeletion returns the backups policy drops. backups must be sorted
// newest first. The newest backup is always kept.
func selectForDeletion(backups []Backup, policy RetentionPolicy, now time.Time) []Backup {
	keepCount := policy.KeepCount
	if keepCount < 1 {
		keepCount = 1
	}

	var toDelete []Backup
	for i, b := range backups {
		switch {
		case i == 0:
			continue
		case i >= keepCount:
			toDelete = append(toDelete, b)
		case tooOld(b, policy, now):
			toDelete = append(toDelete, b)
		}
	}
	return toDelete
}

// tooOld reports whether b exceeds the policy's maximum age.
func tooOld(b Backup, policy RetentionPolicy, now time.Time) bool {
	if policy.MaxAge <= 0 {
		return false
	}
	return b.CreatedAt.Before(now.Add(-policy.MaxAge))
}
