// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

// Package backup takes periodic snapshots of the query log database and
// prunes old ones.
//
// # Overview
//
// A Manager writes each snapshot as a standalone SQLite file named
//
//	<prefix>_YYYYMMDD_HHMMSS.db
//
// in its backup directory. The fixed-width timestamp makes lexical order
// chronological, so the directory listing alone is the backup catalog; no
// metadata file is kept.
//
// # Schedule
//
// Manager implements suture.Service. Serve takes a backup immediately, then
// one per Interval. Intervals of a day or more may be pinned to a
// PreferredHour of local time. A failed backup is retried after RetryDelay
// instead of waiting a full interval.
//
// # Retention
//
// After every backup the policy is applied:
//
//	KeepCount - newest backups to keep; older ones are deleted
//	MaxAge    - backups older than this are deleted (0 = no age limit)
//
// The newest backup is never deleted, whatever its age.
//
// # Usage
//
//	cfg := backup.DefaultConfig("./data/backups")
//	cfg.Retention.MaxAge = 30 * 24 * time.Hour
//	mgr, err := backup.NewManager(cfg, store)
//	if err != nil {
//		return err
//	}
//	tree.AddRecommenderService(mgr)
package backup
