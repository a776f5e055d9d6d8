// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package backup

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayout is embedded in backup file names.
const timestampLayout = "20060102_150405"

const fileExt = ".db"

// Backup describes one snapshot file.
type Backup struct {
	Name      string    `json:"name"`
	Path      string    `json:"-"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// RetentionPolicy defines which backups survive a cleanup.
type RetentionPolicy struct {
	// Newest backups to keep. Must be at least 1.
	KeepCount int

	// Delete backups older than this (0 = unlimited).
	MaxAge time.Duration
}

// Config configures a Manager.
type Config struct {
	Dir    string
	Prefix string

	Interval time.Duration

	// Local hour (0-23) for intervals of 24h or more; -1 disables pinning.
	PreferredHour int

	RetryDelay time.Duration
	Retention  RetentionPolicy
}

// DefaultConfig mirrors the query log defaults: daily, keep 10, retry after 5m.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:           dir,
		Prefix:        "queries",
		Interval:      24 * time.Hour,
		PreferredHour: -1,
		RetryDelay:    5 * time.Minute,
		Retention:     RetentionPolicy{KeepCount: 10},
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Dir) == "" {
		return fmt.Errorf("backup directory is required")
	}
	if c.Prefix == "" || strings.ContainsAny(c.Prefix, `/\`) {
		return fmt.Errorf("invalid backup prefix %q", c.Prefix)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("backup interval must be positive, got %v", c.Interval)
	}
	if c.PreferredHour < -1 || c.PreferredHour > 23 {
		return fmt.Errorf("preferred hour must be between 0 and 23, or -1, got %d", c.PreferredHour)
	}
	if c.RetryDelay <= 0 {
		return fmt.Errorf("retry delay must be positive, got %v", c.RetryDelay)
	}
	if c.Retention.KeepCount < 1 {
		return fmt.Errorf("keep count must be at least 1, got %d", c.Retention.KeepCount)
	}
	if c.Retention.MaxAge < 0 {
		return fmt.Errorf("max age must not be negative")
	}
	return nil
}
