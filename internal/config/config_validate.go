// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateRecommender(); err != nil {
		return err
	}
	if err := c.validateNotices(); err != nil {
		return err
	}
	if err := c.validateQueryLog(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitRequests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Server.RateLimitRequests)
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Server.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateRecommender() error {
	r := c.Recommender

	u, err := url.Parse(r.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("RECOMMENDER_URL must be an absolute http(s) URL, got %q", r.BaseURL)
	}
	if r.CheckTimeout <= 0 {
		return fmt.Errorf("RECOMMENDER_CHECK_TIMEOUT must be positive")
	}
	if r.RequestTimeout <= 0 {
		return fmt.Errorf("RECOMMENDER_REQUEST_TIMEOUT must be positive")
	}
	if r.ArtificialDelay < 0 {
		return fmt.Errorf("RECOMMENDER_DELAY must not be negative")
	}
	if r.RefreshInterval < 0 {
		return fmt.Errorf("RECOMMENDER_REFRESH_INTERVAL must not be negative")
	}
	if r.NumRecommendations < 1 || r.NumRecommendations > 50 {
		return fmt.Errorf("RECOMMENDER_COUNT must be between 1 and 50, got %d", r.NumRecommendations)
	}
	if r.RequestsPerSecond <= 0 {
		return fmt.Errorf("RECOMMENDER_RPS must be positive")
	}
	if r.BreakerMaxFailures == 0 {
		return fmt.Errorf("RECOMMENDER_BREAKER_MAX_FAILURES must be at least 1")
	}
	return nil
}

func (c *Config) validateNotices() error {
	n := c.Notices
	if n.ErrorTTL <= 0 || n.SuccessTTL <= 0 || n.InfoTTL <= 0 {
		return fmt.Errorf("notice lifetimes must be positive")
	}
	if n.MaxActive < 1 {
		return fmt.Errorf("NOTICE_MAX_ACTIVE must be at least 1, got %d", n.MaxActive)
	}
	return nil
}

var validSynchronousModes = map[string]bool{
	"OFF":    true,
	"NORMAL": true,
	"FULL":   true,
	"EXTRA":  true,
}

func (c *Config) validateQueryLog() error {
	q := c.QueryLog
	if !q.Enabled {
		return nil
	}
	if strings.TrimSpace(q.Path) == "" {
		return fmt.Errorf("QUERYLOG_PATH is required when QUERYLOG_ENABLED=true")
	}
	if q.WAL && !validSynchronousModes[strings.ToUpper(q.Synchronous)] {
		return fmt.Errorf("WAL_SYNCHRONOUS must be one of: OFF, NORMAL, FULL, EXTRA")
	}
	if !q.BackupEnabled {
		return nil
	}
	if strings.TrimSpace(q.BackupDir) == "" {
		return fmt.Errorf("BACKUP_DIR is required when BACKUP_ENABLED=true")
	}
	if q.BackupInterval < time.Minute {
		return fmt.Errorf("BACKUP_INTERVAL must be at least 1m, got %v", q.BackupInterval)
	}
	if q.BackupPreferredHour < -1 || q.BackupPreferredHour > 23 {
		return fmt.Errorf("BACKUP_PREFERRED_HOUR must be between 0 and 23, or -1, got %d", q.BackupPreferredHour)
	}
	if q.BackupKeepCount < 1 {
		return fmt.Errorf("KEEP_BACKUP_COUNT must be at least 1, got %d", q.BackupKeepCount)
	}
	if q.BackupMaxAge < 0 {
		return fmt.Errorf("BACKUP_MAX_AGE must not be negative")
	}
	if q.BackupRetryDelay <= 0 {
		return fmt.Errorf("BACKUP_RETRY_DELAY must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
