// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

// Package config loads Songrec configuration.
//
// Values are layered with koanf: built-in defaults, then an optional YAML file
// (CONFIG_PATH, ./config.yaml, /etc/songrec/config.yaml), then environment
// variables from an explicit mapping table. Unknown environment variables are
// ignored.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Recommender RecommenderConfig `koanf:"recommender"`
	Notices     NoticesConfig     `koanf:"notices"`
	QueryLog    QueryLogConfig    `koanf:"querylog"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port              int           `koanf:"port"`
	Host              string        `koanf:"host"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// RecommenderConfig describes the remote recommender and the local controller timing.
type RecommenderConfig struct {
	BaseURL            string        `koanf:"base_url"`
	CheckTimeout       time.Duration `koanf:"check_timeout"`
	RequestTimeout     time.Duration `koanf:"request_timeout"`
	ArtificialDelay    time.Duration `koanf:"artificial_delay"`
	RefreshInterval    time.Duration `koanf:"refresh_interval"` // 0 disables periodic re-probing
	NumRecommendations int           `koanf:"num_recommendations"`
	CacheTTL           time.Duration `koanf:"cache_ttl"`
	RequestsPerSecond  float64       `koanf:"requests_per_second"`
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`
}

// NoticesConfig holds lifetimes for transient banners.
type NoticesConfig struct {
	ErrorTTL   time.Duration `koanf:"error_ttl"`
	SuccessTTL time.Duration `koanf:"success_ttl"`
	InfoTTL    time.Duration `koanf:"info_ttl"`
	MaxActive  int           `koanf:"max_active"`
}

// QueryLogConfig controls the SQLite query log and its backups.
type QueryLogConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`

	// WAL enables write-ahead journaling; Synchronous is applied with it.
	WAL         bool   `koanf:"wal"`
	Synchronous string `koanf:"synchronous"`

	BackupEnabled  bool          `koanf:"backup_enabled"`
	BackupDir      string        `koanf:"backup_dir"`
	BackupInterval time.Duration `koanf:"backup_interval"`
	// BackupPreferredHour pins intervals of a day or more to this local hour.
	// -1 counts the interval from the previous backup.
	BackupPreferredHour int           `koanf:"backup_preferred_hour"`
	BackupKeepCount     int           `koanf:"backup_keep_count"`
	BackupMaxAge        time.Duration `koanf:"backup_max_age"`
	BackupRetryDelay    time.Duration `koanf:"backup_retry_delay"`
}

// LoggingConfig holds logger settings passed to logging.Init.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, config file and environment.
func Load() (*Config, error) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
