// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/songrec/config.yaml",
	"/etc/songrec/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8080,
			Host:              "0.0.0.0",
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Recommender: RecommenderConfig{
			BaseURL:            "http://localhost:5000/api",
			CheckTimeout:       3 * time.Second,
			RequestTimeout:     10 * time.Second,
			ArtificialDelay:    1500 * time.Millisecond,
			RefreshInterval:    30 * time.Second,
			NumRecommendations: 5,
			CacheTTL:           5 * time.Minute,
			RequestsPerSecond:  10,
			BreakerMaxFailures: 5,
			BreakerOpenTimeout: 30 * time.Second,
		},
		Notices: NoticesConfig{
			ErrorTTL:   5 * time.Second,
			SuccessTTL: 3 * time.Second,
			InfoTTL:    8 * time.Second,
			MaxActive:  20,
		},
		QueryLog: QueryLogConfig{
			Enabled:             true,
			Path:                "./data/queries.db",
			WAL:                 true,
			Synchronous:         "NORMAL",
			BackupEnabled:       true,
			BackupDir:           "./data/backups",
			BackupInterval:      24 * time.Hour,
			BackupPreferredHour: -1,
			BackupKeepCount:     10,
			BackupMaxAge:        0,
			BackupRetryDelay:    5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf builds the configuration from defaults, the first config file
// found and mapped environment variables, then validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated env values into string slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_requests",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",

	"recommender_url":                  "recommender.base_url",
	"recommender_check_timeout":        "recommender.check_timeout",
	"recommender_request_timeout":      "recommender.request_timeout",
	"recommender_delay":                "recommender.artificial_delay",
	"recommender_refresh_interval":     "recommender.refresh_interval",
	"recommender_count":                "recommender.num_recommendations",
	"recommender_cache_ttl":            "recommender.cache_ttl",
	"recommender_rps":                  "recommender.requests_per_second",
	"recommender_breaker_max_failures": "recommender.breaker_max_failures",
	"recommender_breaker_open_timeout": "recommender.breaker_open_timeout",

	"notice_error_ttl":   "notices.error_ttl",
	"notice_success_ttl": "notices.success_ttl",
	"notice_info_ttl":    "notices.info_ttl",
	"notice_max_active":  "notices.max_active",

	"querylog_enabled":      "querylog.enabled",
	"querylog_path":         "querylog.path",
	"wal_enabled":           "querylog.wal",
	"wal_synchronous":       "querylog.synchronous",
	"backup_enabled":        "querylog.backup_enabled",
	"backup_dir":            "querylog.backup_dir",
	"backup_interval":       "querylog.backup_interval",
	"backup_preferred_hour": "querylog.backup_preferred_hour",
	"keep_backup_count":     "querylog.backup_keep_count",
	"backup_max_age":        "querylog.backup_max_age",
	"backup_retry_delay":    "querylog.backup_retry_delay",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf key.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
