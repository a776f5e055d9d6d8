// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

// Package querylog persists user queries to SQLite.
package querylog

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/tomtom215/songrec/internal/metrics"
	"github.com/tomtom215/songrec/internal/models"
)

const (
	// DefaultLimit is the List page size when none is given.
	DefaultLimit = 100

	// MaxLimit caps List.
	MaxLimit = 1000
)

const schema = `
CREATE TABLE IF NOT EXISTS query_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT NOT NULL,
	time TEXT NOT NULL,
	query TEXT NOT NULL,
	query_type TEXT,
	num_results INTEGER,
	success INTEGER DEFAULT 1,
	source TEXT,
	timestamp TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_query_logs_timestamp ON query_logs(timestamp);
`

// Store is a SQLite-backed query log.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

type options struct {
	wal         bool
	synchronous string
}

// Option configures Open.
type Option func(*options)

// WithWAL opens the database in write-ahead journal mode with the given
// synchronous level (OFF, NORMAL, FULL or EXTRA). In-memory logs ignore it.
func WithWAL(synchronous string) Option {
	return func(o *options) {
		o.wal = true
		o.synchronous = strings.ToUpper(strings.TrimSpace(synchronous))
	}
}

// Open opens or creates the database at path and migrates the schema.
// Use ":memory:" for a private in-memory log.
func Open(path string, opts ...Option) (*Store, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("create query log directory: %w", err)
		}
		// go-sqlite3 applies these pragmas on every new connection.
		if o.wal {
			params := url.Values{}
			params.Set("_journal_mode", "WAL")
			if o.synchronous != "" {
				params.Set("_synchronous", o.synchronous)
			}
			dsn = path + "?" + params.Encode()
		}
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps :memory: databases shared and serialises writes.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate query log: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// JournalMode reports the active journal mode, e.g. "wal" or "delete".
func (s *Store) JournalMode(ctx context.Context) (string, error) {
	var mode string
	if err := s.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
		return "", fmt.Errorf("read journal mode: %w", err)
	}
	return strings.ToLower(mode), nil
}

// Backup writes a consistent copy of the database to dest, which must not
// exist yet. It runs VACUUM INTO, so the copy is also compacted.
func (s *Store) Backup(ctx context.Context, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("backup destination %s already exists", dest)
	}
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		return fmt.Errorf("vacuum into %s: %w", dest, err)
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Record inserts one query.
func (s *Store) Record(ctx context.Context, rec models.QueryRecord) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO query_logs (date, time, query, query_type, num_results, success, source, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		now.Format("2006-01-02"),
		now.Format("15:04:05"),
		rec.Query,
		string(rec.Type),
		rec.NumResults,
		boolToInt(rec.Success),
		rec.Source,
		now.UTC().Format(time.RFC3339Nano),
	)
	metrics.RecordQueryLogWrite(err)
	if err != nil {
		return fmt.Errorf("insert query log: %w", err)
	}
	return nil
}

// List returns the newest entries first. limit is clamped to [1, MaxLimit];
// zero or less means DefaultLimit.
func (s *Store) List(ctx context.Context, limit int) ([]models.QueryLogEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, time, query, IFNULL(query_type, ''), IFNULL(num_results, 0),
			IFNULL(success, 1), IFNULL(source, ''), timestamp
		FROM query_logs
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	entries := make([]models.QueryLogEntry, 0, limit)
	for rows.Next() {
		var (
			e       models.QueryLogEntry
			qType   string
			success int
			ts      string
		)
		if err := rows.Scan(&e.ID, &e.Date, &e.Time, &e.Query, &qType, &e.NumResults, &success, &e.Source, &ts); err != nil {
			return nil, fmt.Errorf("scan query log: %w", err)
		}
		e.QueryType = models.QueryType(qType)
		e.Success = success != 0
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Timestamp = parsed
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate query logs: %w", err)
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM query_logs").Scan(&n); err != nil {
		return 0, fmt.Errorf("count query logs: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
