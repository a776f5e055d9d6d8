// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/songrec/internal/models"
	"github.com/tomtom215/songrec/internal/querylog"
)

// fileSource writes a small file per snapshot. The first failFirst calls
// leave a partial file and fail.
type fileSource struct {
	mu        sync.Mutex
	calls     int
	failFirst int
}

func (f *fileSource) Backup(_ context.Context, dest string) error {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()

	if n <= f.failFirst {
		_ = os.WriteFile(dest, []byte("partial"), 0o600)
		return errors.New("database is locked")
	}
	return os.WriteFile(dest, []byte("snapshot"), 0o600)
}

func (f *fileSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig(filepath.Join(t.TempDir(), "backups"))
	cfg.RetryDelay = 10 * time.Millisecond
	return cfg
}

func newTestManager(t *testing.T, cfg Config, source Snapshotter) *Manager {
	t.Helper()
	m, err := NewManager(cfg, source)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within 3s")
}

func names(backups []Backup) []string {
	out := make([]string, len(backups))
	for i, b := range backups {
		out[i] = b.Name
	}
	return out
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty dir", func(c *Config) { c.Dir = " " }, true},
		{"prefix with separator", func(c *Config) { c.Prefix = "a/b" }, true},
		{"zero interval", func(c *Config) { c.Interval = 0 }, true},
		{"hour too large", func(c *Config) { c.PreferredHour = 24 }, true},
		{"hour pinned", func(c *Config) { c.PreferredHour = 3 }, false},
		{"zero retry", func(c *Config) { c.RetryDelay = 0 }, true},
		{"keep none", func(c *Config) { c.Retention.KeepCount = 0 }, true},
		{"negative age", func(c *Config) { c.Retention.MaxAge = -time.Hour }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig("/tmp/backups")
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewManager_RequiresSource(t *testing.T) {
	t.Parallel()

	if _, err := NewManager(DefaultConfig(t.TempDir()), nil); err == nil {
		t.Error("NewManager should reject a nil source")
	}
}

func TestCreateBackup_NamesAndList(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	m := newTestManager(t, cfg, &fileSource{})
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, time.Local)
	m.now = func() time.Time { return at }

	ctx := context.Background()
	first, err := m.CreateBackup(ctx)
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}
	if first.Name != "queries_20260314_150926.db" {
		t.Errorf("Name = %q", first.Name)
	}
	if first.SizeBytes != int64(len("snapshot")) {
		t.Errorf("SizeBytes = %d", first.SizeBytes)
	}

	// Same second: suffixed, and sorted as newer.
	second, err := m.CreateBackup(ctx)
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}
	if second.Name != "queries_20260314_150926_001.db" {
		t.Errorf("Name = %q", second.Name)
	}

	at = at.Add(time.Hour)
	if _, err := m.CreateBackup(ctx); err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}

	// Files that are not backups are ignored.
	_ = os.WriteFile(filepath.Join(cfg.Dir, "notes.txt"), []byte("x"), 0o600)
	_ = os.WriteFile(filepath.Join(cfg.Dir, "other_20260101_000000.db"), []byte("x"), 0o600)

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{
		"queries_20260314_160926.db",
		"queries_20260314_150926_001.db",
		"queries_20260314_150926.db",
	}
	if got := strings.Join(names(backups), ","); got != strings.Join(want, ",") {
		t.Errorf("List() = %v, want %v", names(backups), want)
	}
	if !backups[0].CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", backups[0].CreatedAt, at)
	}
}

func TestCreateBackup_FailureLeavesNoFile(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, testConfig(t), &fileSource{failFirst: 1})
	if _, err := m.CreateBackup(context.Background()); err == nil {
		t.Fatal("CreateBackup() should fail")
	}

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("List() = %v, want no backups after a failure", names(backups))
	}
}

func TestList_MissingDirectory(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, testConfig(t), &fileSource{})
	backups, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("List() = %v, want empty", names(backups))
	}
}

func TestSelectForDeletion(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ages := []time.Duration{0, 24 * time.Hour, 48 * time.Hour, 72 * time.Hour, 96 * time.Hour}
	backups := make([]Backup, len(ages))
	for i, age := range ages {
		backups[i] = Backup{Name: string(rune('a' + i)), CreatedAt: now.Add(-age)}
	}

	tests := []struct {
		name   string
		policy RetentionPolicy
		input  []Backup
		want   string
	}{
		{"keep count", RetentionPolicy{KeepCount: 3}, backups, "d,e"},
		{"keep all", RetentionPolicy{KeepCount: 10}, backups, ""},
		{"max age", RetentionPolicy{KeepCount: 10, MaxAge: 50 * time.Hour}, backups, "d,e"},
		{"age and count", RetentionPolicy{KeepCount: 2, MaxAge: 30 * time.Hour}, backups, "c,d,e"},
		{"newest kept despite age", RetentionPolicy{KeepCount: 10, MaxAge: time.Hour}, backups[3:], "e"},
		{"zero count keeps newest", RetentionPolicy{}, backups, "b,c,d,e"},
		{"empty", RetentionPolicy{KeepCount: 1}, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(names(selectForDeletion(tt.input, tt.policy, now)), ",")
			if got != tt.want {
				t.Errorf("selectForDeletion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyRetention(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Retention = RetentionPolicy{KeepCount: 3}
	m := newTestManager(t, cfg, &fileSource{})

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		m.now = func() time.Time { return at.Add(time.Duration(i) * time.Hour) }
		if _, err := m.CreateBackup(context.Background()); err != nil {
			t.Fatalf("CreateBackup() error = %v", err)
		}
	}

	deleted, err := m.ApplyRetention()
	if err != nil {
		t.Fatalf("ApplyRetention() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	backups, _ := m.List()
	want := "queries_20260101_040000.db,queries_20260101_030000.db,queries_20260101_020000.db"
	if got := strings.Join(names(backups), ","); got != want {
		t.Errorf("List() = %s, want %s", got, want)
	}
}

func TestNextBackupTime(t *testing.T) {
	t.Parallel()

	loc := time.UTC
	now := time.Date(2026, 6, 10, 14, 30, 0, 0, loc)

	tests := []struct {
		name     string
		interval time.Duration
		hour     int
		want     time.Time
	}{
		{"short interval", 6 * time.Hour, 3, now.Add(6 * time.Hour)},
		{"daily unpinned", 24 * time.Hour, -1, now.Add(24 * time.Hour)},
		{"daily hour later today", 24 * time.Hour, 20, time.Date(2026, 6, 10, 20, 0, 0, 0, loc)},
		{"daily hour passed", 24 * time.Hour, 2, time.Date(2026, 6, 11, 2, 0, 0, 0, loc)},
		{"weekly", 7 * 24 * time.Hour, 2, time.Date(2026, 6, 17, 2, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(t.TempDir())
			cfg.Interval = tt.interval
			cfg.PreferredHour = tt.hour
			m := newTestManager(t, cfg, &fileSource{})
			if got := m.nextBackupTime(now); !got.Equal(tt.want) {
				t.Errorf("nextBackupTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServe_BacksUpOnStartAndOnSchedule(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Interval = 20 * time.Millisecond
	cfg.Retention = RetentionPolicy{KeepCount: 2}
	source := &fileSource{}
	m := newTestManager(t, cfg, source)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx) }()

	waitFor(t, func() bool { return source.callCount() >= 3 })
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) == 0 || len(backups) > 2 {
		t.Errorf("backups kept = %d, want 1 or 2 after retention", len(backups))
	}
	if m.String() != "querylog-backup" {
		t.Errorf("String() = %q", m.String())
	}
}

func TestServe_RetriesAfterFailure(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Interval = time.Hour
	source := &fileSource{failFirst: 1}
	m := newTestManager(t, cfg, source)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = m.Serve(ctx) }()

	// The hourly interval would never fire in time; only the retry can.
	waitFor(t, func() bool {
		backups, _ := m.List()
		return len(backups) == 1
	})
	if got := source.callCount(); got != 2 {
		t.Errorf("snapshot calls = %d, want 2", got)
	}
}

func TestBackupNow_QueryLogStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	store, err := querylog.Open(filepath.Join(dir, "queries.db"), querylog.WithWAL("NORMAL"))
	if err != nil {
		t.Fatalf("querylog.Open() error = %v", err)
	}
	defer store.Close()
	if err := store.Record(ctx, models.QueryRecord{Query: "Tum Hi Ho", Success: true}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	cfg := DefaultConfig(filepath.Join(dir, "backups"))
	m := newTestManager(t, cfg, store)
	b, err := m.BackupNow(ctx)
	if err != nil {
		t.Fatalf("BackupNow() error = %v", err)
	}

	restored, err := querylog.Open(b.Path)
	if err != nil {
		t.Fatalf("open backup: %v", err)
	}
	defer restored.Close()
	n, err := restored.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("backup rows = %d, want 1", n)
	}
}
