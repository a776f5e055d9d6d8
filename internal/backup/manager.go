// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/songrec/internal/logging"
	"github.com/tomtom215/songrec/internal/metrics"
)

// Snapshotter writes a consistent copy of a database to a new file.
// *querylog.Store implements it.
type Snapshotter interface {
	Backup(ctx context.Context, dest string) error
}

// Manager creates, lists and prunes backups. It is safe for concurrent use;
// backups and cleanups are serialized.
type Manager struct {
	cfg    Config
	source Snapshotter
	now    func() time.Time

	mu sync.Mutex
}

// NewManager validates cfg and returns a manager that snapshots source.
func NewManager(cfg Config, source Snapshotter) (*Manager, error) {
	if source == nil {
		return nil, fmt.Errorf("backup source is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{cfg: cfg, source: source, now: time.Now}, nil
}

// CreateBackup snapshots the source into a new timestamped file.
func (m *Manager) CreateBackup(ctx context.Context) (*Backup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createBackupLocked(ctx)
}

// BackupNow creates a backup and applies the retention policy.
func (m *Manager) BackupNow(ctx context.Context) (*Backup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.createBackupLocked(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := m.applyRetentionLocked(); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Retention policy application failed")
	}
	return b, nil
}

func (m *Manager) createBackupLocked(ctx context.Context) (*Backup, error) {
	start := m.now()
	if err := os.MkdirAll(m.cfg.Dir, 0o750); err != nil {
		metrics.RecordBackup(err, 0)
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	path := m.nextPath(start)
	if err := m.source.Backup(ctx, path); err != nil {
		// Do not leave a partial file behind for retention to count.
		_ = os.Remove(path)
		metrics.RecordBackup(err, 0)
		return nil, fmt.Errorf("create backup: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		metrics.RecordBackup(err, 0)
		return nil, fmt.Errorf("stat backup: %w", err)
	}

	b := &Backup{
		Name:      filepath.Base(path),
		Path:      path,
		SizeBytes: info.Size(),
		CreatedAt: start,
	}
	metrics.RecordBackup(nil, m.now().Sub(start))
	logging.Ctx(ctx).Info().
		Str("backup", b.Name).
		Int64("size_bytes", b.SizeBytes).
		Dur("duration", m.now().Sub(start)).
		Msg("Query log backup created")
	return b, nil
}

// nextPath returns an unused file name for a backup taken at t. Backups in
// the same second get a numeric suffix, which still sorts after the plain name.
func (m *Manager) nextPath(t time.Time) string {
	base := m.cfg.Prefix + "_" + t.Format(timestampLayout)
	path := filepath.Join(m.cfg.Dir, base+fileExt)
	for i := 1; fileExists(path); i++ {
		path = filepath.Join(m.cfg.Dir, fmt.Sprintf("%s_%03d%s", base, i, fileExt))
	}
	return path
}

// List returns the backups in the directory, newest first. A missing
// directory is an empty list.
func (m *Manager) List() ([]Backup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listLocked()
}

func (m *Manager) listLocked() ([]Backup, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Backup{}, nil
		}
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	backups := make([]Backup, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, m.cfg.Prefix+"_") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Backup{
			Name:      name,
			Path:      filepath.Join(m.cfg.Dir, name),
			SizeBytes: info.Size(),
			CreatedAt: m.parseCreatedAt(name, info.ModTime()),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Name > backups[j].Name
	})
	return backups, nil
}

// parseCreatedAt reads the timestamp from a backup name, falling back to the
// file's modification time for names it cannot parse.
func (m *Manager) parseCreatedAt(name string, modTime time.Time) time.Time {
	stamp := strings.TrimPrefix(strings.TrimSuffix(name, fileExt), m.cfg.Prefix+"_")
	if len(stamp) < len(timestampLayout) {
		return modTime
	}
	t, err := time.ParseInLocation(timestampLayout, stamp[:len(timestampLayout)], time.Local)
	if err != nil {
		return modTime
	}
	return t
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
