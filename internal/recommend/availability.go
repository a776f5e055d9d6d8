// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package recommend

import (
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tomtom215/songrec/internal/models"
)

// DemoTotalDisplay is the song count shown while the remote service is down.
const DemoTotalDisplay = "1,000 (Demo)"

// DemoNotice is the informational text raised on entering demo mode.
const DemoNotice = "Demo mode: Start the Python server (python app.py) for full functionality!"

// CatalogSource names where the active catalog came from.
type CatalogSource string

const (
	CatalogRemote   CatalogSource = "remote"
	CatalogFallback CatalogSource = "fallback"
)

// Status is a consistent snapshot of the remote service state.
type Status struct {
	Available     bool                `json:"available"`
	CheckedAt     time.Time           `json:"checked_at"`
	LastError     string              `json:"last_error,omitempty"`
	TotalSongs    int                 `json:"total_songs"`
	TotalDisplay  string              `json:"total_display"`
	CatalogSource CatalogSource       `json:"catalog_source"`
	CatalogSize   int                 `json:"catalog_size"`
	Dataset       *models.DatasetInfo `json:"dataset,omitempty"`

	// Checks counts completed checks; zero means never checked.
	Checks uint64 `json:"checks"`
}

// EnteredDemoMode reports whether a check moved the service into the
// unavailable state. The first check counts as a transition.
func EnteredDemoMode(prev, next Status) bool {
	if next.Available {
		return false
	}
	return prev.Checks == 0 || prev.Available
}

// Availability holds the check result and the catalog it produced. The
// catalog slice is replaced whole on every check and never mutated.
type Availability struct {
	mu      sync.RWMutex
	status  Status
	catalog []models.Song
}

// NewAvailability starts unchecked, serving the fallback catalog.
func NewAvailability() *Availability {
	catalog := FallbackCatalog()
	return &Availability{
		catalog: catalog,
		status: Status{
			TotalDisplay:  DemoTotalDisplay,
			CatalogSource: CatalogFallback,
			CatalogSize:   len(catalog),
		},
	}
}

// Snapshot returns the current status.
func (a *Availability) Snapshot() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// Catalog returns the active catalog. Callers must not modify it.
func (a *Availability) Catalog() []models.Song {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.catalog
}

// Stale reports whether a check is due at now.
func (a *Availability) Stale(now time.Time, interval time.Duration) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.status.Checks == 0 {
		return true
	}
	return interval > 0 && now.Sub(a.status.CheckedAt) >= interval
}

// markAvailable installs a remote catalog. An empty remote catalog keeps the
// service available but serves the fallback songs.
func (a *Availability) markAvailable(at time.Time, info *models.DatasetInfo, songs []models.Song) (prev, next Status) {
	source := CatalogRemote
	if len(songs) == 0 {
		songs = FallbackCatalog()
		source = CatalogFallback
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	prev = a.status
	a.catalog = songs
	a.status = Status{
		Available:     true,
		CheckedAt:     at,
		TotalSongs:    info.TotalSongs,
		TotalDisplay:  formatCount(info.TotalSongs),
		CatalogSource: source,
		CatalogSize:   len(songs),
		Dataset:       info,
		Checks:        prev.Checks + 1,
	}
	return prev, a.status
}

// markUnavailable reinstalls the fallback catalog.
func (a *Availability) markUnavailable(at time.Time, cause error) (prev, next Status) {
	catalog := FallbackCatalog()

	a.mu.Lock()
	defer a.mu.Unlock()

	prev = a.status
	a.catalog = catalog
	a.status = Status{
		CheckedAt:     at,
		TotalDisplay:  DemoTotalDisplay,
		CatalogSource: CatalogFallback,
		CatalogSize:   len(catalog),
		Checks:        prev.Checks + 1,
	}
	if cause != nil {
		a.status.LastError = models.UserMessage(cause)
	}
	return prev, a.status
}

var countPrinter = message.NewPrinter(language.English)

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}
