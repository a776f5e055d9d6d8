// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

// Package notice keeps transient user-facing banners. Each notice expires on
// its own timer; the board caps how many are visible at once and drops the
// oldest when full.
package notice

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/songrec/internal/config"
	"github.com/tomtom215/songrec/internal/metrics"
)

// Kind is the notice severity.
type Kind string

const (
	KindError   Kind = "error"
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
)

// Notice is one visible banner.
type Notice struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// EventType describes a board change.
type EventType string

const (
	EventRaised    EventType = "raised"
	EventExpired   EventType = "expired"
	EventDismissed EventType = "dismissed"
)

// Event is delivered to listeners after every change.
type Event struct {
	Type   EventType `json:"type"`
	Notice Notice    `json:"notice"`
}

// Listener receives board events. It runs outside the board lock but may run
// on a timer goroutine.
type Listener func(Event)

type entry struct {
	notice Notice
	timer  *time.Timer
}

// Board holds the active notices.
type Board struct {
	mu        sync.Mutex
	entries   []*entry
	ttl       map[Kind]time.Duration
	max       int
	listeners []Listener
	now       func() time.Time
	closed    bool
}

// NewBoard creates a board with lifetimes from cfg.
func NewBoard(cfg config.NoticesConfig) *Board {
	limit := cfg.MaxActive
	if limit <= 0 {
		limit = 20
	}
	return &Board{
		ttl: map[Kind]time.Duration{
			KindError:   cfg.ErrorTTL,
			KindSuccess: cfg.SuccessTTL,
			KindInfo:    cfg.InfoTTL,
		},
		max: limit,
		now: time.Now,
	}
}

// Subscribe registers l for future events.
func (b *Board) Subscribe(l Listener) {
	b.mu.Lock()
	b.listeners = append(b.listeners, l)
	b.mu.Unlock()
}

// Error raises an error notice.
func (b *Board) Error(text string) Notice { return b.Raise(KindError, text) }

// Success raises a success notice.
func (b *Board) Success(text string) Notice { return b.Raise(KindSuccess, text) }

// Info raises an informational notice.
func (b *Board) Info(text string) Notice { return b.Raise(KindInfo, text) }

// Raise adds a notice of kind. A zero TTL for the kind keeps it until dismissed.
func (b *Board) Raise(kind Kind, text string) Notice {
	now := b.now()
	n := Notice{
		ID:        uuid.New().String(),
		Kind:      kind,
		Text:      text,
		CreatedAt: now,
	}

	var events []Event

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return n
	}
	e := &entry{}
	if ttl := b.ttl[kind]; ttl > 0 {
		n.ExpiresAt = now.Add(ttl)
		id := n.ID
		e.timer = time.AfterFunc(ttl, func() { b.remove(id, EventExpired) })
	}
	e.notice = n
	b.entries = append(b.entries, e)

	for len(b.entries) > b.max {
		oldest := b.entries[0]
		b.entries = b.entries[1:]
		if oldest.timer != nil {
			oldest.timer.Stop()
		}
		events = append(events, Event{Type: EventDismissed, Notice: oldest.notice})
	}
	events = append(events, Event{Type: EventRaised, Notice: n})
	active := len(b.entries)
	listeners := b.listeners
	b.mu.Unlock()

	metrics.NoticesRaised.WithLabelValues(string(kind)).Inc()
	metrics.NoticesActive.Set(float64(active))
	notify(listeners, events)
	return n
}

// Dismiss removes the notice with id and reports whether it was visible.
func (b *Board) Dismiss(id string) bool {
	return b.remove(id, EventDismissed)
}

// Active returns visible notices, oldest first.
func (b *Board) Active() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Notice, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.notice
	}
	return out
}

// Close stops all timers and drops every notice.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, e := range b.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	b.entries = nil
	b.closed = true
	metrics.NoticesActive.Set(0)
}

func (b *Board) remove(id string, typ EventType) bool {
	b.mu.Lock()
	idx := -1
	for i, e := range b.entries {
		if e.notice.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		b.mu.Unlock()
		return false
	}

	e := b.entries[idx]
	b.entries = append(b.entries[:idx], b.entries[idx+1:]...)
	if e.timer != nil {
		e.timer.Stop()
	}
	active := len(b.entries)
	listeners := b.listeners
	b.mu.Unlock()

	metrics.NoticesActive.Set(float64(active))
	notify(listeners, []Event{{Type: typ, Notice: e.notice}})
	return true
}

func notify(listeners []Listener, events []Event) {
	for _, ev := range events {
		for _, l := range listeners {
			l(ev)
		}
	}
}
