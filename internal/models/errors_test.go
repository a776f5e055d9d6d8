// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package models

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorKinds_MatchSentinels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		sentinel error
		kind     Kind
	}{
		{"validation", NewValidationError("recommend", "Please enter a song name"), ErrValidation, KindValidation},
		{"not found", NewNotFoundError("recommend", "missing", nil), ErrNotFound, KindNotFound},
		{"service", NewServiceError("recommend", "bad status", nil), ErrService, KindService},
		{"network", NewNetworkError("check", io.ErrUnexpectedEOF), ErrNetwork, KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.sentinel)
			}
			if got := KindOf(wrapped); got != tt.kind {
				t.Errorf("KindOf() = %v, want %v", got, tt.kind)
			}
			for _, other := range []error{ErrValidation, ErrNotFound, ErrService, ErrNetwork} {
				if other != tt.sentinel && errors.Is(wrapped, other) {
					t.Errorf("errors.Is(%v, %v) = true, want false", wrapped, other)
				}
			}
		})
	}
}

func TestError_UnwrapsCause(t *testing.T) {
	t.Parallel()

	err := NewNetworkError("check", io.ErrUnexpectedEOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("expected network error to unwrap to its cause")
	}
	if got := err.Error(); got != "check: recommender unreachable: unexpected EOF" {
		t.Errorf("Error() = %q", got)
	}
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("handler: %w", NewValidationError("embed.audio", "Paste a Spotify track URL or URI"))
	if got := UserMessage(err); got != "Paste a Spotify track URL or URI" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
	if KindOf(errors.New("plain")) != 0 {
		t.Error("KindOf(plain) should be 0")
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	if got := Normalize("  Lag JAA Gale \t"); got != "lag jaa gale" {
		t.Errorf("Normalize() = %q", got)
	}
	s := Song{Title: " Rim Jhim Gire Sawan"}
	if got := s.NormalizedTitle(); got != "rim jhim gire sawan" {
		t.Errorf("NormalizedTitle() = %q", got)
	}
	if !SourceShuffle.IsLocal() || !SourceCurated.IsLocal() || SourceRemote.IsLocal() || SourceCache.IsLocal() {
		t.Error("IsLocal() classification wrong")
	}
}
