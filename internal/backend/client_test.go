// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/songrec/internal/config"
	"github.com/tomtom215/songrec/internal/models"
)

func testConfig(baseURL string) *config.RecommenderConfig {
	return &config.RecommenderConfig{
		BaseURL:            baseURL,
		CheckTimeout:       time.Second,
		RequestTimeout:     2 * time.Second,
		RefreshInterval:    time.Minute,
		NumRecommendations: 5,
		RequestsPerSecond:  1000,
		BreakerMaxFailures: 3,
		BreakerOpenTimeout: time.Minute,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(testConfig(srv.URL + "/api"))
	c.retryBaseDelay = time.Millisecond
	return c
}

func TestClient_DatasetInfo(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dataset-info" {
			t.Errorf("path = %q, want /api/dataset-info", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"success": true, "total_songs": 1000, "clusters": 8, "features": 12, "cluster_distribution": {"0": 120, "1": 80}}`)
	})

	info, err := c.DatasetInfo(context.Background())
	if err != nil {
		t.Fatalf("DatasetInfo() error = %v", err)
	}
	if info.TotalSongs != 1000 || info.Clusters != 8 || info.Features != 12 {
		t.Errorf("DatasetInfo() = %+v", info)
	}
	if info.ClusterDistribution["0"] != 120 {
		t.Errorf("ClusterDistribution[0] = %d, want 120", info.ClusterDistribution["0"])
	}
}

func TestClient_DatasetInfo_ErrorPayload(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"error": "Dataset not loaded"}`)
	})

	_, err := c.DatasetInfo(context.Background())
	if !errors.Is(err, models.ErrService) {
		t.Fatalf("DatasetInfo() error = %v, want service error", err)
	}
	var payloadErr *PayloadError
	if !errors.As(err, &payloadErr) || payloadErr.Message != "Dataset not loaded" {
		t.Errorf("expected payload error 'Dataset not loaded', got %v", err)
	}
}

func TestClient_DatasetInfo_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(testConfig(url + "/api"))
	_, err := c.DatasetInfo(context.Background())
	if !errors.Is(err, models.ErrNetwork) {
		t.Fatalf("DatasetInfo() error = %v, want network error", err)
	}
}

func TestClient_Songs(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success": true, "songs": [{"song_name": "Lag Jaa Gale", "singer": "Lata Mangeshkar", "released_date": "1964"}]}`)
	})

	songs, err := c.Songs(context.Background())
	if err != nil {
		t.Fatalf("Songs() error = %v", err)
	}
	want := models.Song{Title: "Lag Jaa Gale", Artist: "Lata Mangeshkar", ReleaseYear: "1964"}
	if len(songs) != 1 || songs[0] != want {
		t.Errorf("Songs() = %+v, want [%+v]", songs, want)
	}
}

func TestClient_Recommend(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var req models.RecommendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if req.SongName != "Lag Jaa Gale" || req.NumRecommendations != 5 {
			t.Errorf("request = %+v", req)
		}
		_, _ = io.WriteString(w, `{"recommendations": [
			{"song_name": "Aap Ki Ankhon Mein Kuch", "singer": "Lata Mangeshkar", "released_date": "1972"},
			{"song_name": "Tere Bina Zindagi Se", "singer": "Lata Mangeshkar", "released_date": "1975"}
		]}`)
	})

	songs, err := c.Recommend(context.Background(), "Lag Jaa Gale", 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(songs) != 2 || songs[0].Title != "Aap Ki Ankhon Mein Kuch" || songs[1].ReleaseYear != "1975" {
		t.Errorf("Recommend() = %+v", songs)
	}
}

func TestClient_Recommend_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"error payload with 200", http.StatusOK, `{"error": "Song 'x' not found in dataset"}`, 0, "Song 'x' not found in dataset"},
		{"error payload with 404", http.StatusNotFound, `{"error": "Song 'x' not found in dataset"}`, http.StatusNotFound, "Song 'x' not found in dataset"},
		{"plain 500", http.StatusInternalServerError, `boom`, http.StatusInternalServerError, ""},
		{"garbage body", http.StatusOK, `not json`, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Recommend(context.Background(), "x", 5)
			if !errors.Is(err, models.ErrService) {
				t.Fatalf("Recommend() error = %v, want service error", err)
			}
			var statusErr *StatusError
			if tt.wantStatus != 0 && (!errors.As(err, &statusErr) || statusErr.Code != tt.wantStatus) {
				t.Errorf("expected status %d in %v", tt.wantStatus, err)
			}
			var payloadErr *PayloadError
			if tt.wantMsg != "" && (!errors.As(err, &payloadErr) || payloadErr.Message != tt.wantMsg) {
				t.Errorf("expected payload %q in %v", tt.wantMsg, err)
			}
		})
	}
}

func TestClient_RetriesTooManyRequests(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"song_name":"Lag Jaa Gale"`) {
			t.Errorf("retried body = %s", body)
		}
		_, _ = io.WriteString(w, `{"recommendations": []}`)
	})

	songs, err := c.Recommend(context.Background(), "Lag Jaa Gale", 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(songs) != 0 {
		t.Errorf("Recommend() = %+v, want empty", songs)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.DatasetInfo(ctx)
	if !errors.Is(err, models.ErrNetwork) {
		t.Fatalf("DatasetInfo() error = %v, want network error", err)
	}
}
