// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

// Package backend talks to the remote recommender service.
//
// The service is an external collaborator exposing three endpoints under a
// base URL (default http://localhost:5000/api):
//
//	GET  /dataset-info  liveness check and song count
//	GET  /songs         full catalog
//	POST /recommend     {song_name, num_recommendations}
//
// Client does the HTTP work. CircuitBreakerClient wraps it so a dead service
// is detected quickly and stops being called until the breaker half-opens.
// Every failure is returned as a *models.Error of kind Network (transport) or
// Service (non-OK status, error payload, undecodable body).
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/songrec/internal/config"
	"github.com/tomtom215/songrec/internal/models"
)

// maxErrorBodySize limits how much of a failed response is read for diagnostics.
const maxErrorBodySize = 64 * 1024

// StatusError is a non-OK HTTP answer.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// PayloadError is an {"error": "..."} answer from the service.
type PayloadError struct {
	Message string
}

func (e *PayloadError) Error() string {
	return "recommender reported: " + e.Message
}

// Client is a plain HTTP client for the remote recommender.
type Client struct {
	baseURL        string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a client from the recommender configuration.
func NewClient(cfg *config.RecommenderConfig) *Client {
	burst := int(cfg.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		maxRetries:     2,
		retryBaseDelay: 500 * time.Millisecond,
	}
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DatasetInfo fetches /dataset-info. A body without success=true is a service error.
func (c *Client) DatasetInfo(ctx context.Context) (*models.DatasetInfo, error) {
	var info models.DatasetInfo
	if err := c.getJSON(ctx, "dataset-info", "/dataset-info", &info); err != nil {
		return nil, err
	}
	if info.Error != "" {
		return nil, models.NewServiceError("dataset-info", "recommender dataset unavailable", &PayloadError{Message: info.Error})
	}
	if !info.Success {
		return nil, models.NewServiceError("dataset-info", "recommender dataset unavailable", &PayloadError{Message: "success=false"})
	}
	return &info, nil
}

// Songs fetches the remote catalog from /songs.
func (c *Client) Songs(ctx context.Context) ([]models.Song, error) {
	var resp models.SongsResponse
	if err := c.getJSON(ctx, "songs", "/songs", &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" || !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "success=false"
		}
		return nil, models.NewServiceError("songs", "recommender catalog unavailable", &PayloadError{Message: msg})
	}
	return resp.Songs, nil
}

// Recommend posts a title to /recommend and returns the service's ordered list.
func (c *Client) Recommend(ctx context.Context, title string, count int) ([]models.Song, error) {
	body, err := json.Marshal(models.RecommendRequest{SongName: title, NumRecommendations: count})
	if err != nil {
		return nil, fmt.Errorf("encode recommend request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/recommend", body)
	if err != nil {
		return nil, models.NewNetworkError("recommend", err)
	}
	defer resp.Body.Close()

	var out models.RecommendResponse
	if resp.StatusCode != http.StatusOK {
		raw := readBodyForError(resp.Body)
		// The service sends {"error": "..."} with non-OK statuses too.
		if jerr := json.Unmarshal(raw, &out); jerr == nil && out.Error != "" {
			return nil, models.NewServiceError("recommend", "recommender rejected the request",
				errors.Join(&StatusError{Code: resp.StatusCode}, &PayloadError{Message: out.Error}))
		}
		return nil, models.NewServiceError("recommend", "recommender request failed",
			&StatusError{Code: resp.StatusCode, Body: string(raw)})
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, models.NewServiceError("recommend", "recommender answer unreadable", err)
	}
	if out.Error != "" {
		return nil, models.NewServiceError("recommend", "recommender rejected the request", &PayloadError{Message: out.Error})
	}
	return out.Recommendations, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, result interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return models.NewNetworkError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.NewServiceError(op, "recommender request failed",
			&StatusError{Code: resp.StatusCode, Body: string(readBodyForError(resp.Body))})
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return models.NewServiceError(op, "recommender answer unreadable", err)
	}
	return nil
}

// do sends one request, pacing through the limiter and retrying HTTP 429 with
// exponential backoff (honouring Retry-After in seconds).
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	reqURL := c.baseURL + path

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		var reader io.Reader = http.NoBody
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= c.maxRetries {
			return resp, nil
		}
		_ = resp.Body.Close()

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs >= 0 {
			delay = time.Duration(secs) * time.Second
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// readBodyForError reads at most maxErrorBodySize bytes of a failed response.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return bytes.TrimSpace(body)
}
