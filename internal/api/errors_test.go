// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/songrec/internal/models"
	"github.com/tomtom215/songrec/internal/view"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", models.NewValidationError("op", "bad"), http.StatusBadRequest, ErrCodeValidationFailed},
		{"not found", models.NewNotFoundError("op", "missing", nil), http.StatusNotFound, ErrCodeNotFound},
		{"service", models.NewServiceError("op", "500", nil), http.StatusBadGateway, ErrCodeExternalServiceFail},
		{"network", models.NewNetworkError("op", errors.New("refused")), http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"wrapped network", fmt.Errorf("fetch: %w", models.NewNetworkError("op", errors.New("refused"))), http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"superseded", view.ErrSuperseded, http.StatusConflict, ErrCodeSuperseded},
		{"canceled", context.Canceled, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"backups disabled", ErrBackupsDisabled, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := statusForError(tt.err)
			if status != tt.wantStatus || code != tt.wantCode {
				t.Errorf("statusForError() = %d %s, want %d %s", status, code, tt.wantStatus, tt.wantCode)
			}
		})
	}
}

func TestWriteControllerError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeControllerError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("sql: connection refused on 10.0.0.3"))

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Message != "An internal error occurred" {
		t.Errorf("message leaked: %q", resp.Error.Message)
	}
}

func TestResponseWriter_Success(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, httptest.NewRequest(http.MethodGet, "/", nil), map[string]int{"n": 1})

	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
		Error   *APIError      `json:"error"`
		Meta    *APIMeta       `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Data["n"] != 1 || resp.Error != nil || resp.Meta == nil {
		t.Errorf("unexpected envelope: %+v", resp)
	}
}
