// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package api

import (
	"net/http"

	"github.com/tomtom215/songrec/internal/querylog"
)

// QueryLogs handles GET /api/v1/query-logs?limit=. Newest first; limit
// defaults to 100 and is capped at 1000.
func (h *Handler) QueryLogs(w http.ResponseWriter, r *http.Request) {
	if h.queryLog == nil {
		writeControllerError(w, r, ErrQueryLogDisabled)
		return
	}

	limit, err := intQueryParam(r, "limit", querylog.DefaultLimit)
	if err != nil {
		NewResponseWriter(w, r).ValidationError(err.Error(), map[string]string{"field": "limit"})
		return
	}
	if limit > querylog.MaxLimit {
		limit = querylog.MaxLimit
	}

	entries, err := h.queryLog.List(r.Context(), limit)
	if err != nil {
		NewResponseWriter(w, r).DatabaseError(err)
		return
	}
	total, err := h.queryLog.Count(r.Context())
	if err != nil {
		NewResponseWriter(w, r).DatabaseError(err)
		return
	}

	NewResponseWriter(w, r).SuccessWithPagination(entries, &PaginationMeta{
		Total:   int64(total),
		Count:   len(entries),
		Limit:   limit,
		HasMore: total > len(entries),
	})
}

// QueryLogBackups handles GET /api/v1/query-logs/backups, newest first.
func (h *Handler) QueryLogBackups(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		writeControllerError(w, r, ErrBackupsDisabled)
		return
	}
	backups, err := h.backups.List()
	if err != nil {
		NewResponseWriter(w, r).DatabaseError(err)
		return
	}
	NewResponseWriter(w, r).Success(backups)
}

// CreateQueryLogBackup handles POST /api/v1/query-logs/backups. It takes a
// backup now and applies the retention policy.
func (h *Handler) CreateQueryLogBackup(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		writeControllerError(w, r, ErrBackupsDisabled)
		return
	}
	b, err := h.backups.BackupNow(r.Context())
	if err != nil {
		NewResponseWriter(w, r).DatabaseError(err)
		return
	}
	NewResponseWriter(w, r).Success(b)
}
