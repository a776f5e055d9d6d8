// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/songrec/internal/logging"
	"github.com/tomtom215/songrec/internal/models"
	"github.com/tomtom215/songrec/internal/view"
)

// ErrQueryLogDisabled is reported when the query log endpoints are hit with
// querylog.enabled=false.
var ErrQueryLogDisabled = errors.New("query log is disabled")

// ErrBackupsDisabled is reported by the backup endpoints when backups are off.
var ErrBackupsDisabled = errors.New("query log backups are disabled")

// statusForError maps a controller error to an HTTP status and error code.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, view.ErrSuperseded):
		return http.StatusConflict, ErrCodeSuperseded
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, ErrCodeValidationFailed
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, models.ErrService):
		return http.StatusBadGateway, ErrCodeExternalServiceFail
	case errors.Is(err, models.ErrNetwork),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, ErrQueryLogDisabled),
		errors.Is(err, ErrBackupsDisabled):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// writeControllerError writes err as an envelope. Not-found errors carry
// their close matches in details.did_you_mean.
func writeControllerError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusForError(err)

	var details interface{}
	var me *models.Error
	if errors.As(err, &me) && me.Kind == models.KindNotFound && len(me.Suggestions) > 0 {
		details = map[string]interface{}{"did_you_mean": me.Suggestions}
	}

	message := models.UserMessage(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Warn().Err(err).Int("status", status).Msg("Request failed")
		if code == ErrCodeInternalError {
			message = "An internal error occurred"
		}
	}

	NewResponseWriter(w, r).ErrorWithDetails(status, code, message, details)
}
