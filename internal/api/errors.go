// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/campusunite/engine/internal/faults"
	"github.com/campusunite/engine/internal/logging"
	"github.com/campusunite/engine/internal/models"
)

// respondFault maps an engine fault to its HTTP status and error code.
// Caller faults pass through without logging; anything else is logged
// with full context and surfaced as a generic internal error so storage
// detail never leaks to the caller.
func respondFault(w http.ResponseWriter, r *http.Request, err error) {
	if !faults.IsCallerFault(err) {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Msg("Unclassified failure")
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred", nil)
		return
	}

	var (
		validation *faults.ValidationError
		notFound   *faults.NotFoundError
		forbidden  *faults.ForbiddenError
		transition *faults.InvalidTransitionError
	)

	switch {
	case errors.As(err, &validation):
		details := make(map[string]interface{}, len(validation.Violations))
		for field, msg := range validation.Violations {
			details[field] = msg
		}
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)

	case errors.As(err, &notFound):
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", notFound.Error(), nil)

	case errors.As(err, &forbidden):
		respondError(w, r, http.StatusForbidden, "FORBIDDEN", forbidden.Error(), nil)

	case errors.As(err, &transition):
		respondError(w, r, http.StatusConflict, "INVALID_TRANSITION", transition.Error(), nil)

	case errors.Is(err, faults.ErrCapacityExceeded):
		respondError(w, r, http.StatusConflict, "CAPACITY_EXCEEDED", "the event is at capacity", nil)

	case errors.Is(err, faults.ErrConflict):
		respondError(w, r, http.StatusConflict, "CONFLICT", "a concurrent update won the race, retry the request", nil)

	default:
		// Unreachable while IsCallerFault mirrors the cases above.
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred", nil)
	}
}

// respondError sends an error response with the given code and message.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}) {
	respondJSON(w, r, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
