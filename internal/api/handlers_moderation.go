// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campusunite/engine/internal/authz"
	"github.com/campusunite/engine/internal/bus"
	"github.com/campusunite/engine/internal/middleware"
)

// ApproveEvent handles POST /api/v1/events/{id}/approve.
func (h *Handler) ApproveEvent(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	profile := middleware.ProfileFromContext(r.Context())

	if err := h.enforcer.Authorize(profile, authz.ResourceEvents, authz.ActionModerate); err != nil {
		respondFault(w, r, err)
		return
	}

	eventID := chi.URLParam(r, "id")
	record, err := h.workflow.Approve(r.Context(), eventID, profile)
	if err != nil {
		respondFault(w, r, err)
		return
	}

	if event, err := h.store.Get(r.Context(), eventID); err == nil {
		h.bus.PublishEvent(r.Context(), bus.TopicEventApproved, event, profile.ID, "")
	}
	respondData(w, r, http.StatusOK, record, started)
}

// denyRequest carries the optional free-text reason for a denial.
type denyRequest struct {
	Reason string `json:"reason"`
}

// DenyEvent handles POST /api/v1/events/{id}/deny. The body is
// optional; when present it may carry a reason stored verbatim.
func (h *Handler) DenyEvent(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	profile := middleware.ProfileFromContext(r.Context())

	if err := h.enforcer.Authorize(profile, authz.ResourceEvents, authz.ActionModerate); err != nil {
		respondFault(w, r, err)
		return
	}

	var req denyRequest
	if r.ContentLength > 0 {
		if err := decodeBody(w, r, &req); err != nil {
			respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "request body is not valid JSON", nil)
			return
		}
	}

	eventID := chi.URLParam(r, "id")
	record, err := h.workflow.Deny(r.Context(), eventID, req.Reason, profile)
	if err != nil {
		respondFault(w, r, err)
		return
	}

	if event, err := h.store.Get(r.Context(), eventID); err == nil {
		h.bus.PublishEvent(r.Context(), bus.TopicEventDenied, event, profile.ID, req.Reason)
	}
	respondData(w, r, http.StatusOK, record, started)
}

// ModerationHistory handles GET /api/v1/events/{id}/moderation.
func (h *Handler) ModerationHistory(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	profile := middleware.ProfileFromContext(r.Context())

	if err := h.enforcer.Authorize(profile, authz.ResourceModeration, authz.ActionRead); err != nil {
		respondFault(w, r, err)
		return
	}

	records, err := h.workflow.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondFault(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, records, started)
}
