// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/campusunite/engine/internal/authz"
	"github.com/campusunite/engine/internal/bus"
	"github.com/campusunite/engine/internal/faults"
	"github.com/campusunite/engine/internal/middleware"
	"github.com/campusunite/engine/internal/models"
)

// CreateEvent handles POST /api/v1/events.
// The event enters the moderation queue in status pending.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	profile := middleware.ProfileFromContext(r.Context())

	if err := h.enforcer.Authorize(profile, authz.ResourceEvents, authz.ActionCreate); err != nil {
		respondFault(w, r, err)
		return
	}

	var draft models.EventDraft
	if err := decodeBody(w, r, &draft); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "request body is not valid JSON", nil)
		return
	}

	event, err := h.store.Create(r.Context(), &draft, profile)
	if err != nil {
		respondFault(w, r, err)
		return
	}

	h.bus.PublishEvent(r.Context(), bus.TopicEventCreated, event, profile.ID, "")
	respondData(w, r, http.StatusCreated, event, started)
}

// ListEvents handles GET /api/v1/events.
// Callers without the reviewer or admin role only ever see approved events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	profile := middleware.ProfileFromContext(r.Context())

	if err := h.enforcer.Authorize(profile, authz.ResourceEvents, authz.ActionRead); err != nil {
		respondFault(w, r, err)
		return
	}

	query := r.URL.Query()
	filter := models.ListFilter{
		Category:    query.Get("category"),
		Mode:        models.Mode(query.Get("mode")),
		City:        query.Get("city"),
		Status:      models.Status(query.Get("status")),
		OrganizerID: query.Get("organizer_id"),
		Offset:      queryInt(r, "offset", 0),
		Limit:       queryInt(r, "limit", 0),
	}

	events, err := h.store.List(r.Context(), filter, profile)
	if err != nil {
		respondFault(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, models.ListResult{
		Count:  len(events),
		Offset: filter.Offset,
		Items:  events,
	}, started)
}

// GetEvent handles GET /api/v1/events/{id}. The status gate that List
// enforces applies here too: a pending or denied event is visible only
// to its organizer and to reviewer/admin callers, and reads as NotFound
// for everyone else so the id leaks nothing.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	profile := middleware.ProfileFromContext(r.Context())

	if err := h.enforcer.Authorize(profile, authz.ResourceEvents, authz.ActionRead); err != nil {
		respondFault(w, r, err)
		return
	}

	eventID := chi.URLParam(r, "id")
	event, err := h.store.Get(r.Context(), eventID)
	if err != nil {
		respondFault(w, r, err)
		return
	}

	if event.Status != models.StatusApproved &&
		!profile.CanSeeAllStatuses() && event.OrganizerID != profile.ID {
		respondFault(w, r, faults.NotFound("event", eventID))
		return
	}

	respondData(w, r, http.StatusOK, event, started)
}

// UpdateEvent handles PATCH /api/v1/events/{id}.
// Status is not patchable: a request naming it is rejected outright so
// the moderation workflow stays the only status writer.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	profile := middleware.ProfileFromContext(r.Context())

	if err := h.enforcer.Authorize(profile, authz.ResourceEvents, authz.ActionUpdate); err != nil {
		respondFault(w, r, err)
		return
	}

	var raw map[string]json.RawMessage
	if err := decodeBody(w, r, &raw); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "request body is not valid JSON", nil)
		return
	}
	if _, ok := raw["status"]; ok {
		respondError(w, r, http.StatusForbidden, "FORBIDDEN",
			"status can only be changed through the moderation endpoints", nil)
		return
	}

	var patch models.EventPatch
	if data, err := json.Marshal(raw); err != nil {
		respondFault(w, r, err)
		return
	} else if err := json.Unmarshal(data, &patch); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "request body is not valid JSON", nil)
		return
	}

	event, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), &patch, profile)
	if err != nil {
		respondFault(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, event, started)
}

// DeleteEvent handles DELETE /api/v1/events/{id}.
// Bookmarks cascade; moderation history is retained.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	profile := middleware.ProfileFromContext(r.Context())

	if err := h.enforcer.Authorize(profile, authz.ResourceEvents, authz.ActionDelete); err != nil {
		respondFault(w, r, err)
		return
	}

	eventID := chi.URLParam(r, "id")
	event, err := h.store.Get(r.Context(), eventID)
	if err != nil {
		respondFault(w, r, err)
		return
	}

	if err := h.store.Delete(r.Context(), eventID, profile); err != nil {
		respondFault(w, r, err)
		return
	}

	h.bus.PublishEvent(r.Context(), bus.TopicEventDeleted, event, profile.ID, "")
	respondData(w, r, http.StatusOK, map[string]string{"id": eventID}, started)
}

// RSVP handles POST /api/v1/events/{id}/rsvp. The operation toggles:
// joining a full event fails with 409, leaving always succeeds.
func (h *Handler) RSVP(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	profile := middleware.ProfileFromContext(r.Context())

	if err := h.enforcer.Authorize(profile, authz.ResourceEvents, authz.ActionRSVP); err != nil {
		respondFault(w, r, err)
		return
	}

	eventID := chi.URLParam(r, "id")
	joined, err := h.store.RSVP(r.Context(), eventID, profile.ID)
	if err != nil {
		respondFault(w, r, err)
		return
	}

	if joined {
		if event, err := h.store.Get(r.Context(), eventID); err == nil {
			h.bus.PublishEvent(r.Context(), bus.TopicEventRSVP, event, profile.ID, "joined")
		}
	}
	respondData(w, r, http.StatusOK, map[string]interface{}{
		"event_id": eventID,
		"joined":   joined,
	}, started)
}

// AddBookmark handles PUT /api/v1/events/{id}/bookmark. Idempotent.
func (h *Handler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	profile := middleware.ProfileFromContext(r.Context())

	if err := h.enforcer.Authorize(profile, authz.ResourceEvents, authz.ActionBookmark); err != nil {
		respondFault(w, r, err)
		return
	}

	eventID := chi.URLParam(r, "id")
	if err := h.store.Bookmark(r.Context(), eventID, profile.ID); err != nil {
		respondFault(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, map[string]string{"event_id": eventID}, started)
}

// RemoveBookmark handles DELETE /api/v1/events/{id}/bookmark. Idempotent.
func (h *Handler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	profile := middleware.ProfileFromContext(r.Context())

	if err := h.enforcer.Authorize(profile, authz.ResourceEvents, authz.ActionBookmark); err != nil {
		respondFault(w, r, err)
		return
	}

	eventID := chi.URLParam(r, "id")
	if err := h.store.Unbookmark(r.Context(), eventID, profile.ID); err != nil {
		respondFault(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, map[string]string{"event_id": eventID}, started)
}
