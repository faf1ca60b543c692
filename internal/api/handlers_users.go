// Campus Unite - Campus Events Recommendation & Moderation Engine
// Copyright 2026 Campus Unite contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campusunite/engine

package api

import (
	"net/http"
	"time"

	"github.com/campusunite/engine/internal/authz"
	"github.com/campusunite/engine/internal/middleware"
)

// MyEvents handles GET /api/v1/users/me/events: the caller's
// organizing, attending, and bookmarked lists.
func (h *Handler) MyEvents(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	profile := middleware.ProfileFromContext(r.Context())

	if err := h.enforcer.Authorize(profile, authz.ResourceUsers, authz.ActionRead); err != nil {
		respondFault(w, r, err)
		return
	}

	events, err := h.store.UserEvents(r.Context(), profile.ID)
	if err != nil {
		respondFault(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, events, started)
}
