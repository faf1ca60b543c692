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

// Recommendations handles GET /api/v1/recommendations.
// The result is ordered by relevance; zero-relevance events are absent.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	profile := middleware.ProfileFromContext(r.Context())

	if err := h.enforcer.Authorize(profile, authz.ResourceRecommendations, authz.ActionRead); err != nil {
		respondFault(w, r, err)
		return
	}

	k := queryInt(r, "k", 0)
	recs, err := h.engine.Recommend(r.Context(), profile, k)
	if err != nil {
		respondFault(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, recs, started)
}
