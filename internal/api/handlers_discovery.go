// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/illusivesystems/recommendai/internal/discovery"
	"github.com/illusivesystems/recommendai/internal/models"
)

// handleGetRecommendations returns the current recommendation snapshot
// without triggering a fetch.
func (rt *Router) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, rt.discovery.Snapshot())
}

// handleRefreshRecommendations triggers a fetch with the current criteria.
// A fetch superseded by a newer one still responds with the latest published
// state; the discarded result is not an API-level failure.
func (rt *Router) handleRefreshRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	snap, err := rt.discovery.Refresh(r.Context())
	if err != nil && !errors.Is(err, discovery.ErrStaleResponse) {
		respondError(w, http.StatusInternalServerError, "UPSTREAM_ERROR", "Recommendation refresh failed", err)
		return
	}

	respondDataUpstream(w, http.StatusOK, snap, time.Since(start))
}

// handleGetFilters returns the current session filter criteria.
func (rt *Router) handleGetFilters(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, rt.discovery.Criteria())
}

// handlePatchFilters applies a partial criteria update. The patch is merged
// onto the current criteria and the merged result must pass the full schema,
// so cross-field constraints hold even when only one bound changes.
func (rt *Router) handlePatchFilters(w http.ResponseWriter, r *http.Request) {
	var patch models.FilterPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	merged := patch.Apply(rt.discovery.Criteria())
	if re := validateRequest(&merged); re != nil {
		respondValidationError(w, re)
		return
	}

	start := time.Now()

	snap, err := rt.discovery.UpdateFilters(r.Context(), patch)
	if err != nil && !errors.Is(err, discovery.ErrStaleResponse) {
		respondError(w, http.StatusInternalServerError, "UPSTREAM_ERROR", "Recommendation refresh failed", err)
		return
	}

	respondDataUpstream(w, http.StatusOK, snap, time.Since(start))
}

// handleResetFilters restores the default criteria and triggers a fetch.
func (rt *Router) handleResetFilters(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	snap, err := rt.discovery.ResetFilters(r.Context())
	if err != nil && !errors.Is(err, discovery.ErrStaleResponse) {
		respondError(w, http.StatusInternalServerError, "UPSTREAM_ERROR", "Recommendation refresh failed", err)
		return
	}

	respondDataUpstream(w, http.StatusOK, snap, time.Since(start))
}
