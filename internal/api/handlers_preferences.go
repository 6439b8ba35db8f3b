// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package api

import (
	"errors"
	"net/http"

	"github.com/illusivesystems/recommendai/internal/models"
	"github.com/illusivesystems/recommendai/internal/prefs"
)

// preferencesPayload is the profile plus whether it came from storage or the
// built-in default.
type preferencesPayload struct {
	Profile models.PreferenceProfile `json:"profile"`
	Stored  bool                     `json:"stored"`
}

// putPreferencesRequest mirrors the profile with boundary limits on labels
// and the freeform text.
type putPreferencesRequest struct {
	Genres   []string `json:"genres" validate:"dive,min=1,max=100"`
	Topics   []string `json:"topics" validate:"dive,min=1,max=100"`
	Freeform string   `json:"freeform" validate:"max=2000"`
}

// toggleRequest carries the label to XOR into a preference set.
type toggleRequest struct {
	Label string `json:"label" validate:"required,min=1,max=100"`
}

// handleGetPreferences returns the stored profile, or the built-in default
// when nothing has been persisted yet.
func (rt *Router) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	profile, err := rt.store.Load(r.Context())
	if errors.Is(err, prefs.ErrProfileNotFound) {
		respondData(w, http.StatusOK, preferencesPayload{
			Profile: models.DefaultPreferenceProfile(),
			Stored:  false,
		})
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to load preferences", err)
		return
	}

	respondData(w, http.StatusOK, preferencesPayload{Profile: profile, Stored: true})
}

// handlePutPreferences replaces the profile wholesale. Label sets are
// deduplicated before persisting.
func (rt *Router) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	var req putPreferencesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if re := validateRequest(&req); re != nil {
		respondValidationError(w, re)
		return
	}

	profile := models.PreferenceProfile{
		Genres:   req.Genres,
		Topics:   req.Topics,
		Freeform: req.Freeform,
	}
	profile.Normalize()

	if err := rt.store.Save(r.Context(), profile); err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to save preferences", err)
		return
	}

	respondData(w, http.StatusOK, preferencesPayload{Profile: profile, Stored: true})
}

// handleToggleGenre adds the label to the genre set if absent, removes it if
// present, and persists the result.
func (rt *Router) handleToggleGenre(w http.ResponseWriter, r *http.Request) {
	rt.toggleLabel(w, r, func(p *models.PreferenceProfile, label string) {
		p.ToggleGenre(label)
	})
}

// handleToggleTopic is the topic-set counterpart of handleToggleGenre.
func (rt *Router) handleToggleTopic(w http.ResponseWriter, r *http.Request) {
	rt.toggleLabel(w, r, func(p *models.PreferenceProfile, label string) {
		p.ToggleTopic(label)
	})
}

// toggleLabel loads the profile (defaulting when none is stored), applies the
// toggle, and persists the result.
func (rt *Router) toggleLabel(w http.ResponseWriter, r *http.Request, toggle func(*models.PreferenceProfile, string)) {
	var req toggleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if re := validateRequest(&req); re != nil {
		respondValidationError(w, re)
		return
	}

	profile, err := rt.store.Load(r.Context())
	if errors.Is(err, prefs.ErrProfileNotFound) {
		profile = models.DefaultPreferenceProfile()
	} else if err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to load preferences", err)
		return
	}

	toggle(&profile, req.Label)

	if err := rt.store.Save(r.Context(), profile); err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to save preferences", err)
		return
	}

	respondData(w, http.StatusOK, preferencesPayload{Profile: profile, Stored: true})
}
