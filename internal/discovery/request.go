// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

// Package discovery owns the recommendation fetch lifecycle: assembling the
// collaborator request from standing preferences and session filters, running
// the fetch, and publishing results while discarding stale responses.
package discovery

import (
	"github.com/illusivesystems/recommendai/internal/models"
)

// BuildRequest assembles the collaborator request from an optional profile and
// optional session filters.
//
// A nil profile falls back to the built-in default. Filters are attached only
// when supplied, so the no-filter wire form carries exactly the profile fields.
func BuildRequest(profile *models.PreferenceProfile, criteria *models.FilterCriteria) models.RecommendationRequest {
	p := models.DefaultPreferenceProfile()
	if profile != nil {
		p = *profile
	}
	p.Normalize()

	req := models.RecommendationRequest{
		Genres:   p.Genres,
		Topics:   p.Topics,
		Freeform: p.Freeform,
	}

	if criteria != nil {
		c := *criteria
		req.Filters = &c
	}

	return req
}
