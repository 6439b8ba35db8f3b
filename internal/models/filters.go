// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package models

// FilterCriteria is the transient, session-only query refinement applied on
// top of the standing preference profile. Criteria are always complete: a
// partial update (FilterPatch) merges onto the previous complete state, so no
// field is ever left unset after initialization. Criteria are never persisted.
//
// The validate tags form the closed boundary schema: unknown enum values and
// out-of-range reading-time bounds are rejected with a typed validation error
// before the criteria reach the fetch pipeline.
type FilterCriteria struct {
	ContentType    string `json:"contentType" validate:"oneof=all articles books videos"`
	MinReadingTime int    `json:"minReadingTime" validate:"min=0,max=600"`
	MaxReadingTime int    `json:"maxReadingTime" validate:"min=0,max=600,gtefield=MinReadingTime"`
	IncludePopular bool   `json:"includePopular"`
	SortBy         string `json:"sortBy" validate:"oneof=relevance date popularity readingTime"`
	Difficulty     string `json:"difficulty" validate:"oneof=all beginner intermediate advanced"`
}

// DefaultFilterCriteria returns the fixed session-start criteria.
func DefaultFilterCriteria() FilterCriteria {
	return FilterCriteria{
		ContentType:    "all",
		MinReadingTime: 5,
		MaxReadingTime: 30,
		IncludePopular: true,
		SortBy:         "relevance",
		Difficulty:     "all",
	}
}

// FilterPatch is a partial criteria update. Nil fields retain the prior value;
// non-nil fields overwrite it (a shallow merge).
type FilterPatch struct {
	ContentType    *string `json:"contentType,omitempty" validate:"omitempty,oneof=all articles books videos"`
	MinReadingTime *int    `json:"minReadingTime,omitempty" validate:"omitempty,min=0,max=600"`
	MaxReadingTime *int    `json:"maxReadingTime,omitempty" validate:"omitempty,min=0,max=600"`
	IncludePopular *bool   `json:"includePopular,omitempty"`
	SortBy         *string `json:"sortBy,omitempty" validate:"omitempty,oneof=relevance date popularity readingTime"`
	Difficulty     *string `json:"difficulty,omitempty" validate:"omitempty,oneof=all beginner intermediate advanced"`
}

// Apply merges the patch onto base and returns the resulting complete
// criteria. Base is not modified.
func (p FilterPatch) Apply(base FilterCriteria) FilterCriteria {
	merged := base
	if p.ContentType != nil {
		merged.ContentType = *p.ContentType
	}
	if p.MinReadingTime != nil {
		merged.MinReadingTime = *p.MinReadingTime
	}
	if p.MaxReadingTime != nil {
		merged.MaxReadingTime = *p.MaxReadingTime
	}
	if p.IncludePopular != nil {
		merged.IncludePopular = *p.IncludePopular
	}
	if p.SortBy != nil {
		merged.SortBy = *p.SortBy
	}
	if p.Difficulty != nil {
		merged.Difficulty = *p.Difficulty
	}
	return merged
}

// IsEmpty reports whether the patch carries no fields at all.
func (p FilterPatch) IsEmpty() bool {
	return p.ContentType == nil && p.MinReadingTime == nil && p.MaxReadingTime == nil &&
		p.IncludePopular == nil && p.SortBy == nil && p.Difficulty == nil
}
