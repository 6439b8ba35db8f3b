// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package models

// PreferenceProfile is the user's standing interest model: genre and topic
// label sets plus a free-text description. The label slices behave as ordered
// sets: toggling a label that is already present removes it.
type PreferenceProfile struct {
	Genres   []string `json:"genres"`
	Topics   []string `json:"topics"`
	Freeform string   `json:"freeform"`
}

// DefaultPreferenceProfile returns the built-in profile used whenever no
// profile has been persisted yet.
func DefaultPreferenceProfile() PreferenceProfile {
	return PreferenceProfile{
		Genres:   []string{"Fiction", "Science Fiction", "Technology"},
		Topics:   []string{"Artificial Intelligence", "Space Exploration"},
		Freeform: "I enjoy content about AI, machine learning, and technology innovations.",
	}
}

// ToggleGenre adds the label if absent and removes it if present.
func (p *PreferenceProfile) ToggleGenre(label string) {
	p.Genres = toggleLabel(p.Genres, label)
}

// ToggleTopic adds the label if absent and removes it if present.
func (p *PreferenceProfile) ToggleTopic(label string) {
	p.Topics = toggleLabel(p.Topics, label)
}

// Normalize removes duplicate genre and topic labels, keeping first
// occurrences in order. Profiles built through toggling never contain
// duplicates; this guards profiles supplied wholesale over the API.
func (p *PreferenceProfile) Normalize() {
	p.Genres = dedupeLabels(p.Genres)
	p.Topics = dedupeLabels(p.Topics)
}

func toggleLabel(labels []string, label string) []string {
	for i, l := range labels {
		if l == label {
			return append(labels[:i:i], labels[i+1:]...)
		}
	}
	return append(labels, label)
}

func dedupeLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := labels[:0:0]
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	if out == nil {
		return []string{}
	}
	return out
}
