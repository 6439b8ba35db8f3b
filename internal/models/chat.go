// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package models

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation transcript.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatTurn is the minimal role/content shape the chat collaborator accepts.
// Transcripts are flattened to turns oldest-first before each round trip.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RecommendationRequest is the payload sent to the recommendation
// collaborator. Standing preferences are always present; session filter
// criteria ride along when a filter change triggered the fetch and are omitted
// entirely otherwise, which keeps the no-filter wire form identical to the
// plain profile payload.
type RecommendationRequest struct {
	Genres   []string        `json:"genres"`
	Topics   []string        `json:"topics"`
	Freeform string          `json:"freeform"`
	Filters  *FilterCriteria `json:"filters,omitempty"`
}
