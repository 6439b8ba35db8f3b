// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/illusivesystems/recommendai/internal/assistant"
)

// sendMessageRequest carries one user input for a conversation.
type sendMessageRequest struct {
	Message string `json:"message"`
}

// handleCreateConversation opens a conversation seeded with the assistant
// greeting.
func (rt *Router) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusCreated, rt.assistant.Create())
}

// handleGetConversation returns a conversation transcript and its flags.
func (rt *Router) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")

	snap, err := rt.assistant.Get(id)
	if errors.Is(err, assistant.ErrConversationNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Conversation not found", nil)
		return
	}

	respondData(w, http.StatusOK, snap)
}

// handleSendMessage runs one chat round trip. Input that is empty after
// trimming is a silent no-op: the unchanged transcript comes back with 200.
func (rt *Router) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")

	var req sendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	start := time.Now()

	snap, err := rt.assistant.Send(r.Context(), id, req.Message)
	switch {
	case errors.Is(err, assistant.ErrConversationNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Conversation not found", nil)
		return
	case errors.Is(err, assistant.ErrEmptyMessage):
		respondData(w, http.StatusOK, snap)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "UPSTREAM_ERROR", "Chat round trip failed", err)
		return
	}

	respondDataUpstream(w, http.StatusOK, snap, time.Since(start))
}
