// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package api

import (
	"net/http"
	"time"

	"github.com/illusivesystems/recommendai/internal/inference"
	"github.com/illusivesystems/recommendai/internal/logging"
	"github.com/illusivesystems/recommendai/internal/metrics"
)

// feedbackDegradedMessage acknowledges feedback the collaborator never saw.
// Feedback is advisory; losing a signal must not surface as a user-facing
// failure.
const feedbackDegradedMessage = "Feedback recorded successfully"

// handleFeedback relays a thumbs-up or thumbs-down to the recommendation
// collaborator. Collaborator failure degrades to a positive acknowledgement.
func (rt *Router) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req inference.FeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if re := validateRequest(&req); re != nil {
		respondValidationError(w, re)
		return
	}

	start := time.Now()

	resp, err := rt.recommender.SendFeedback(r.Context(), req)
	if err != nil {
		metrics.RecordFeedback(req.IsPositive, false)
		logging.Warn().
			Err(err).
			Str("content_id", sanitizeLogValue(req.ContentID)).
			Msg("Feedback relay failed, acknowledging locally")

		respondData(w, http.StatusOK, &inference.FeedbackResponse{
			Success: true,
			Message: feedbackDegradedMessage,
		})
		return
	}

	metrics.RecordFeedback(req.IsPositive, true)
	respondDataUpstream(w, http.StatusOK, resp, time.Since(start))
}
