// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/illusivesystems/recommendai/internal/metrics"
	"github.com/illusivesystems/recommendai/internal/prefs"
)

// healthProbeTimeout bounds the collaborator connectivity check so a hung
// inference bridge cannot stall health polling.
const healthProbeTimeout = 2 * time.Second

// healthPayload reports overall service health.
type healthPayload struct {
	Status             string    `json:"status"`
	InferenceConnected bool      `json:"inference_connected"`
	Timestamp          time.Time `json:"timestamp"`
}

// handleHealth reports service health including inference bridge
// connectivity. Always 200: a disconnected bridge degrades the service, the
// fallbacks keep it serving.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	connected := rt.probeInference(r.Context())

	status := "healthy"
	if !connected {
		status = "degraded"
	}

	respondData(w, http.StatusOK, healthPayload{
		Status:             status,
		InferenceConnected: connected,
		Timestamp:          time.Now(),
	})
}

// handleLive reports process liveness only.
func (rt *Router) handleLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleReady reports readiness to serve. The preference store must be
// reachable; inference connectivity is reported but not required, since
// every inference-backed operation has a degraded path.
func (rt *Router) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := rt.store.Load(r.Context()); err != nil && !errors.Is(err, prefs.ErrProfileNotFound) {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "Preference store unavailable", err)
		return
	}

	respondData(w, http.StatusOK, healthPayload{
		Status:             "ready",
		InferenceConnected: rt.probeInference(r.Context()),
		Timestamp:          time.Now(),
	})
}

// probeInference pings the inference bridge with a short timeout and updates
// the collaborator gauge.
func (rt *Router) probeInference(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	err := rt.chat.Ping(probeCtx)
	metrics.SetCollaboratorUp("inference", err == nil)
	return err == nil
}
