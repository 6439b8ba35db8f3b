// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

// Package api implements the HTTP surface of the RecommendAI backend.
//
// All endpoints respond with the models.APIResponse envelope. The router is
// built on chi with CORS, rate limiting, gzip compression, request ID
// propagation, and Prometheus instrumentation applied as middleware.
//
// Route groups:
//
//	/api/v1/recommendations  - current set, refresh
//	/api/v1/filters          - session criteria (get, patch, reset)
//	/api/v1/preferences      - standing profile (get, put, toggles)
//	/api/v1/chat             - conversations and messages
//	/api/v1/feedback         - content feedback relay
//	/api/v1/health           - liveness and readiness
//	/metrics                 - Prometheus exposition
package api
