// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package models

import (
	"time"
)

// APIResponse is the standardized response wrapper used by all HTTP endpoints.
// It provides a consistent structure for both successful and error responses.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "maxReadingTime must be greater than or equal to minReadingTime"
//	  },
//	  "metadata": {"timestamp": "2026-08-31T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response metadata for observability.
// UpstreamTimeMS records how long the inference collaborator round trip took
// when the request triggered one; it is 0 for purely local operations.
type Metadata struct {
	Timestamp      time.Time `json:"timestamp"`
	UpstreamTimeMS int64     `json:"upstream_time_ms,omitempty"`
}

// APIError is a structured error payload.
//
// Common codes:
//   - VALIDATION_ERROR: invalid input parameters
//   - UPSTREAM_ERROR: the inference collaborator failed or returned garbage
//   - NOT_FOUND: resource doesn't exist
//   - STORE_ERROR: preference storage failure
//   - RATE_LIMIT_EXCEEDED: too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
