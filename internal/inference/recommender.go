// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

/*
recommender.go - Recommendation Collaborator Client

HTTP client for the recommendation engine collaborator. The collaborator
generates content suggestions from the user's standing preferences and
optional session filters, and accepts relevance feedback on individual items.

Client Features:
  - Configurable timeout (generation is LLM-backed and slow)
  - JSON request/response via goccy/go-json
  - Context support for cancellation
  - Bounded error-body reads for diagnostics

Related Files:
  - chat.go: inference bridge client for the assistant
  - breaker.go: circuit breaker wrappers for both clients
*/
package inference

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/illusivesystems/recommendai/internal/config"
	"github.com/illusivesystems/recommendai/internal/models"
)

// maxErrorBodySize limits the maximum amount of response body read for error reporting
// This prevents unbounded memory allocation when reading large error responses
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads the response body for error reporting (max 64KB)
// Returns the body content or a placeholder message if reading fails
func readBodyForError(r io.Reader) []byte {
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// FeedbackRequest is the relevance feedback payload for a single content item.
type FeedbackRequest struct {
	ContentID  string `json:"contentId" validate:"required"`
	IsPositive bool   `json:"isPositive"`
}

// FeedbackResponse is the collaborator's acknowledgement of feedback.
type FeedbackResponse struct {
	Success  bool                   `json:"success"`
	Message  string                 `json:"message"`
	Analysis map[string]interface{} `json:"analysis,omitempty"`
}

// Recommender is the outbound contract to the recommendation collaborator.
// Implemented by RecommenderClient for production use and by mocks in tests.
type Recommender interface {
	// FetchRecommendations requests a full recommendation set. A response
	// missing any of the three content arrays is an error.
	FetchRecommendations(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationSet, error)

	// SendFeedback forwards relevance feedback for one item.
	SendFeedback(ctx context.Context, req FeedbackRequest) (*FeedbackResponse, error)
}

// RecommenderClient handles communication with the recommendation collaborator.
//
// Thread Safety: Safe for concurrent use. Each request creates its own HTTP request.
type RecommenderClient struct {
	baseURL string
	client  *http.Client
}

// NewRecommenderClient creates a recommendation collaborator client.
func NewRecommenderClient(cfg *config.RecommenderConfig) *RecommenderClient {
	return &RecommenderClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// wireRecommendationSet decodes the collaborator response with pointer slices
// so that a missing array is distinguishable from an empty one.
type wireRecommendationSet struct {
	Articles *[]models.ContentItem `json:"articles"`
	Books    *[]models.ContentItem `json:"books"`
	Videos   *[]models.ContentItem `json:"videos"`
}

// FetchRecommendations requests recommendations for the given profile and
// optional filters.
func (c *RecommenderClient) FetchRecommendations(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationSet, error) {
	body, err := c.postJSON(ctx, "/api/recommendations", req)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var wire wireRecommendationSet
	if err := json.NewDecoder(body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations response: %w", err)
	}

	switch {
	case wire.Articles == nil:
		return nil, fmt.Errorf("recommendations response missing articles array")
	case wire.Books == nil:
		return nil, fmt.Errorf("recommendations response missing books array")
	case wire.Videos == nil:
		return nil, fmt.Errorf("recommendations response missing videos array")
	}

	return &models.RecommendationSet{
		Articles: *wire.Articles,
		Books:    *wire.Books,
		Videos:   *wire.Videos,
	}, nil
}

// SendFeedback forwards relevance feedback to the collaborator.
func (c *RecommenderClient) SendFeedback(ctx context.Context, req FeedbackRequest) (*FeedbackResponse, error) {
	body, err := c.postJSON(ctx, "/api/feedback", req)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp FeedbackResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode feedback response: %w", err)
	}

	return &resp, nil
}

// postJSON performs a JSON POST and returns the response body on 2xx.
// The caller must close the returned body.
func (c *RecommenderClient) postJSON(ctx context.Context, path string, payload interface{}) (io.ReadCloser, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := readBodyForError(resp.Body)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s request failed with status %d: %s", path, resp.StatusCode, string(body))
	}

	return resp.Body, nil
}
