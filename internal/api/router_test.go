// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/illusivesystems/recommendai/internal/assistant"
	"github.com/illusivesystems/recommendai/internal/config"
	"github.com/illusivesystems/recommendai/internal/discovery"
	"github.com/illusivesystems/recommendai/internal/inference"
	"github.com/illusivesystems/recommendai/internal/models"
	"github.com/illusivesystems/recommendai/internal/prefs"
)

// stubRecommender serves fixed responses for handler tests.
type stubRecommender struct {
	set         *models.RecommendationSet
	fetchErr    error
	feedback    *inference.FeedbackResponse
	feedbackErr error
}

func (s *stubRecommender) FetchRecommendations(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationSet, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	if s.set != nil {
		return s.set, nil
	}
	set := models.EmptyRecommendationSet()
	return &set, nil
}

func (s *stubRecommender) SendFeedback(ctx context.Context, req inference.FeedbackRequest) (*inference.FeedbackResponse, error) {
	if s.feedbackErr != nil {
		return nil, s.feedbackErr
	}
	if s.feedback != nil {
		return s.feedback, nil
	}
	return &inference.FeedbackResponse{Success: true, Message: "ok"}, nil
}

// stubChat serves fixed chat replies and ping results.
type stubChat struct {
	reply   string
	err     error
	pingErr error
}

func (s *stubChat) Complete(ctx context.Context, turns []models.ChatTurn) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubChat) Ping(ctx context.Context) error {
	return s.pingErr
}

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitDisabled: true,
		},
	}
}

// testRouter assembles a full handler stack around the given stubs.
func testRouter(cfg *config.Config, rec *stubRecommender, chat *stubChat, store prefs.Store) http.Handler {
	if cfg == nil {
		cfg = testConfig()
	}
	if rec == nil {
		rec = &stubRecommender{}
	}
	if chat == nil {
		chat = &stubChat{reply: "ok"}
	}
	if store == nil {
		store = prefs.NewMemoryStore()
	}

	svc := discovery.NewService(rec, store)
	orch := assistant.NewOrchestrator(chat, false)

	return NewRouter(cfg, svc, orch, store, rec, chat).Handler()
}

// doJSON performs a request with an optional JSON body and returns the
// recorder.
func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeEnvelope unwraps the APIResponse envelope.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()

	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return resp
}

// dataMap returns the envelope data as a map for field assertions.
func dataMap(t *testing.T, resp models.APIResponse) map[string]interface{} {
	t.Helper()

	m, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("envelope data is %T, want object", resp.Data)
	}
	return m
}

func TestRouter_RoutesRespond(t *testing.T) {
	h := testRouter(nil, nil, nil, nil)

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{http.MethodGet, "/api/v1/recommendations", "", http.StatusOK},
		{http.MethodPost, "/api/v1/recommendations/refresh", "", http.StatusOK},
		{http.MethodGet, "/api/v1/filters", "", http.StatusOK},
		{http.MethodPatch, "/api/v1/filters", `{"contentType":"books"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/filters/reset", "", http.StatusOK},
		{http.MethodGet, "/api/v1/preferences", "", http.StatusOK},
		{http.MethodPost, "/api/v1/chat/conversations", "", http.StatusCreated},
		{http.MethodPost, "/api/v1/feedback", `{"contentId":"c1","isPositive":true}`, http.StatusOK},
		{http.MethodGet, "/api/v1/health", "", http.StatusOK},
		{http.MethodGet, "/api/v1/health/live", "", http.StatusOK},
		{http.MethodGet, "/api/v1/health/ready", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := doJSON(t, h, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %q)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRouter_SecurityHeaders(t *testing.T) {
	h := testRouter(nil, nil, nil, nil)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/filters", "")

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := rec.Header().Get("X-Request-ID"); got == "" {
		t.Error("X-Request-ID not set")
	}
	if got := rec.Header().Get("ETag"); got == "" {
		t.Error("ETag not set")
	}
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimitDisabled = false
	cfg.Security.RateLimitReqs = 2
	cfg.Security.RateLimitWindow = time.Minute

	h := testRouter(cfg, nil, nil, nil)

	for i := 0; i < 2; i++ {
		if rec := doJSON(t, h, http.MethodGet, "/api/v1/filters", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i+1, rec.Code)
		}
	}

	rec := doJSON(t, h, http.MethodGet, "/api/v1/filters", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}

	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("error = %+v, want RATE_LIMIT_EXCEEDED", resp.Error)
	}
}

func TestRouter_HealthExemptFromAPILimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimitDisabled = false
	cfg.Security.RateLimitReqs = 1
	cfg.Security.RateLimitWindow = time.Minute

	h := testRouter(cfg, nil, nil, nil)

	// Exhaust the API group limit.
	doJSON(t, h, http.MethodGet, "/api/v1/filters", "")
	if rec := doJSON(t, h, http.MethodGet, "/api/v1/filters", ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("API limit not enforced: %d", rec.Code)
	}

	// Health uses its own permissive bucket.
	if rec := doJSON(t, h, http.MethodGet, "/api/v1/health/live", ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
}
