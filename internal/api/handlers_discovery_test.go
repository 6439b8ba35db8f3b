// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/illusivesystems/recommendai/internal/models"
)

func setWithBook(title string) *models.RecommendationSet {
	return &models.RecommendationSet{
		Articles: []models.ContentItem{},
		Books:    []models.ContentItem{{ID: "b1", Title: title, Type: models.ContentTypeBook}},
		Videos:   []models.ContentItem{},
	}
}

func TestGetRecommendations_InitialState(t *testing.T) {
	h := testRouter(nil, nil, nil, nil)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/recommendations", "")
	data := dataMap(t, decodeEnvelope(t, rec))

	if data["state"] != "idle" {
		t.Errorf("state = %v, want idle", data["state"])
	}
	if _, ok := data["lastUpdated"]; ok {
		t.Error("lastUpdated present before any fetch")
	}
}

func TestRefreshRecommendations_Success(t *testing.T) {
	h := testRouter(nil, &stubRecommender{set: setWithBook("Dune")}, nil, nil)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/recommendations/refresh", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	data := dataMap(t, decodeEnvelope(t, rec))
	if data["state"] != "success" {
		t.Errorf("state = %v, want success", data["state"])
	}
	set, ok := data["recommendations"].(map[string]interface{})
	if !ok {
		t.Fatalf("recommendations = %T", data["recommendations"])
	}
	books, ok := set["books"].([]interface{})
	if !ok || len(books) != 1 {
		t.Fatalf("books = %v", set["books"])
	}
}

func TestRefreshRecommendations_FailureReportedInState(t *testing.T) {
	h := testRouter(nil, &stubRecommender{fetchErr: errors.New("boom")}, nil, nil)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/recommendations/refresh", "")

	// A failed fetch is state, not an HTTP failure: the snapshot carries the
	// user-facing message.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	data := dataMap(t, decodeEnvelope(t, rec))
	if data["state"] != "failed" {
		t.Errorf("state = %v, want failed", data["state"])
	}
	if data["error"] != "Unable to fetch recommendations. Please try again later." {
		t.Errorf("error = %v", data["error"])
	}
}

func TestPatchFilters_MergesAndRefetches(t *testing.T) {
	h := testRouter(nil, &stubRecommender{set: setWithBook("Dune")}, nil, nil)

	rec := doJSON(t, h, http.MethodPatch, "/api/v1/filters", `{"contentType":"books","maxReadingTime":45}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %q)", rec.Code, rec.Body.String())
	}

	data := dataMap(t, decodeEnvelope(t, rec))
	filters, ok := data["filters"].(map[string]interface{})
	if !ok {
		t.Fatalf("filters = %T", data["filters"])
	}
	if filters["contentType"] != "books" {
		t.Errorf("contentType = %v", filters["contentType"])
	}
	if filters["maxReadingTime"] != float64(45) {
		t.Errorf("maxReadingTime = %v", filters["maxReadingTime"])
	}
	// Unpatched fields keep their defaults.
	if filters["sortBy"] != "relevance" {
		t.Errorf("sortBy = %v", filters["sortBy"])
	}
}

func TestPatchFilters_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown content type", `{"contentType":"podcasts"}`},
		{"negative reading time", `{"minReadingTime":-5}`},
		{"max below current min", `{"maxReadingTime":2}`},
		{"unknown sort", `{"sortBy":"random"}`},
		{"malformed body", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testRouter(nil, nil, nil, nil)

			rec := doJSON(t, h, http.MethodPatch, "/api/v1/filters", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %q)", rec.Code, rec.Body.String())
			}
			resp := decodeEnvelope(t, rec)
			if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error = %+v", resp.Error)
			}
		})
	}
}

func TestResetFilters_RestoresDefaults(t *testing.T) {
	h := testRouter(nil, &stubRecommender{set: setWithBook("Dune")}, nil, nil)

	if rec := doJSON(t, h, http.MethodPatch, "/api/v1/filters", `{"contentType":"videos"}`); rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d", rec.Code)
	}

	rec := doJSON(t, h, http.MethodPost, "/api/v1/filters/reset", "")
	data := dataMap(t, decodeEnvelope(t, rec))
	filters := data["filters"].(map[string]interface{})

	if filters["contentType"] != "all" {
		t.Errorf("contentType after reset = %v, want all", filters["contentType"])
	}
	if filters["minReadingTime"] != float64(5) || filters["maxReadingTime"] != float64(30) {
		t.Errorf("reading time bounds = %v..%v, want 5..30", filters["minReadingTime"], filters["maxReadingTime"])
	}
}

func TestGetFilters_ReturnsBareCriteria(t *testing.T) {
	h := testRouter(nil, nil, nil, nil)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/filters", "")
	data := dataMap(t, decodeEnvelope(t, rec))

	if data["contentType"] != "all" {
		t.Errorf("contentType = %v, want all", data["contentType"])
	}
	if data["includePopular"] != true {
		t.Errorf("includePopular = %v, want true", data["includePopular"])
	}
}
