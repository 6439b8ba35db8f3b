// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package discovery

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/illusivesystems/recommendai/internal/inference"
	"github.com/illusivesystems/recommendai/internal/models"
	"github.com/illusivesystems/recommendai/internal/prefs"
)

// mockRecommender drives fetch outcomes per call number.
type mockRecommender struct {
	calls int32
	fetch func(call int, req models.RecommendationRequest) (*models.RecommendationSet, error)
}

func (m *mockRecommender) FetchRecommendations(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationSet, error) {
	call := int(atomic.AddInt32(&m.calls, 1))
	return m.fetch(call, req)
}

func (m *mockRecommender) SendFeedback(ctx context.Context, req inference.FeedbackRequest) (*inference.FeedbackResponse, error) {
	return &inference.FeedbackResponse{Success: true}, nil
}

func setWithArticle(title string) *models.RecommendationSet {
	return &models.RecommendationSet{
		Articles: []models.ContentItem{{ID: "a1", Title: title, Type: models.ContentTypeArticle}},
		Books:    []models.ContentItem{},
		Videos:   []models.ContentItem{},
	}
}

func TestBuildRequest(t *testing.T) {
	profile := models.PreferenceProfile{
		Genres:   []string{"Mystery", "Mystery", "History"},
		Topics:   []string{"Archaeology"},
		Freeform: "ancient history",
	}
	criteria := models.DefaultFilterCriteria()

	tests := []struct {
		name        string
		profile     *models.PreferenceProfile
		criteria    *models.FilterCriteria
		wantGenres  []string
		wantFilters bool
	}{
		{
			name:        "nil profile uses default",
			profile:     nil,
			criteria:    nil,
			wantGenres:  []string{"Fiction", "Science Fiction", "Technology"},
			wantFilters: false,
		},
		{
			name:        "profile deduplicated",
			profile:     &profile,
			criteria:    nil,
			wantGenres:  []string{"Mystery", "History"},
			wantFilters: false,
		},
		{
			name:        "criteria attached when supplied",
			profile:     &profile,
			criteria:    &criteria,
			wantGenres:  []string{"Mystery", "History"},
			wantFilters: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := BuildRequest(tt.profile, tt.criteria)

			if !reflect.DeepEqual(req.Genres, tt.wantGenres) {
				t.Errorf("genres = %v, want %v", req.Genres, tt.wantGenres)
			}
			if (req.Filters != nil) != tt.wantFilters {
				t.Errorf("filters present = %v, want %v", req.Filters != nil, tt.wantFilters)
			}
			if tt.wantFilters && *req.Filters != criteria {
				t.Errorf("filters = %+v, want %+v", *req.Filters, criteria)
			}
		})
	}
}

func TestRefresh_SuccessReplacesSet(t *testing.T) {
	rec := &mockRecommender{fetch: func(call int, req models.RecommendationRequest) (*models.RecommendationSet, error) {
		return setWithArticle("Future of AI"), nil
	}}
	svc := NewService(rec, prefs.NewMemoryStore())

	snap, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if snap.State != StateSuccess {
		t.Errorf("state = %s, want success", snap.State)
	}
	if snap.Error != "" {
		t.Errorf("error = %q, want empty", snap.Error)
	}
	if len(snap.Set.Articles) != 1 || snap.Set.Articles[0].Title != "Future of AI" {
		t.Errorf("articles = %+v", snap.Set.Articles)
	}
	if snap.LastUpdated == nil {
		t.Error("lastUpdated not set after success")
	}
}

func TestRefresh_FailurePreservesPreviousSet(t *testing.T) {
	rec := &mockRecommender{fetch: func(call int, req models.RecommendationRequest) (*models.RecommendationSet, error) {
		if call == 1 {
			return setWithArticle("Future of AI"), nil
		}
		return nil, errors.New("upstream exploded")
	}}
	svc := NewService(rec, prefs.NewMemoryStore())
	ctx := context.Background()

	first, err := svc.Refresh(ctx)
	if err != nil {
		t.Fatalf("first Refresh: %v", err)
	}

	second, err := svc.Refresh(ctx)
	if err != nil {
		t.Fatalf("second Refresh: %v", err)
	}

	if second.State != StateFailed {
		t.Errorf("state = %s, want failed", second.State)
	}
	if second.Error != fetchFailedMessage {
		t.Errorf("error = %q, want %q", second.Error, fetchFailedMessage)
	}
	if !reflect.DeepEqual(second.Set, first.Set) {
		t.Errorf("failed fetch altered the published set: %+v", second.Set)
	}
}

func TestRefresh_FailureThenSuccessClearsError(t *testing.T) {
	rec := &mockRecommender{fetch: func(call int, req models.RecommendationRequest) (*models.RecommendationSet, error) {
		if call == 1 {
			return nil, errors.New("timeout")
		}
		return setWithArticle("Recovered"), nil
	}}
	svc := NewService(rec, prefs.NewMemoryStore())
	ctx := context.Background()

	if snap, _ := svc.Refresh(ctx); snap.State != StateFailed {
		t.Fatalf("first refresh state = %s, want failed", snap.State)
	}

	snap, err := svc.Refresh(ctx)
	if err != nil {
		t.Fatalf("second Refresh: %v", err)
	}
	if snap.State != StateSuccess || snap.Error != "" {
		t.Errorf("state = %s, error = %q; want success with no error", snap.State, snap.Error)
	}
}

func TestRefresh_StaleResponseDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	rec := &mockRecommender{fetch: func(call int, req models.RecommendationRequest) (*models.RecommendationSet, error) {
		if call == 1 {
			close(started)
			<-release
			return setWithArticle("Slow and stale"), nil
		}
		return setWithArticle("Fresh"), nil
	}}
	svc := NewService(rec, prefs.NewMemoryStore())
	ctx := context.Background()

	type result struct {
		snap Snapshot
		err  error
	}
	firstDone := make(chan result, 1)
	go func() {
		snap, err := svc.Refresh(ctx)
		firstDone <- result{snap, err}
	}()

	<-started

	// A newer fetch completes while the first is still in flight.
	second, err := svc.Refresh(ctx)
	if err != nil {
		t.Fatalf("second Refresh: %v", err)
	}
	if second.Set.Articles[0].Title != "Fresh" {
		t.Fatalf("second refresh published %q", second.Set.Articles[0].Title)
	}

	close(release)
	first := <-firstDone

	if !errors.Is(first.err, ErrStaleResponse) {
		t.Errorf("first refresh error = %v, want ErrStaleResponse", first.err)
	}

	final := svc.Snapshot()
	if final.Set.Articles[0].Title != "Fresh" {
		t.Errorf("stale response clobbered the set: %q", final.Set.Articles[0].Title)
	}
	if final.State != StateSuccess {
		t.Errorf("state = %s, want success", final.State)
	}
}

func TestUpdateFilters_MergesAndFetches(t *testing.T) {
	var gotFilters *models.FilterCriteria
	rec := &mockRecommender{fetch: func(call int, req models.RecommendationRequest) (*models.RecommendationSet, error) {
		gotFilters = req.Filters
		return setWithArticle("x"), nil
	}}
	svc := NewService(rec, prefs.NewMemoryStore())

	contentType := "books"
	maxReading := 45
	snap, err := svc.UpdateFilters(context.Background(), models.FilterPatch{
		ContentType:    &contentType,
		MaxReadingTime: &maxReading,
	})
	if err != nil {
		t.Fatalf("UpdateFilters: %v", err)
	}

	want := models.DefaultFilterCriteria()
	want.ContentType = "books"
	want.MaxReadingTime = 45

	if snap.Criteria != want {
		t.Errorf("merged criteria = %+v, want %+v", snap.Criteria, want)
	}
	if gotFilters == nil || *gotFilters != want {
		t.Errorf("fetch used criteria %+v, want %+v", gotFilters, want)
	}
}

func TestResetFilters(t *testing.T) {
	rec := &mockRecommender{fetch: func(call int, req models.RecommendationRequest) (*models.RecommendationSet, error) {
		return setWithArticle("x"), nil
	}}
	svc := NewService(rec, prefs.NewMemoryStore())
	ctx := context.Background()

	contentType := "videos"
	if _, err := svc.UpdateFilters(ctx, models.FilterPatch{ContentType: &contentType}); err != nil {
		t.Fatalf("UpdateFilters: %v", err)
	}

	snap, err := svc.ResetFilters(ctx)
	if err != nil {
		t.Fatalf("ResetFilters: %v", err)
	}
	if snap.Criteria != models.DefaultFilterCriteria() {
		t.Errorf("criteria after reset = %+v", snap.Criteria)
	}
}

func TestRefresh_UsesStoredProfile(t *testing.T) {
	store := prefs.NewMemoryStore()
	stored := models.PreferenceProfile{
		Genres:   []string{"Horror"},
		Topics:   []string{"Folklore"},
		Freeform: "gothic fiction",
	}
	if err := store.Save(context.Background(), stored); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var gotReq models.RecommendationRequest
	rec := &mockRecommender{fetch: func(call int, req models.RecommendationRequest) (*models.RecommendationSet, error) {
		gotReq = req
		return setWithArticle("x"), nil
	}}
	svc := NewService(rec, store)

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if !reflect.DeepEqual(gotReq.Genres, []string{"Horror"}) {
		t.Errorf("genres = %v, want stored profile genres", gotReq.Genres)
	}
	if gotReq.Freeform != "gothic fiction" {
		t.Errorf("freeform = %q", gotReq.Freeform)
	}
}

func TestSnapshot_InitialState(t *testing.T) {
	svc := NewService(&mockRecommender{}, prefs.NewMemoryStore())

	snap := svc.Snapshot()
	if snap.State != StateIdle {
		t.Errorf("initial state = %s, want idle", snap.State)
	}
	if snap.Set.Articles == nil || snap.Set.Books == nil || snap.Set.Videos == nil {
		t.Error("initial set should have non-nil empty slices")
	}
	if snap.Criteria != models.DefaultFilterCriteria() {
		t.Errorf("initial criteria = %+v", snap.Criteria)
	}
	if snap.LastUpdated != nil {
		t.Error("lastUpdated should be nil before any fetch")
	}
}
