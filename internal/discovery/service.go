// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package discovery

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/illusivesystems/recommendai/internal/inference"
	"github.com/illusivesystems/recommendai/internal/logging"
	"github.com/illusivesystems/recommendai/internal/metrics"
	"github.com/illusivesystems/recommendai/internal/models"
	"github.com/illusivesystems/recommendai/internal/prefs"
)

// ErrStaleResponse indicates a fetch completed after a newer one had already
// been issued; its result was discarded without touching published state.
var ErrStaleResponse = errors.New("recommendation response superseded by a newer request")

// fetchFailedMessage is the caller-facing message for every fetch failure.
// Transport, protocol and malformed-response failures are indistinguishable
// to callers.
const fetchFailedMessage = "Unable to fetch recommendations. Please try again later."

// State is the fetch lifecycle state.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateFailed  State = "failed"
)

// Snapshot is a point-in-time view of the discovery state, safe to hand to
// encoders after the service lock is released.
type Snapshot struct {
	State       State                    `json:"state"`
	Set         models.RecommendationSet `json:"recommendations"`
	Error       string                   `json:"error,omitempty"`
	Criteria    models.FilterCriteria    `json:"filters"`
	LastUpdated *time.Time               `json:"lastUpdated,omitempty"`
}

// Service orchestrates recommendation fetches. It owns the current
// recommendation set, the session filter criteria, and the fetch lifecycle.
//
// A monotonic sequence counter guards against stale-response clobbering:
// every fetch takes the next sequence number on issue, and only the fetch
// still holding the latest number may publish its result. Responses arriving
// after a newer fetch was issued are discarded.
type Service struct {
	recommender inference.Recommender
	store       prefs.Store

	mu          sync.Mutex
	seq         uint64
	criteria    models.FilterCriteria
	set         models.RecommendationSet
	state       State
	errMsg      string
	lastUpdated time.Time
}

// NewService creates a discovery service with default filter criteria and an
// empty recommendation set in the idle state.
func NewService(recommender inference.Recommender, store prefs.Store) *Service {
	return &Service{
		recommender: recommender,
		store:       store,
		criteria:    models.DefaultFilterCriteria(),
		set:         models.EmptyRecommendationSet(),
		state:       StateIdle,
	}
}

// Snapshot returns the current discovery state.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Criteria returns the current filter criteria.
func (s *Service) Criteria() models.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// Refresh runs one fetch cycle with the current criteria and returns the
// resulting state. If a newer fetch was issued while this one was in flight,
// the response is discarded and ErrStaleResponse is returned alongside the
// state the newer fetch published.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	s.seq++
	token := s.seq
	s.state = StateLoading
	criteria := s.criteria
	s.mu.Unlock()

	req := BuildRequest(s.loadProfile(ctx), &criteria)

	start := time.Now()
	set, fetchErr := s.recommender.FetchRecommendations(ctx, req)
	elapsed := time.Since(start)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.seq {
		metrics.RecordRecommendationFetch("stale_discarded", elapsed, 0)
		logging.Debug().
			Uint64("token", token).
			Uint64("latest", s.seq).
			Msg("Discarding stale recommendation response")
		return s.snapshotLocked(), ErrStaleResponse
	}

	if fetchErr != nil {
		s.state = StateFailed
		s.errMsg = fetchFailedMessage
		metrics.RecordRecommendationFetch("failure", elapsed, 0)
		logging.Error().
			Err(fetchErr).
			Dur("elapsed", elapsed).
			Msg("Recommendation fetch failed")
		return s.snapshotLocked(), nil
	}

	s.set = *set
	s.state = StateSuccess
	s.errMsg = ""
	s.lastUpdated = time.Now()
	metrics.RecordRecommendationFetch("success", elapsed, set.Total())
	logging.Info().
		Int("items", set.Total()).
		Dur("elapsed", elapsed).
		Msg("Recommendations updated")
	return s.snapshotLocked(), nil
}

// UpdateFilters merges the partial criteria onto the current state and
// immediately triggers a fetch with the merged criteria.
func (s *Service) UpdateFilters(ctx context.Context, patch models.FilterPatch) (Snapshot, error) {
	s.mu.Lock()
	s.criteria = patch.Apply(s.criteria)
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// ResetFilters restores the default criteria and triggers a fetch.
func (s *Service) ResetFilters(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	s.criteria = models.DefaultFilterCriteria()
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// loadProfile reads the persisted profile. A missing profile or a store
// failure degrades to the built-in default.
func (s *Service) loadProfile(ctx context.Context) *models.PreferenceProfile {
	profile, err := s.store.Load(ctx)
	if errors.Is(err, prefs.ErrProfileNotFound) {
		return nil
	}
	if err != nil {
		logging.Warn().Err(err).Msg("Profile load failed, using default profile")
		return nil
	}
	return &profile
}

func (s *Service) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:    s.state,
		Set:      s.set,
		Error:    s.errMsg,
		Criteria: s.criteria,
	}
	if !s.lastUpdated.IsZero() {
		t := s.lastUpdated
		snap.LastUpdated = &t
	}
	return snap
}
