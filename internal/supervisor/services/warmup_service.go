// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package services

import (
	"context"

	"github.com/illusivesystems/recommendai/internal/discovery"
	"github.com/illusivesystems/recommendai/internal/logging"
)

// Refresher triggers one recommendation fetch cycle.
// Satisfied by *discovery.Service.
type Refresher interface {
	Refresh(ctx context.Context) (discovery.Snapshot, error)
}

// WarmupService performs the initial recommendation fetch at startup so the
// first dashboard request sees content instead of the idle state. It then
// stays resident until shutdown.
type WarmupService struct {
	refresher Refresher
	name      string
}

// NewWarmupService creates the startup fetch service.
func NewWarmupService(refresher Refresher) *WarmupService {
	return &WarmupService{
		refresher: refresher,
		name:      "discovery-warmup",
	}
}

// Serve implements suture.Service. A failed warmup fetch is recorded in the
// discovery state and not treated as a service failure, so the supervisor
// does not restart-loop against a down collaborator.
func (s *WarmupService) Serve(ctx context.Context) error {
	snap, err := s.refresher.Refresh(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Warmup fetch discarded")
	} else {
		logging.Info().
			Str("state", string(snap.State)).
			Int("items", snap.Set.Total()).
			Msg("Warmup fetch finished")
	}

	<-ctx.Done()
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logging.
func (s *WarmupService) String() string {
	return s.name
}
