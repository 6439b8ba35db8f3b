// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

// Package prefs persists the user's preference profile. The backing store is
// BadgerDB; a memory implementation exists for tests. A missing profile is not
// an error condition: callers fall back to the built-in default profile.
package prefs

import (
	"context"
	"errors"
	"sync"

	"github.com/illusivesystems/recommendai/internal/models"
)

// ErrProfileNotFound indicates no profile has been saved yet. Callers should
// treat this as "use the default profile", not as a failure.
var ErrProfileNotFound = errors.New("preference profile not found")

// Store loads and saves the preference profile.
type Store interface {
	// Load returns the saved profile, or ErrProfileNotFound if none exists.
	Load(ctx context.Context) (models.PreferenceProfile, error)

	// Save persists the profile, replacing any previous one.
	Save(ctx context.Context, profile models.PreferenceProfile) error

	// Close releases store resources.
	Close() error
}

// MemoryStore is an in-memory Store for tests and ephemeral deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	profile models.PreferenceProfile
	saved   bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the saved profile, or ErrProfileNotFound before the first Save.
func (s *MemoryStore) Load(ctx context.Context) (models.PreferenceProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.saved {
		return models.PreferenceProfile{}, ErrProfileNotFound
	}
	return s.profile, nil
}

// Save stores the profile.
func (s *MemoryStore) Save(ctx context.Context, profile models.PreferenceProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = profile
	s.saved = true
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
