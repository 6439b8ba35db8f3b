// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package prefs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/illusivesystems/recommendai/internal/logging"
	"github.com/illusivesystems/recommendai/internal/metrics"
	"github.com/illusivesystems/recommendai/internal/models"
)

// profileKey is the single key holding the JSON-serialized profile.
const profileKey = "prefs:profile"

// BadgerStore implements Store using BadgerDB for durable storage.
// This is suitable for production use with persistence across restarts.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens a BadgerDB-backed store at path. An empty path runs Badger
// in memory, which loses state on restart but needs no filesystem access.
func OpenBadger(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open preference store: %w", err)
	}

	logging.Info().
		Str("component", "prefs").
		Str("path", path).
		Bool("in_memory", path == "").
		Msg("Preference store opened")

	return &BadgerStore{db: db}, nil
}

// NewBadgerStore wraps an already-open BadgerDB handle.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Load returns the saved profile, or ErrProfileNotFound if none exists.
func (s *BadgerStore) Load(ctx context.Context) (models.PreferenceProfile, error) {
	start := time.Now()
	var profile models.PreferenceProfile

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(profileKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})

	switch {
	case errors.Is(err, ErrProfileNotFound):
		metrics.RecordStoreOperation("load", "miss", time.Since(start))
		return models.PreferenceProfile{}, ErrProfileNotFound
	case err != nil:
		metrics.RecordStoreOperation("load", "error", time.Since(start))
		return models.PreferenceProfile{}, err
	}

	metrics.RecordStoreOperation("load", "success", time.Since(start))
	return profile, nil
}

// Save persists the profile, replacing any previous one.
func (s *BadgerStore) Save(ctx context.Context, profile models.PreferenceProfile) error {
	start := time.Now()

	data, err := json.Marshal(profile)
	if err != nil {
		metrics.RecordStoreOperation("save", "error", time.Since(start))
		return fmt.Errorf("marshal profile: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(profileKey), data)
	})
	if err != nil {
		metrics.RecordStoreOperation("save", "error", time.Since(start))
		return fmt.Errorf("save profile: %w", err)
	}

	metrics.RecordStoreOperation("save", "success", time.Since(start))
	return nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
