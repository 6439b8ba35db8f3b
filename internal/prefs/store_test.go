// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package prefs

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/illusivesystems/recommendai/internal/models"
)

// storeUnderTest lets every Store implementation share one test suite.
func storeUnderTest(t *testing.T, name string) Store {
	t.Helper()

	switch name {
	case "memory":
		return NewMemoryStore()
	case "badger":
		s, err := OpenBadger("")
		if err != nil {
			t.Fatalf("open in-memory badger: %v", err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	default:
		t.Fatalf("unknown store %q", name)
		return nil
	}
}

func TestStore_LoadBeforeSave(t *testing.T) {
	for _, name := range []string{"memory", "badger"} {
		t.Run(name, func(t *testing.T) {
			store := storeUnderTest(t, name)

			_, err := store.Load(context.Background())
			if !errors.Is(err, ErrProfileNotFound) {
				t.Errorf("Load on empty store = %v, want ErrProfileNotFound", err)
			}
		})
	}
}

func TestStore_SaveThenLoad(t *testing.T) {
	profile := models.PreferenceProfile{
		Genres:   []string{"Fiction", "History"},
		Topics:   []string{"Space Exploration"},
		Freeform: "long-form journalism",
	}

	for _, name := range []string{"memory", "badger"} {
		t.Run(name, func(t *testing.T) {
			store := storeUnderTest(t, name)
			ctx := context.Background()

			if err := store.Save(ctx, profile); err != nil {
				t.Fatalf("Save: %v", err)
			}

			got, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !reflect.DeepEqual(got, profile) {
				t.Errorf("Load = %+v, want %+v", got, profile)
			}
		})
	}
}

func TestStore_SaveReplaces(t *testing.T) {
	for _, name := range []string{"memory", "badger"} {
		t.Run(name, func(t *testing.T) {
			store := storeUnderTest(t, name)
			ctx := context.Background()

			first := models.DefaultPreferenceProfile()
			if err := store.Save(ctx, first); err != nil {
				t.Fatalf("Save: %v", err)
			}

			second := models.PreferenceProfile{
				Genres:   []string{"Mystery"},
				Topics:   []string{},
				Freeform: "",
			}
			if err := store.Save(ctx, second); err != nil {
				t.Fatalf("Save: %v", err)
			}

			got, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(got.Genres) != 1 || got.Genres[0] != "Mystery" {
				t.Errorf("second save did not replace first: %+v", got)
			}
		})
	}
}

func TestBadgerStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenBadger(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	profile := models.DefaultPreferenceProfile()
	if err := store.Save(context.Background(), profile); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenBadger(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load(context.Background())
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if !reflect.DeepEqual(got, profile) {
		t.Errorf("profile after reopen = %+v, want %+v", got, profile)
	}
}
