// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// ContentType classifies a recommendable unit.
type ContentType string

const (
	ContentTypeArticle ContentType = "article"
	ContentTypeBook    ContentType = "book"
	ContentTypeVideo   ContentType = "video"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeArticle, ContentTypeBook, ContentTypeVideo:
		return true
	default:
		return false
	}
}

// WireTime is a time.Time that tolerates the publication timestamp formats the
// recommendation collaborator emits: RFC3339 strings, bare date strings, and
// epoch seconds as either a JSON number or a numeric string.
type WireTime struct {
	time.Time
}

// UnmarshalJSON decodes the wire form into a time.Time.
func (w *WireTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		w.Time = time.Time{}
		return nil
	}

	// JSON number: epoch seconds
	if s[0] != '"' {
		epoch, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid publishedAt %q: %w", s, err)
		}
		w.Time = time.Unix(int64(epoch), 0).UTC()
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("invalid publishedAt %q: %w", s, err)
	}

	// Numeric string: epoch seconds
	if epoch, err := strconv.ParseInt(str, 10, 64); err == nil {
		w.Time = time.Unix(epoch, 0).UTC()
		return nil
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999", "2006-01-02"} {
		if t, err := time.Parse(layout, str); err == nil {
			w.Time = t
			return nil
		}
	}

	return fmt.Errorf("invalid publishedAt %q: unrecognized format", str)
}

// MarshalJSON encodes the timestamp as RFC3339.
func (w WireTime) MarshalJSON() ([]byte, error) {
	if w.Time.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(w.Time.Format(time.RFC3339))
}

// ContentItem is one recommendable unit of article, book, or video metadata.
//
// Items are created exclusively by decoding a collaborator response. They are
// never mutated after creation and are discarded wholesale on the next fetch;
// RelevanceScore is used only for display ordering.
type ContentItem struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Content        string      `json:"content"`
	ImageURL       string      `json:"imageUrl,omitempty"`
	URL            string      `json:"url"`
	Type           ContentType `json:"type"`
	Tags           []string    `json:"tags"`
	PublishedAt    WireTime    `json:"publishedAt"`
	Source         string      `json:"source"`
	RelevanceScore float64     `json:"relevanceScore"`
}

// RecommendationSet is the current rendered result: three ordered sequences of
// content items keyed by kind. The set is replaced wholesale on every
// successful fetch and never incrementally merged.
type RecommendationSet struct {
	Articles []ContentItem `json:"articles"`
	Books    []ContentItem `json:"books"`
	Videos   []ContentItem `json:"videos"`
}

// EmptyRecommendationSet returns a set with three empty (non-nil) sequences,
// the startup value before any fetch completes.
func EmptyRecommendationSet() RecommendationSet {
	return RecommendationSet{
		Articles: []ContentItem{},
		Books:    []ContentItem{},
		Videos:   []ContentItem{},
	}
}

// Total returns the number of items across all three sequences.
func (s RecommendationSet) Total() int {
	return len(s.Articles) + len(s.Books) + len(s.Videos)
}
