// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

// Package models defines the shared data model: content items and
// recommendation sets, preference profiles, filter criteria, chat transcript
// entries, and the API response envelope. Types here carry wire tags for both
// the inbound dashboard API and the outbound collaborator contracts; they hold
// no behavior beyond set semantics (preference toggling) and patch merging.
package models
