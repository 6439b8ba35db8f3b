// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

// Command server runs the RecommendAI backend: the HTTP API, the discovery
// warmup fetch, and the supervisor tree that keeps both alive.
//
// Configuration is layered: struct defaults, an optional config.yaml, then
// RECOMMENDAI_* environment variables. See internal/config for the schema.
package main
