// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

// Package middleware provides HTTP middleware shared by the API router:
// request ID propagation, Prometheus instrumentation, and gzip compression.
//
// All middleware use the standard func(http.Handler) http.Handler shape so
// they compose with chi's Use chain.
package middleware
