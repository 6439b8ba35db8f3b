// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

// Package supervisor builds the suture supervision tree for the backend.
//
// Services live in the services subpackage and implement suture.Service.
// The tree isolates background discovery work from the HTTP layer so a
// crashing warmup fetch cannot take the API down with it.
package supervisor
