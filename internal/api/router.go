// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/illusivesystems/recommendai/internal/assistant"
	"github.com/illusivesystems/recommendai/internal/config"
	"github.com/illusivesystems/recommendai/internal/discovery"
	"github.com/illusivesystems/recommendai/internal/inference"
	"github.com/illusivesystems/recommendai/internal/metrics"
	"github.com/illusivesystems/recommendai/internal/middleware"
	"github.com/illusivesystems/recommendai/internal/prefs"
)

// healthRateLimitReqs is the permissive per-minute limit for health
// endpoints. Monitoring tools poll these frequently.
const healthRateLimitReqs = 1000

// Router wires the HTTP handlers to their collaborators.
type Router struct {
	cfg         *config.Config
	discovery   *discovery.Service
	assistant   *assistant.Orchestrator
	store       prefs.Store
	recommender inference.Recommender
	chat        inference.ChatService
}

// NewRouter creates the API router with all its dependencies injected.
func NewRouter(
	cfg *config.Config,
	svc *discovery.Service,
	orch *assistant.Orchestrator,
	store prefs.Store,
	recommender inference.Recommender,
	chat inference.ChatService,
) *Router {
	return &Router{
		cfg:         cfg,
		discovery:   svc,
		assistant:   orch,
		store:       store,
		recommender: recommender,
		chat:        chat,
	}
}

// Handler builds the chi route tree.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.cfg.Security.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}))
	r.Use(securityHeaders)
	r.Use(middleware.Compression)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Prometheus)

		api.Group(func(g chi.Router) {
			g.Use(rt.rateLimiter(rt.cfg.Security.RateLimitReqs, rt.cfg.Security.RateLimitWindow))

			g.Route("/recommendations", func(rr chi.Router) {
				rr.Get("/", rt.handleGetRecommendations)
				rr.Post("/refresh", rt.handleRefreshRecommendations)
			})

			g.Route("/filters", func(fr chi.Router) {
				fr.Get("/", rt.handleGetFilters)
				fr.Patch("/", rt.handlePatchFilters)
				fr.Post("/reset", rt.handleResetFilters)
			})

			g.Route("/preferences", func(pr chi.Router) {
				pr.Get("/", rt.handleGetPreferences)
				pr.Put("/", rt.handlePutPreferences)
				pr.Post("/genres/toggle", rt.handleToggleGenre)
				pr.Post("/topics/toggle", rt.handleToggleTopic)
			})

			g.Route("/chat/conversations", func(cr chi.Router) {
				cr.Post("/", rt.handleCreateConversation)
				cr.Get("/{conversationID}", rt.handleGetConversation)
				cr.Post("/{conversationID}/messages", rt.handleSendMessage)
			})

			g.Post("/feedback", rt.handleFeedback)
		})

		api.Route("/health", func(h chi.Router) {
			h.Use(rt.rateLimiter(healthRateLimitReqs, time.Minute))
			h.Get("/", rt.handleHealth)
			h.Get("/live", rt.handleLive)
			h.Get("/ready", rt.handleReady)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// rateLimiter returns an IP-keyed limiter, or a no-op when rate limiting is
// disabled in configuration.
func (rt *Router) rateLimiter(reqs int, window time.Duration) func(http.Handler) http.Handler {
	if rt.cfg.Security.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(reqs, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimitExceeded),
	)
}

// rateLimitExceeded responds with the envelope error and records the hit.
func rateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
	respondError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests", nil)
}

// securityHeaders adds baseline protection headers to every response.
// Content-Security-Policy is omitted since the API serves no HTML.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
