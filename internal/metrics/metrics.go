// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Recommendation fetches against the generation collaborator
// - Chat round trips against the inference bridge
// - Preference store operations (BadgerDB)
// - Circuit breaker state

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Fetch Metrics
	RecommendationFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_fetches_total",
			Help: "Total number of recommendation fetches",
		},
		[]string{"status"}, // "success", "failure", "stale_discarded"
	)

	RecommendationFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_fetch_duration_seconds",
			Help:    "Duration of recommendation fetches in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}, // LLM generation can take minutes
		},
	)

	RecommendationItemsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_items_returned",
			Help:    "Number of content items returned per fetch",
			Buckets: []float64{0, 1, 3, 5, 10, 15, 25, 50},
		},
	)

	// Chat Metrics
	ChatRoundTrips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_roundtrips_total",
			Help: "Total number of chat round trips",
		},
		[]string{"status"}, // "success", "failure", "fallback"
	)

	ChatRoundTripDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_roundtrip_duration_seconds",
			Help:    "Duration of chat round trips in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	ChatActiveConversations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_active_conversations",
			Help: "Current number of open chat conversations",
		},
	)

	// Feedback Metrics
	FeedbackSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_submissions_total",
			Help: "Total number of feedback submissions",
		},
		[]string{"sentiment", "relayed"}, // sentiment: "positive", "negative"
	)

	// Preference Store Metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preference_store_operations_total",
			Help: "Total number of preference store operations",
		},
		[]string{"operation", "result"}, // operation: "load", "save"; result: "success", "miss", "error"
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "preference_store_operation_duration_seconds",
			Help:    "Duration of preference store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Collaborator Health Metrics
	CollaboratorUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "collaborator_up",
			Help: "Whether the collaborator responded to the last health probe (1=up, 0=down)",
		},
		[]string{"name"}, // "recommender", "inference"
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendationFetch records one fetch against the recommender,
// including fetches whose responses were discarded as stale.
func RecordRecommendationFetch(status string, duration time.Duration, itemsReturned int) {
	RecommendationFetches.WithLabelValues(status).Inc()
	RecommendationFetchDuration.Observe(duration.Seconds())
	if status == "success" {
		RecommendationItemsReturned.Observe(float64(itemsReturned))
	}
}

// RecordChatRoundTrip records a chat exchange with the inference bridge
func RecordChatRoundTrip(status string, duration time.Duration) {
	ChatRoundTrips.WithLabelValues(status).Inc()
	ChatRoundTripDuration.Observe(duration.Seconds())
}

// RecordFeedback records a feedback submission and whether the relay to the
// collaborator succeeded.
func RecordFeedback(positive, relayed bool) {
	sentiment := "positive"
	if !positive {
		sentiment = "negative"
	}
	relayedStr := "true"
	if !relayed {
		relayedStr = "false"
	}
	FeedbackSubmissions.WithLabelValues(sentiment, relayedStr).Inc()
}

// RecordStoreOperation records a preference store load or save
func RecordStoreOperation(operation, result string, duration time.Duration) {
	StoreOperations.WithLabelValues(operation, result).Inc()
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetCollaboratorUp records the outcome of a collaborator health probe
func SetCollaboratorUp(name string, up bool) {
	val := 0.0
	if up {
		val = 1.0
	}
	CollaboratorUp.WithLabelValues(name).Set(val)
}
