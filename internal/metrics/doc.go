// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package instruments the recommendation backend using the Prometheus client
library, exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - Recommendation fetches against the generation collaborator
  - Chat round trips against the inference bridge
  - Feedback relay outcomes
  - Preference store (BadgerDB) operations
  - Circuit breaker state transitions
  - Collaborator health probes

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Recommendation Metrics:
  - recommendation_fetches_total: Fetches by outcome (counter)
    Labels: status (success, failure, stale_discarded)
  - recommendation_fetch_duration_seconds: Fetch latency (histogram)
    Buckets sized for LLM generation: 0.25s to 120s
  - recommendation_items_returned: Items per successful fetch (histogram)

Chat Metrics:
  - chat_roundtrips_total: Chat exchanges by outcome (counter)
    Labels: status (success, failure, fallback)
  - chat_roundtrip_duration_seconds: Exchange latency (histogram)
  - chat_active_conversations: Open conversations (gauge)

Store Metrics:
  - preference_store_operations_total: Load/save outcomes (counter)
    Labels: operation, result (success, miss, error)
  - preference_store_operation_duration_seconds: Operation latency (histogram)
    Labels: operation

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests by result (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_state_transitions_total: Transitions (counter)
    Labels: name, from_state, to_state

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent use
from multiple goroutines. The Prometheus client library handles synchronization
internally.

# Cardinality Management

To prevent high cardinality issues:

  - Endpoint labels use chi route patterns, not raw paths
  - Outcome labels are limited to predefined constants
  - Conversation IDs and content IDs never appear as labels
*/
package metrics
