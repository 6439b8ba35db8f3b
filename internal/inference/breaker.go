// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package inference

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/illusivesystems/recommendai/internal/logging"
	"github.com/illusivesystems/recommendai/internal/metrics"
	"github.com/illusivesystems/recommendai/internal/models"
)

// Circuit breaker configuration shared by both collaborator wrappers:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
//
// DETERMINISM NOTE: The circuit breaker uses real time (via sony/gobreaker)
// for its interval and timeout calculations. Tests should mock the underlying
// client, not the breaker.

// breaker wraps a named gobreaker instance with metric and log plumbing.
type breaker struct {
	cb   *gobreaker.CircuitBreaker[interface{}]
	name string
}

func newBreaker(name string) *breaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false // Need at least 10 requests for statistical significance
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().
				Str("breaker", name).
				Str("from", fromStr).
				Str("to", toStr).
				Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &breaker{cb: cb, name: name}
}

// execute wraps a collaborator call with circuit breaker protection.
func (b *breaker) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Err(err).Str("breaker", b.name).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// castResult safely type-casts the circuit breaker result with error checking
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// BreakerRecommender wraps a Recommender with circuit breaker protection.
type BreakerRecommender struct {
	inner   Recommender
	breaker *breaker
}

// NewBreakerRecommender wraps the given Recommender.
func NewBreakerRecommender(inner Recommender) *BreakerRecommender {
	return &BreakerRecommender{
		inner:   inner,
		breaker: newBreaker("recommender"),
	}
}

// FetchRecommendations fetches recommendations with circuit breaker protection.
func (r *BreakerRecommender) FetchRecommendations(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationSet, error) {
	return castResult[models.RecommendationSet](r.breaker.execute(func() (interface{}, error) {
		return r.inner.FetchRecommendations(ctx, req)
	}))
}

// SendFeedback forwards feedback with circuit breaker protection.
func (r *BreakerRecommender) SendFeedback(ctx context.Context, req FeedbackRequest) (*FeedbackResponse, error) {
	return castResult[FeedbackResponse](r.breaker.execute(func() (interface{}, error) {
		return r.inner.SendFeedback(ctx, req)
	}))
}

// BreakerChat wraps a ChatService with circuit breaker protection.
type BreakerChat struct {
	inner   ChatService
	breaker *breaker
}

// NewBreakerChat wraps the given ChatService.
func NewBreakerChat(inner ChatService) *BreakerChat {
	return &BreakerChat{
		inner:   inner,
		breaker: newBreaker("inference"),
	}
}

// Complete runs a chat round trip with circuit breaker protection.
func (c *BreakerChat) Complete(ctx context.Context, turns []models.ChatTurn) (string, error) {
	result, err := c.breaker.execute(func() (interface{}, error) {
		return c.inner.Complete(ctx, turns)
	})
	if err != nil {
		return "", err
	}
	reply, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return reply, nil
}

// Ping probes connectivity with circuit breaker protection.
func (c *BreakerChat) Ping(ctx context.Context) error {
	_, err := c.breaker.execute(func() (interface{}, error) {
		return nil, c.inner.Ping(ctx)
	})
	return err
}
