// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package inference

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/illusivesystems/recommendai/internal/config"
	"github.com/illusivesystems/recommendai/internal/models"
)

// ChatService is the outbound contract to the inference bridge that backs the
// assistant. Implemented by ChatClient for production use and by mocks in tests.
type ChatService interface {
	// Complete sends the full transcript (oldest first) and returns the
	// assistant's reply text.
	Complete(ctx context.Context, turns []models.ChatTurn) (string, error)

	// Ping verifies connectivity to the inference bridge.
	Ping(ctx context.Context) error
}

// chatRequest is the wire payload for the inference bridge.
type chatRequest struct {
	Messages    []models.ChatTurn `json:"messages"`
	Model       string            `json:"model"`
	Temperature float64           `json:"temperature"`
	MaxTokens   int               `json:"max_tokens"`
}

// chatResponse is the wire reply. A missing response field is a failure.
type chatResponse struct {
	Response *string `json:"response"`
}

// ChatClient handles communication with the inference bridge.
//
// An optional token-bucket limiter bounds the outbound call rate; zero
// requests-per-second in the config disables it.
//
// Thread Safety: Safe for concurrent use.
type ChatClient struct {
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
	limiter     *rate.Limiter
}

// NewChatClient creates an inference bridge client from configuration.
func NewChatClient(cfg *config.ChatConfig) *ChatClient {
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &ChatClient{
		baseURL:     strings.TrimRight(cfg.URL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: limiter,
	}
}

// Complete sends the transcript to the inference bridge and returns the reply.
func (c *ChatClient) Complete(ctx context.Context, turns []models.ChatTurn) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("chat rate limiter: %w", err)
		}
	}

	payload := chatRequest{
		Messages:    turns,
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := readBodyForError(resp.Body)
		return "", fmt.Errorf("chat request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var reply chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if reply.Response == nil {
		return "", fmt.Errorf("chat response missing response field")
	}

	return *reply.Response, nil
}

// Ping verifies connectivity to the inference bridge health endpoint.
func (c *ChatClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create ping request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to ping inference bridge: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference bridge ping failed with status: %d", resp.StatusCode)
	}

	return nil
}
