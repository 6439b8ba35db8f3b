// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

// Package config defines the application configuration and its layered
// loading: struct defaults, an optional YAML file, then environment
// variables, with validation after unmarshal.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the root configuration for the RecommendAI backend.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Recommender RecommenderConfig `koanf:"recommender"`
	Chat        ChatConfig        `koanf:"chat"`
	Store       StoreConfig       `koanf:"store"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// RecommenderConfig holds settings for the recommendation collaborator.
// Generation is LLM-backed and slow, hence the generous default timeout.
type RecommenderConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// ChatConfig holds settings for the chat collaborator (the inference bridge).
type ChatConfig struct {
	URL         string        `koanf:"url"`
	Model       string        `koanf:"model"`
	Temperature float64       `koanf:"temperature"`
	MaxTokens   int           `koanf:"max_tokens"`
	Timeout     time.Duration `koanf:"timeout"`

	// FallbackEnabled switches collaborator failures from an error flag to
	// the canned offline assistant replies.
	FallbackEnabled bool `koanf:"fallback_enabled"`

	// RequestsPerSecond and Burst bound the outbound call rate to the
	// inference bridge. Zero RequestsPerSecond disables the limiter.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

// StoreConfig holds preference storage settings.
// An empty Path runs BadgerDB in memory (useful for development and tests).
type StoreConfig struct {
	Path string `koanf:"path"`
}

// SecurityConfig holds API protection settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that cannot work at runtime.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}

	if err := validateBaseURL("recommender.url", c.Recommender.URL); err != nil {
		return err
	}
	if err := validateBaseURL("chat.url", c.Chat.URL); err != nil {
		return err
	}

	if c.Recommender.Timeout <= 0 {
		return fmt.Errorf("recommender.timeout must be positive, got %s", c.Recommender.Timeout)
	}
	if c.Chat.Timeout <= 0 {
		return fmt.Errorf("chat.timeout must be positive, got %s", c.Chat.Timeout)
	}
	if c.Chat.Model == "" {
		return fmt.Errorf("chat.model must not be empty")
	}
	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		return fmt.Errorf("chat.temperature must be in [0, 2], got %g", c.Chat.Temperature)
	}
	if c.Chat.MaxTokens < 1 {
		return fmt.Errorf("chat.max_tokens must be at least 1, got %d", c.Chat.MaxTokens)
	}
	if c.Chat.RequestsPerSecond < 0 {
		return fmt.Errorf("chat.requests_per_second must not be negative, got %g", c.Chat.RequestsPerSecond)
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be at least 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}

	return nil
}

// validateBaseURL requires an absolute http(s) URL.
func validateBaseURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host", field)
	}
	return nil
}
