// RecommendAI - Personalized Content Discovery Backend
// Copyright 2026 Illusive Systems
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/illusivesystems/recommendai

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/illusivesystems/recommendai/internal/api"
	"github.com/illusivesystems/recommendai/internal/assistant"
	"github.com/illusivesystems/recommendai/internal/config"
	"github.com/illusivesystems/recommendai/internal/discovery"
	"github.com/illusivesystems/recommendai/internal/inference"
	"github.com/illusivesystems/recommendai/internal/logging"
	"github.com/illusivesystems/recommendai/internal/metrics"
	"github.com/illusivesystems/recommendai/internal/prefs"
	"github.com/illusivesystems/recommendai/internal/supervisor"
	"github.com/illusivesystems/recommendai/internal/supervisor/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("recommender_url", cfg.Recommender.URL).
		Str("chat_url", cfg.Chat.URL).
		Str("store_path", cfg.Store.Path).
		Msg("Starting RecommendAI backend")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
	startTime := time.Now()

	store, err := prefs.OpenBadger(cfg.Store.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open preference store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing preference store")
		}
	}()

	// Circuit breakers wrap both collaborators so a flapping upstream is cut
	// off instead of hammered.
	recommender := inference.NewBreakerRecommender(inference.NewRecommenderClient(&cfg.Recommender))
	chat := inference.NewBreakerChat(inference.NewChatClient(&cfg.Chat))

	svc := discovery.NewService(recommender, store)
	orch := assistant.NewOrchestrator(chat, cfg.Chat.FallbackEnabled)

	router := api.NewRouter(cfg, svc, orch, store, recommender, chat)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(slog.Default(), supervisor.DefaultTreeConfig())
	tree.AddDiscoveryService(services.NewWarmupService(svc))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	go trackUptime(ctx, startTime)

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, s := range unstopped {
		logging.Warn().Str("service", s.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// trackUptime updates the uptime gauge once per minute.
func trackUptime(ctx context.Context, start time.Time) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.AppUptime.Set(time.Since(start).Seconds())
		}
	}
}
