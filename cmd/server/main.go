// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

// Package main is the entry point for the Ladle server.
//
// Ladle suggests recipes from ingredients on hand, using a generative AI
// collaborator for the suggestions and a tiered key/value data layer to
// keep search sessions, navigation handoffs, and saved recipes flowing
// between the browser and the server.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and config file via Koanf v2
//  2. Data layer: Badger for saved recipes, Redis or in-process memory
//     for the session and navigation tiers
//  3. AI collaborator: Gemini client wrapped in a circuit breaker
//  4. Domain components: search session, handoff manager, saved-recipes
//     registry, identity provider
//  5. HTTP server: chi router with the REST API and Prometheus metrics
//  6. Supervisor tree: suture-managed services with restart backoff
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (LADLE_ prefix, e.g. LADLE_SERVER_PORT)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// The Gemini API key is the only required setting:
//
//	export LADLE_GEMINI_API_KEY=your-api-key
//	./ladle
//
// Optional Redis backing for the ephemeral tiers (recommended when
// running more than one instance):
//
//	export LADLE_REDIS_ENABLED=true
//	export LADLE_REDIS_ADDR=localhost:6379
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, waits for in-flight requests up to the
// configured timeout, and closes the storage tiers.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ladle-app/ladle/internal/api"
	"github.com/ladle-app/ladle/internal/config"
	"github.com/ladle-app/ladle/internal/handoff"
	"github.com/ladle-app/ladle/internal/identity"
	"github.com/ladle-app/ladle/internal/logging"
	"github.com/ladle-app/ladle/internal/saved"
	"github.com/ladle-app/ladle/internal/search"
	"github.com/ladle-app/ladle/internal/storage"
	"github.com/ladle-app/ladle/internal/suggest"
	"github.com/ladle-app/ladle/internal/supervisor"
	"github.com/ladle-app/ladle/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
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
		Str("addr", cfg.Addr()).
		Str("badger_path", cfg.Badger.Path).
		Bool("redis_enabled", cfg.Redis.Enabled).
		Msg("Starting Ladle")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage tiers: badger for saved recipes, redis or memory for the
	// session and navigation tiers.
	tiers, err := storage.NewTiers(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize storage tiers")
	}
	defer func() {
		if err := tiers.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing storage tiers")
		}
	}()

	// AI collaborator behind a circuit breaker so a failing upstream
	// degrades to fast AI_UNAVAILABLE responses instead of piling up
	// slow timeouts.
	gemini, err := suggest.NewGeminiClient(ctx, &cfg.Gemini)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create Gemini client")
	}
	defer func() {
		if err := gemini.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing Gemini client")
		}
	}()
	suggester := suggest.NewBreakerSuggester(gemini)
	logging.Info().Str("model", cfg.Gemini.Model).Msg("AI collaborator initialized")

	session := search.New(
		tiers.Session,
		suggester,
		storage.SizeGuard{Budget: cfg.Storage.SessionBudget, TruncateLimit: cfg.Storage.TruncateLimit},
		cfg.Storage.SessionTTL,
	)
	handoffs := handoff.NewManager(
		tiers.Nav,
		storage.SizeGuard{Budget: cfg.Storage.NavBudget, TruncateLimit: cfg.Storage.TruncateLimit},
		cfg.Storage.NavImageCeiling,
		cfg.Storage.URLValueLimit,
		cfg.Storage.NavTTL,
	)
	registry := saved.NewRegistry(
		tiers.Saved,
		storage.SizeGuard{Budget: cfg.Storage.DurableBudget, TruncateLimit: cfg.Storage.TruncateLimit},
	)
	ident := identity.NewProvider(cfg.Security)
	if cfg.Security.JWTSecret == "" {
		logging.Warn().Msg("JWT secret not configured, all callers are guests")
	}

	handler := api.NewHandler(session, handoffs, registry, ident, tiers)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Supervisor tree: data-layer maintenance services and the HTTP
	// server, restarted with backoff on failure.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	tree.AddDataService(services.NewSweeperService(tiers, 0))
	tree.AddDataService(services.NewBadgerGCService(tiers, cfg.Badger.GCInterval))
	if cfg.Redis.Enabled {
		tree.AddDataService(services.NewProbeService("nav", tiers.Nav, 0))
		tree.AddDataService(services.NewProbeService("session", tiers.Session, 0))
	}
	tree.AddAPIService(services.NewHTTPService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor closes the channel.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
