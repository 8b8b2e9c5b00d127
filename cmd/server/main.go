// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

// Package main is the entry point for the Syzygy server.
//
// Syzygy is a satellite telemetry security backend: it scores incoming
// telemetry against a trained baseline, streams samples and detections
// to WebSocket subscribers, runs red/blue attack simulations, and
// anchors detected anomalies on an external attestation ledger.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, YAML file, env)
//  2. Logging: zerolog with configured level and format
//  3. Scorer: Gaussian model from the parameter file, fail-open on error
//  4. Ledger: Chain gateway client, or a no-op when disabled
//  5. Event store: BadgerDB history of attested events
//  6. Hub, simulation engine, ingestion service
//  7. HTTP server under a suture supervisor tree
//
// Graceful shutdown on SIGINT and SIGTERM: the supervisor cancels its
// services, the HTTP server drains with a 10s timeout, the hub closes
// every subscriber, and the event store closes last.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/syzygy/internal/api"
	"github.com/tomtom215/syzygy/internal/config"
	"github.com/tomtom215/syzygy/internal/eventstore"
	"github.com/tomtom215/syzygy/internal/hub"
	"github.com/tomtom215/syzygy/internal/ingest"
	"github.com/tomtom215/syzygy/internal/ledger"
	"github.com/tomtom215/syzygy/internal/logging"
	"github.com/tomtom215/syzygy/internal/scorer"
	"github.com/tomtom215/syzygy/internal/simulation"
	"github.com/tomtom215/syzygy/internal/supervisor"
	"github.com/tomtom215/syzygy/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings.
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
		Bool("ledger_enabled", cfg.Ledger.Enabled).
		Str("model_path", cfg.Scorer.ModelPath).
		Float64("threshold", cfg.Scorer.Threshold).
		Msg("Starting Syzygy")

	// Scorer: a missing or corrupt model file fails open so telemetry
	// keeps flowing without anomaly alerts.
	var sc scorer.Scorer
	sc, err = scorer.NewFromFile(cfg.Scorer.ModelPath, cfg.Scorer.Threshold)
	if err != nil {
		logging.Warn().Err(err).Str("model_path", cfg.Scorer.ModelPath).
			Msg("Scorer model unavailable, running fail-open")
		sc = scorer.NewFailOpen(cfg.Scorer.Threshold)
	}

	// Ledger: chain gateway client, or a no-op when disabled.
	var lg ledger.Ledger
	if cfg.Ledger.Enabled {
		lg = ledger.NewChain(ledger.ChainConfig{
			GatewayURL:       cfg.Ledger.GatewayURL,
			Headers:          cfg.Ledger.Headers,
			Timeout:          cfg.Ledger.Timeout,
			RatePerSecond:    cfg.Ledger.RatePerSecond,
			BreakerThreshold: cfg.Ledger.BreakerThreshold,
			BreakerCooldown:  cfg.Ledger.BreakerCooldown,
		})
		logging.Info().Str("gateway_url", cfg.Ledger.GatewayURL).Msg("Attestation ledger enabled")
	} else {
		lg = ledger.NewNoop()
		logging.Info().Msg("Attestation ledger disabled, using no-op")
	}

	// Event store for attested-event history.
	store, err := eventstore.Open(eventstore.Config{
		Path:      cfg.Events.StorePath,
		InMemory:  cfg.Events.InMemory,
		Retention: cfg.Events.Retention,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open event store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event store")
		}
	}()

	h := hub.New(hub.Config{MaxClients: cfg.Hub.MaxClients})
	engine := simulation.NewEngine(simulation.Config{
		Baseline:     cfg.Simulation.Baseline,
		TickInterval: cfg.Simulation.TickInterval,
	}, h, sc, lg, store)
	ingestSvc := ingest.NewService(h, sc, lg)

	handler := api.NewHandler(cfg, h, ingestSvc, engine, lg, store)
	router := api.NewRouter(handler, &api.ChiMiddlewareConfig{
		CORSAllowedOrigins:   cfg.Security.CORSOrigins,
		CORSAllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		CORSAllowCredentials: false,
		CORSMaxAge:           86400,
		RateLimitRequests:    cfg.Security.RateLimitReqs,
		RateLimitWindow:      cfg.Security.RateLimitWindow,
		RateLimitDisabled:    cfg.Security.RateLimitDisabled,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// sutureslog wants an *slog.Logger; the adapter writes through zerolog.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddStorageService(services.NewEventStoreGCService(store, 10*time.Minute))
	tree.AddMessagingService(services.NewHubService(h))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
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
