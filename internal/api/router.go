// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/syzygy/internal/middleware"
)

// Router wires the handler and middleware factories into a Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for the given handler. A nil middleware
// config uses the secure defaults.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware stack, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// Health endpoints get a permissive rate limit so monitoring is
	// never throttled.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// JSON API endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)

		r.Post("/telemetry/ingest", router.handler.TelemetryIngest)
		r.Post("/detect", router.handler.Detect)
		r.Post("/events/log", router.handler.EventsLog)
		r.Get("/events/recent", router.handler.EventsRecent)
		r.Post("/simulate/run", router.handler.SimulateRun)
		r.Get("/simulate/runs", router.handler.SimulateRuns)
		r.Get("/simulate/runs/{id}", router.handler.SimulateGet)
	})

	// WebSocket endpoints stay outside the metrics and compression
	// groups: both wrap the ResponseWriter and lose http.Hijacker,
	// which the upgrade needs.
	r.Get("/ws/telemetry", router.handler.WSTelemetry)
	r.Get("/ws/sim", router.handler.WSSim)

	// Prometheus exposition.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
