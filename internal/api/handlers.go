// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/syzygy/internal/config"
	"github.com/tomtom215/syzygy/internal/eventstore"
	"github.com/tomtom215/syzygy/internal/hub"
	"github.com/tomtom215/syzygy/internal/ingest"
	"github.com/tomtom215/syzygy/internal/ledger"
	"github.com/tomtom215/syzygy/internal/logging"
	"github.com/tomtom215/syzygy/internal/simulation"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrade helpers
//   - handlers_helpers.go: response envelope and validation helpers
//   - handlers_health.go: health and probe endpoints
//   - handlers_telemetry.go: ingest and detect endpoints
//   - handlers_events.go: attestation log and recent-events endpoints
//   - handlers_sim.go: simulation run endpoints
//   - handlers_ws.go: WebSocket stream endpoints
type Handler struct {
	config    *config.Config
	hub       *hub.Hub
	ingest    *ingest.Service
	engine    *simulation.Engine
	ledger    ledger.Ledger
	events    *eventstore.Store
	startTime time.Time
}

// NewHandler creates a new API handler with all required dependencies.
//
// Dependencies:
//   - cfg: application configuration (CORS origins, hub buffer sizes)
//   - h: broadcast hub for the telemetry and sim channels
//   - ing: ingestion service (score, broadcast, attest)
//   - eng: simulation engine for attack runs
//   - lg: attestation ledger (Chain or Noop)
//   - store: recent-event store (may be nil; recent endpoint degrades)
func NewHandler(cfg *config.Config, h *hub.Hub, ing *ingest.Service, eng *simulation.Engine, lg ledger.Ledger, store *eventstore.Store) *Handler {
	return &Handler{
		config:    cfg,
		hub:       h,
		ingest:    ing,
		engine:    eng,
		ledger:    lg,
		events:    store,
		startTime: time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout for protection against slow clients.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Non-browser clients (telemetry feeders, scripts) omit Origin.
	// These are accepted; browser connections must match the allow list.
	if origin == "" {
		return true
	}

	// If config is nil, allow by default (tests/development).
	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
