// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/syzygy/internal/hub"
	"github.com/tomtom215/syzygy/internal/ledger"
	"github.com/tomtom215/syzygy/internal/logging"
	"github.com/tomtom215/syzygy/internal/models"
)

const version = "1.0.0"

// Health handles health check requests. The service is degraded when the
// event store is unreadable or the ledger circuit breaker is open.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"

	eventsStored := 0
	if h.events != nil {
		n, err := h.events.Count()
		if err != nil {
			status = "degraded"
			logging.Warn().Err(err).Msg("event store unreadable during health check")
		} else {
			eventsStored = n
		}
	}

	ledgerEnabled := false
	ledgerState := ""
	if h.ledger != nil {
		if _, noop := h.ledger.(*ledger.Noop); !noop {
			ledgerEnabled = true
		}
	}
	if st, ok := h.ledger.(interface{ State() string }); ok {
		ledgerState = st.State()
		if ledgerState == "open" {
			status = "degraded"
		}
	}

	telemetrySubs, simSubs := 0, 0
	if h.hub != nil {
		telemetrySubs = h.hub.SubscriberCount(hub.ChannelTelemetry)
		simSubs = h.hub.SubscriberCount(hub.ChannelSim)
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthStatus{
			Status:               status,
			Version:              version,
			LedgerEnabled:        ledgerEnabled,
			LedgerState:          ledgerState,
			EventsStored:         eventsStored,
			TelemetrySubscribers: telemetrySubs,
			SimSubscribers:       simSubs,
			Uptime:               time.Since(h.startTime).Seconds(),
		},
	})
}

// HealthLive handles liveness probe requests. Returns 200 OK if the
// process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
	})
}

// HealthReady handles readiness probe requests. Returns 200 OK only when
// the hub and ingestion path are wired; 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.hub != nil && h.ingest != nil && h.engine != nil

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, r, status, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"ready": ready,
		},
	})
}
