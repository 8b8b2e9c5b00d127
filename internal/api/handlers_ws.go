// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/syzygy/internal/hub"
	"github.com/tomtom215/syzygy/internal/logging"
)

// WSTelemetry upgrades the connection and streams the telemetry channel.
func (h *Handler) WSTelemetry(w http.ResponseWriter, r *http.Request) {
	h.serveWS(w, r, hub.ChannelTelemetry)
}

// WSSim upgrades the connection and streams the sim channel.
func (h *Handler) WSSim(w http.ResponseWriter, r *http.Request) {
	h.serveWS(w, r, hub.ChannelSim)
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request, channel string) {
	if h.hub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logging.Error().Err(err).Str("channel", channel).Msg("WebSocket upgrade error")
		return
	}

	sendBuffer := 0
	if h.config != nil {
		sendBuffer = h.config.Hub.SendBuffer
	}

	client := hub.NewClient(h.hub, channel, conn, sendBuffer)
	if err := client.Start(); err != nil {
		if errors.Is(err, hub.ErrHubFull) {
			logging.Warn().Str("channel", channel).Msg("WebSocket connection rejected: channel at capacity")
		} else {
			logging.Error().Err(err).Str("channel", channel).Msg("WebSocket client registration failed")
		}
		client.Close()
		return
	}
}
