// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/syzygy/internal/hub"
	"github.com/tomtom215/syzygy/internal/ledger"
	"github.com/tomtom215/syzygy/internal/logging"
	"github.com/tomtom215/syzygy/internal/models"
)

// EventsLog handles explicit attestation requests. The event is written
// to the ledger first; only a finalized write is broadcast and stored.
func (h *Handler) EventsLog(w http.ResponseWriter, r *http.Request) {
	if h.ledger == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Ledger unavailable", nil)
		return
	}

	var req eventLogRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	details := make(map[string]interface{}, len(req.Details))
	for k, v := range req.Details {
		details[k] = v
	}

	txHash, err := h.ledger.LogEvent(r.Context(), req.Type, details)
	if err != nil {
		var lerr *ledger.Error
		if errors.As(err, &lerr) {
			respondErrorDetails(w, r, http.StatusBadGateway, ErrCodeLedger,
				"Attestation failed",
				map[string]interface{}{"reason": lerr.Reason}, err)
			return
		}
		respondError(w, r, http.StatusBadGateway, ErrCodeLedger, "Attestation failed", err)
		return
	}

	h.storeEvent(req.Type, req.Details, txHash)

	if h.hub != nil {
		msg := models.NewEventMessage(req.Type, req.Details, txHash)
		if err := h.hub.Broadcast(hub.ChannelTelemetry, msg); err != nil {
			logging.Warn().Err(err).Msg("failed to broadcast attested event")
		}
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.EventLogOut{
			TxHash:  txHash,
			Type:    req.Type,
			Details: req.Details,
		},
	})
}

// EventsRecent returns recently attested events, newest first. The limit
// query parameter defaults to 50 and is capped at 500.
func (h *Handler) EventsRecent(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Event store unavailable", nil)
		return
	}

	limit := getIntParam(r, "limit", 50)
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	records, err := h.events.Recent(limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to read recent events", err)
		return
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"events": records,
			"count":  len(records),
		},
	})
}
