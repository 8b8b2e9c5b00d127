// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tomtom215/syzygy/internal/eventstore"
	"github.com/tomtom215/syzygy/internal/ledger"
	"github.com/tomtom215/syzygy/internal/logging"
	"github.com/tomtom215/syzygy/internal/models"
)

// TelemetryIngest handles live telemetry ingestion.
//
// The sample is scored and broadcast on the telemetry channel regardless
// of the outcome. Anomalous samples are attested on the ledger; when the
// ledger refuses the write the response is 502 LEDGER_ERROR so the caller
// knows the anomaly was detected but not finalized.
func (h *Handler) TelemetryIngest(w http.ResponseWriter, r *http.Request) {
	if h.ingest == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Ingestion service unavailable", nil)
		return
	}

	var req telemetryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	sample := models.TelemetryIn{
		SatelliteID: req.SatelliteID,
		TS:          req.TS,
		Features:    req.Features,
		Meta:        req.Meta,
	}

	out, err := h.ingest.Ingest(r.Context(), sample)
	if err != nil {
		var lerr *ledger.Error
		if errors.As(err, &lerr) {
			respondErrorDetails(w, r, http.StatusBadGateway, ErrCodeLedger,
				"Anomaly detected but attestation failed",
				map[string]interface{}{
					"reason":    lerr.Reason,
					"score":     out.Detection.Score,
					"threshold": out.Detection.Threshold,
				}, err)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Ingestion failed", err)
		return
	}

	if out.TxHash != nil {
		h.storeEvent(models.EventAnomaly, map[string]string{
			"satellite_id": sample.SatelliteID,
			"score":        strconv.FormatFloat(out.Detection.Score, 'f', -1, 64),
		}, *out.TxHash)
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   out,
	})
}

// Detect handles pure detection requests. No broadcast, no attestation.
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	if h.ingest == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Detection service unavailable", nil)
		return
	}

	var req telemetryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	out := h.ingest.Detect(models.TelemetryIn{
		SatelliteID: req.SatelliteID,
		TS:          req.TS,
		Features:    req.Features,
		Meta:        req.Meta,
	})

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   out,
	})
}

// storeEvent appends an attested event to the recent-event store. Store
// failures are logged and never surfaced; the receipt already exists on
// the ledger.
func (h *Handler) storeEvent(eventType string, details map[string]string, txHash string) {
	if h.events == nil {
		return
	}
	var d map[string]interface{}
	if len(details) > 0 {
		d = make(map[string]interface{}, len(details))
		for k, v := range details {
			d[k] = v
		}
	}
	err := h.events.Append(eventstore.Record{
		EventType: eventType,
		Details:   d,
		TxHash:    txHash,
	})
	if err != nil {
		logging.Warn().Err(err).Str("event_type", eventType).Msg("failed to store attested event")
	}
}
