// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/syzygy/internal/models"
)

// SimulateRun starts an attack simulation run. The run executes in its
// own goroutine; the response only acknowledges acceptance.
func (h *Handler) SimulateRun(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Simulation engine unavailable", nil)
		return
	}

	var req simulateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	started, err := h.engine.Start(models.SimCommand{
		Mode:        req.Mode,
		Attack:      req.Attack,
		Intensity:   req.Intensity,
		DurationSec: req.DurationSec,
	})
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	respondJSON(w, r, http.StatusAccepted, &models.APIResponse{
		Status: "success",
		Data:   started,
	})
}

// SimulateRuns returns a snapshot of all known runs, newest first.
func (h *Handler) SimulateRuns(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Simulation engine unavailable", nil)
		return
	}

	runs := h.engine.Runs()
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"runs":  runs,
			"count": len(runs),
		},
	})
}

// SimulateGet returns a single run by id.
func (h *Handler) SimulateGet(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Simulation engine unavailable", nil)
		return
	}

	id := chi.URLParam(r, "id")
	run, ok := h.engine.Get(id)
	if !ok {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Unknown simulation run", nil)
		return
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   run,
	})
}
