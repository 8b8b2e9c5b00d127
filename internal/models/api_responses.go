// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package models

import "time"

// APIResponse is the envelope returned by every HTTP endpoint.
//
// Fields:
//   - Status: "success" or "error"
//   - Data: endpoint-specific payload (null on error)
//   - Metadata: server timestamp and request id for tracing
//   - Error: structured error details (omitted on success)
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError represents an error response with structured details.
//
// Common error codes:
//   - VALIDATION_ERROR: invalid input parameters
//   - LEDGER_ERROR: attestation ledger unavailable or write not finalized
//   - SERVICE_UNAVAILABLE: a required component is not initialized
//   - INTERNAL_ERROR: unexpected failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the payload of the health endpoint.
type HealthStatus struct {
	Status               string  `json:"status"`
	Version              string  `json:"version"`
	LedgerEnabled        bool    `json:"ledger_enabled"`
	LedgerState          string  `json:"ledger_state,omitempty"`
	EventsStored         int     `json:"events_stored"`
	TelemetrySubscribers int     `json:"telemetry_subscribers"`
	SimSubscribers       int     `json:"sim_subscribers"`
	Uptime               float64 `json:"uptime"`
}
