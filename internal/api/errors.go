// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

// Package api provides HTTP handlers for the Syzygy application.
//
// errors.go - Common API error codes
package api

// Error codes used in the APIError envelope.
const (
	// ErrCodeValidation indicates invalid input parameters.
	ErrCodeValidation = "VALIDATION_ERROR"

	// ErrCodeLedger indicates the attestation ledger refused or failed
	// to finalize a write.
	ErrCodeLedger = "LEDGER_ERROR"

	// ErrCodeServiceUnavailable indicates a required component is not
	// initialized.
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"

	// ErrCodeNotFound indicates the requested resource does not exist.
	ErrCodeNotFound = "NOT_FOUND"

	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal = "INTERNAL_ERROR"
)
