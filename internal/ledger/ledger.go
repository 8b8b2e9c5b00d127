// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

// Package ledger attests security events to an external tamper-evident
// ledger via an HTTP attestation gateway. The gateway anchors each event
// on chain and returns a transaction hash used as the receipt identifier.
package ledger

import (
	"context"
	"fmt"
)

// Ledger records security events on a tamper-evident store.
// Implementations must be safe for concurrent use.
type Ledger interface {
	// LogEvent attests an event and returns a receipt identifier.
	// Details must be a JSON-serializable map of event attributes.
	LogEvent(ctx context.Context, eventType string, details map[string]interface{}) (string, error)
}

// Error reasons distinguishing why an attestation attempt failed.
const (
	ReasonUnavailable = "unavailable"
	ReasonRateLimited = "rate_limited"
	ReasonRejected    = "rejected"
	ReasonBadResponse = "bad_response"
)

// Error is the typed attestation failure returned by ledger implementations.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ledger: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("ledger: %s", e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Noop is the disabled-ledger implementation: every event is accepted
// with an empty receipt. Used when no gateway is configured.
type Noop struct{}

// NewNoop returns a ledger that records nothing and never fails.
func NewNoop() *Noop { return &Noop{} }

func (*Noop) LogEvent(_ context.Context, _ string, _ map[string]interface{}) (string, error) {
	return "", nil
}
