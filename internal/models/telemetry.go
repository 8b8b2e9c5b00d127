// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package models

// Attack kinds accepted by the simulation engine and the attack model.
const (
	AttackJamming   = "jamming"
	AttackSpoofing  = "spoofing"
	AttackInjection = "injection"
)

// Simulation modes. Red runs the attack model against the baseline,
// blue replays the unperturbed baseline.
const (
	ModeRed  = "red"
	ModeBlue = "blue"
)

// Event types written to the attestation ledger.
const (
	EventAnomaly        = "ANOMALY"
	EventAnomalySim     = "ANOMALY_SIM"
	EventDefenseSuggest = "DEFENSE_SUGGEST"
)

// TelemetryIn is one externally supplied telemetry sample.
type TelemetryIn struct {
	SatelliteID string            `json:"satellite_id"`
	TS          int64             `json:"ts"`
	Features    []float64         `json:"features"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// DetectionOut is the result of scoring a single sample.
type DetectionOut struct {
	Score     float64 `json:"score"`
	IsAnomaly bool    `json:"is_anomaly"`
	Threshold float64 `json:"threshold"`
}

// IngestOut is the response of the ingestion path: the detection result
// plus the attestation receipt when the sample was anomalous.
type IngestOut struct {
	Detection DetectionOut `json:"detection"`
	TxHash    *string      `json:"tx_hash"`
}

// SimCommand is a validated request to start an attack simulation run.
// DurationSec defaults to 20 when omitted.
type SimCommand struct {
	Mode        string `json:"mode"`
	Attack      string `json:"attack"`
	Intensity   int    `json:"intensity"`
	DurationSec int    `json:"duration_sec"`
}

// SimStarted acknowledges that a simulation run was accepted. The run
// itself is fire-and-forget; RunID allows observers to follow its state.
type SimStarted struct {
	Status string `json:"status"`
	RunID  string `json:"run_id"`
}

// EventLogIn is an explicit attestation request.
type EventLogIn struct {
	Type    string            `json:"type"`
	Details map[string]string `json:"details"`
}

// EventLogOut echoes an attested event together with its receipt.
type EventLogOut struct {
	TxHash  string            `json:"tx_hash"`
	Type    string            `json:"type"`
	Details map[string]string `json:"details"`
}
