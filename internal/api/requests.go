// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package api

// telemetryRequest is the body of /telemetry/ingest and /detect. TS is
// optional; ingest fills it with the server clock when zero.
type telemetryRequest struct {
	SatelliteID string            `json:"satellite_id" validate:"required,max=64"`
	TS          int64             `json:"ts"           validate:"min=0"`
	Features    []float64         `json:"features"     validate:"required,min=1,max=64"`
	Meta        map[string]string `json:"meta"`
}

// eventLogRequest is the body of /events/log.
type eventLogRequest struct {
	Type    string            `json:"type" validate:"required,max=64"`
	Details map[string]string `json:"details"`
}

// simulateRequest is the body of /simulate/run. DurationSec zero means
// the engine default.
type simulateRequest struct {
	Mode        string `json:"mode"         validate:"required,oneof=red blue"`
	Attack      string `json:"attack"       validate:"required,oneof=jamming spoofing injection"`
	Intensity   int    `json:"intensity"    validate:"min=0,max=100"`
	DurationSec int    `json:"duration_sec" validate:"min=0,max=600"`
}
