// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package models

// Message type discriminants used on the wire. Every broadcast message
// carries exactly one of these in its "type" field.
const (
	MessageTypeTelemetry = "telemetry"
	MessageTypeSim       = "sim"
	MessageTypeEvent     = "event"
)

// Message is the closed union of broadcast payloads. The hub serializes a
// Message exactly once per broadcast call; producers construct one of the
// three concrete types below and never touch the serialized form.
type Message interface {
	// MessageType returns the wire discriminant for this message.
	MessageType() string
}

// TelemetryMessage is a scored telemetry sample fanned out on the
// telemetry channel. Simulated samples use SatelliteID "SIM".
type TelemetryMessage struct {
	Type        string            `json:"type"`
	SatelliteID string            `json:"satellite_id"`
	TS          int64             `json:"ts"`
	Features    []float64         `json:"features"`
	Score       float64           `json:"score"`
	IsAnomaly   bool              `json:"is_anomaly"`
	Meta        map[string]string `json:"meta"`
}

// MessageType implements Message.
func (TelemetryMessage) MessageType() string { return MessageTypeTelemetry }

// NewTelemetryMessage builds a telemetry message with the type discriminant
// set and a non-nil meta map.
func NewTelemetryMessage(satelliteID string, ts int64, features []float64, score float64, isAnomaly bool, meta map[string]string) TelemetryMessage {
	if meta == nil {
		meta = map[string]string{}
	}
	return TelemetryMessage{
		Type:        MessageTypeTelemetry,
		SatelliteID: satelliteID,
		TS:          ts,
		Features:    features,
		Score:       score,
		IsAnomaly:   isAnomaly,
		Meta:        meta,
	}
}

// SimMessage is one tick of an attack simulation run, fanned out on the
// sim channel.
type SimMessage struct {
	Type      string    `json:"type"`
	Attack    string    `json:"attack"`
	Mode      string    `json:"mode"`
	TS        int64     `json:"ts"`
	Features  []float64 `json:"features"`
	Score     float64   `json:"score"`
	IsAnomaly bool      `json:"is_anomaly"`
}

// MessageType implements Message.
func (SimMessage) MessageType() string { return MessageTypeSim }

// NewSimMessage builds a sim message with the type discriminant set.
func NewSimMessage(attack, mode string, ts int64, features []float64, score float64, isAnomaly bool) SimMessage {
	return SimMessage{
		Type:      MessageTypeSim,
		Attack:    attack,
		Mode:      mode,
		TS:        ts,
		Features:  features,
		Score:     score,
		IsAnomaly: isAnomaly,
	}
}

// EventMessage announces an attested security event, carrying the ledger
// receipt (tx_hash) so observers can correlate with the attestation log.
type EventMessage struct {
	Type      string            `json:"type"`
	EventType string            `json:"event_type"`
	Details   map[string]string `json:"details,omitempty"`
	TxHash    string            `json:"tx_hash"`
}

// MessageType implements Message.
func (EventMessage) MessageType() string { return MessageTypeEvent }

// NewEventMessage builds an event message with the type discriminant set.
func NewEventMessage(eventType string, details map[string]string, txHash string) EventMessage {
	return EventMessage{
		Type:      MessageTypeEvent,
		EventType: eventType,
		Details:   details,
		TxHash:    txHash,
	}
}
