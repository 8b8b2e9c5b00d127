// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestNewTelemetryMessage(t *testing.T) {
	msg := NewTelemetryMessage("SAT-7", 1700000000000, []float64{0.1, 0.2}, 1.5, true, nil)

	if msg.Type != MessageTypeTelemetry {
		t.Errorf("expected type %q, got %q", MessageTypeTelemetry, msg.Type)
	}
	if msg.MessageType() != MessageTypeTelemetry {
		t.Errorf("MessageType() = %q, want %q", msg.MessageType(), MessageTypeTelemetry)
	}
	if msg.Meta == nil {
		t.Error("meta should never be nil on the wire")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for _, field := range []string{`"type":"telemetry"`, `"satellite_id":"SAT-7"`, `"ts":1700000000000`, `"is_anomaly":true`, `"meta":{}`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("serialized telemetry message missing %s: %s", field, data)
		}
	}
}

func TestNewSimMessage(t *testing.T) {
	msg := NewSimMessage(AttackJamming, ModeRed, 42, []float64{1, 2, 3}, 0.5, false)

	if msg.MessageType() != MessageTypeSim {
		t.Errorf("MessageType() = %q, want %q", msg.MessageType(), MessageTypeSim)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for _, field := range []string{`"type":"sim"`, `"attack":"jamming"`, `"mode":"red"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("serialized sim message missing %s: %s", field, data)
		}
	}
}

func TestNewEventMessage(t *testing.T) {
	t.Run("with details", func(t *testing.T) {
		msg := NewEventMessage(EventDefenseSuggest, map[string]string{"defense": "frequency_hopping"}, "0xabc")

		data, err := json.Marshal(msg)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		for _, field := range []string{`"type":"event"`, `"event_type":"DEFENSE_SUGGEST"`, `"tx_hash":"0xabc"`, `"defense":"frequency_hopping"`} {
			if !strings.Contains(string(data), field) {
				t.Errorf("serialized event message missing %s: %s", field, data)
			}
		}
	})

	t.Run("details omitted when nil", func(t *testing.T) {
		msg := NewEventMessage(EventAnomalySim, nil, "0xdef")

		data, err := json.Marshal(msg)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if strings.Contains(string(data), `"details"`) {
			t.Errorf("nil details should be omitted: %s", data)
		}
	})
}
