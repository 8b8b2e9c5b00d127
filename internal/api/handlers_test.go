// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/syzygy/internal/eventstore"
	"github.com/tomtom215/syzygy/internal/hub"
	"github.com/tomtom215/syzygy/internal/ingest"
	"github.com/tomtom215/syzygy/internal/ledger"
	"github.com/tomtom215/syzygy/internal/logging"
	"github.com/tomtom215/syzygy/internal/models"
	"github.com/tomtom215/syzygy/internal/scorer"
	"github.com/tomtom215/syzygy/internal/simulation"
)

func init() {
	logging.SetLogger(logging.NewTestLogger(io.Discard))
}

// fakeLedger lets tests control receipts and failures.
type fakeLedger struct {
	receipt string
	fail    bool
}

func (f *fakeLedger) LogEvent(_ context.Context, _ string, _ map[string]interface{}) (string, error) {
	if f.fail {
		return "", &ledger.Error{Reason: ledger.ReasonUnavailable, Err: context.DeadlineExceeded}
	}
	return f.receipt, nil
}

func testScorer(t *testing.T) scorer.Scorer {
	t.Helper()
	sc, err := scorer.NewFromModel(scorer.Model{
		Means: []float64{0.1, 0.2, 0.3, 0.4},
		Stds:  []float64{0.1, 0.1, 0.1, 0.1},
	}, 3.0)
	if err != nil {
		t.Fatal(err)
	}
	return sc
}

func testHandler(t *testing.T, lg ledger.Ledger) *Handler {
	t.Helper()

	store, err := eventstore.Open(eventstore.Config{InMemory: true})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	h := hub.New(hub.Config{})
	sc := testScorer(t)
	ing := ingest.NewService(h, sc, lg)
	eng := simulation.NewEngine(simulation.Config{}, h, sc, lg, store)

	return NewHandler(nil, h, ing, eng, lg, store)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	return resp
}

func postJSON(t *testing.T, handlerFn http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handlerFn(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := testHandler(t, ledger.NewNoop())

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Status != "success" {
		t.Errorf("envelope status = %q", resp.Status)
	}
	data, _ := resp.Data.(map[string]interface{})
	if data["status"] != "healthy" {
		t.Errorf("health status = %v", data["status"])
	}
	if data["ledger_enabled"] != false {
		t.Error("noop ledger reported as enabled")
	}
}

func TestHealthReady(t *testing.T) {
	h := testHandler(t, ledger.NewNoop())

	rec := httptest.NewRecorder()
	h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("ready status = %d", rec.Code)
	}

	// A handler with no hub is not ready.
	bare := NewHandler(nil, nil, nil, nil, nil, nil)
	rec = httptest.NewRecorder()
	bare.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("bare ready status = %d, want 503", rec.Code)
	}
}

func TestDetect(t *testing.T) {
	h := testHandler(t, ledger.NewNoop())

	rec := postJSON(t, h.Detect, "/api/v1/detect",
		`{"satellite_id":"SAT-1","features":[0.1,0.2,0.3,0.4]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	data, _ := resp.Data.(map[string]interface{})
	if data["score"].(float64) != 0.0 {
		t.Errorf("score = %v, want 0", data["score"])
	}
	if data["is_anomaly"] != false {
		t.Error("baseline sample flagged as anomaly")
	}
}

func TestDetectValidation(t *testing.T) {
	h := testHandler(t, ledger.NewNoop())

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed json", `{"satellite_id":`},
		{"missing satellite id", `{"features":[0.1]}`},
		{"empty features", `{"satellite_id":"SAT-1","features":[]}`},
		{"negative ts", `{"satellite_id":"SAT-1","ts":-5,"features":[0.1]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.Detect, "/api/v1/detect", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			resp := decodeEnvelope(t, rec)
			if resp.Error == nil || resp.Error.Code != ErrCodeValidation {
				t.Errorf("error = %+v, want %s", resp.Error, ErrCodeValidation)
			}
		})
	}
}

func TestIngestNominal(t *testing.T) {
	h := testHandler(t, &fakeLedger{receipt: "0xabc"})

	rec := postJSON(t, h.TelemetryIngest, "/api/v1/telemetry/ingest",
		`{"satellite_id":"SAT-1","features":[0.1,0.2,0.3,0.4]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	data, _ := resp.Data.(map[string]interface{})
	if data["tx_hash"] != nil {
		t.Errorf("nominal sample attested: tx_hash = %v", data["tx_hash"])
	}
}

func TestIngestAnomalyAttestsAndStores(t *testing.T) {
	h := testHandler(t, &fakeLedger{receipt: "0xdeadbeef"})

	rec := postJSON(t, h.TelemetryIngest, "/api/v1/telemetry/ingest",
		`{"satellite_id":"SAT-9","features":[5,5,5,5]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	data, _ := resp.Data.(map[string]interface{})
	if data["tx_hash"] != "0xdeadbeef" {
		t.Errorf("tx_hash = %v", data["tx_hash"])
	}
	det, _ := data["detection"].(map[string]interface{})
	if det["is_anomaly"] != true {
		t.Error("extreme sample not flagged")
	}

	recs, err := h.events.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("stored events = %d, want 1", len(recs))
	}
	if recs[0].EventType != models.EventAnomaly {
		t.Errorf("stored type = %q", recs[0].EventType)
	}
	if recs[0].TxHash != "0xdeadbeef" {
		t.Errorf("stored tx_hash = %q", recs[0].TxHash)
	}
}

func TestIngestLedgerFailure(t *testing.T) {
	h := testHandler(t, &fakeLedger{fail: true})

	rec := postJSON(t, h.TelemetryIngest, "/api/v1/telemetry/ingest",
		`{"satellite_id":"SAT-9","features":[5,5,5,5]}`)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeLedger {
		t.Fatalf("error = %+v, want %s", resp.Error, ErrCodeLedger)
	}
	if resp.Error.Details["reason"] != ledger.ReasonUnavailable {
		t.Errorf("reason = %v", resp.Error.Details["reason"])
	}

	// Failed attestations never reach the store.
	recs, err := h.events.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Errorf("stored events = %d, want 0", len(recs))
	}
}

func TestEventsLog(t *testing.T) {
	h := testHandler(t, &fakeLedger{receipt: "0x42"})

	rec := postJSON(t, h.EventsLog, "/api/v1/events/log",
		`{"type":"MANUAL_AUDIT","details":{"operator":"alice"}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	data, _ := resp.Data.(map[string]interface{})
	if data["tx_hash"] != "0x42" {
		t.Errorf("tx_hash = %v", data["tx_hash"])
	}

	recs, err := h.events.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].EventType != "MANUAL_AUDIT" {
		t.Errorf("stored records = %+v", recs)
	}
}

func TestEventsLogLedgerFailure(t *testing.T) {
	h := testHandler(t, &fakeLedger{fail: true})

	rec := postJSON(t, h.EventsLog, "/api/v1/events/log", `{"type":"MANUAL_AUDIT"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeLedger {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestEventsRecentLimit(t *testing.T) {
	h := testHandler(t, &fakeLedger{receipt: "0x1"})

	for i := 0; i < 5; i++ {
		rec := postJSON(t, h.EventsLog, "/api/v1/events/log", `{"type":"E"}`)
		if rec.Code != http.StatusOK {
			t.Fatal(rec.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/recent?limit=3", nil)
	rec := httptest.NewRecorder()
	h.EventsRecent(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	data, _ := resp.Data.(map[string]interface{})
	if data["count"].(float64) != 3 {
		t.Errorf("count = %v, want 3", data["count"])
	}
}

func TestSimulateRun(t *testing.T) {
	h := testHandler(t, ledger.NewNoop())

	rec := postJSON(t, h.SimulateRun, "/api/v1/simulate/run",
		`{"mode":"blue","attack":"jamming","intensity":50,"duration_sec":1}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	data, _ := resp.Data.(map[string]interface{})
	if data["status"] != "started" {
		t.Errorf("status = %v", data["status"])
	}
	runID, _ := data["run_id"].(string)
	if runID == "" {
		t.Fatal("missing run_id")
	}

	// The run is visible in the registry immediately.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/simulate/runs", nil)
	listRec := httptest.NewRecorder()
	h.SimulateRuns(listRec, req)
	if !strings.Contains(listRec.Body.String(), runID) {
		t.Error("started run missing from runs listing")
	}
}

func TestSimulateRunValidation(t *testing.T) {
	h := testHandler(t, ledger.NewNoop())

	tests := []struct {
		name string
		body string
	}{
		{"bad mode", `{"mode":"purple","attack":"jamming"}`},
		{"bad attack", `{"mode":"red","attack":"teleport"}`},
		{"intensity too high", `{"mode":"red","attack":"jamming","intensity":101}`},
		{"duration too long", `{"mode":"red","attack":"jamming","duration_sec":601}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.SimulateRun, "/api/v1/simulate/run", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestSimulateGetUnknown(t *testing.T) {
	h := testHandler(t, ledger.NewNoop())
	router := NewRouter(h, &ChiMiddlewareConfig{RateLimitDisabled: true}).Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/simulate/runs/no-such-run", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestServiceUnavailableWithoutDeps(t *testing.T) {
	bare := NewHandler(nil, nil, nil, nil, nil, nil)

	checks := []struct {
		name string
		fn   http.HandlerFunc
		req  *http.Request
	}{
		{"ingest", bare.TelemetryIngest, httptest.NewRequest(http.MethodPost, "/", nil)},
		{"detect", bare.Detect, httptest.NewRequest(http.MethodPost, "/", nil)},
		{"events log", bare.EventsLog, httptest.NewRequest(http.MethodPost, "/", nil)},
		{"events recent", bare.EventsRecent, httptest.NewRequest(http.MethodGet, "/", nil)},
		{"simulate run", bare.SimulateRun, httptest.NewRequest(http.MethodPost, "/", nil)},
		{"simulate runs", bare.SimulateRuns, httptest.NewRequest(http.MethodGet, "/", nil)},
	}

	for _, tt := range checks {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.fn(rec, tt.req)
			if rec.Code != http.StatusServiceUnavailable {
				t.Errorf("status = %d, want 503", rec.Code)
			}
		})
	}
}
