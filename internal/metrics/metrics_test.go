// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode int
		duration   time.Duration
	}{
		{"successful ingest", "POST", "/api/v1/telemetry/ingest", 200, 15 * time.Millisecond},
		{"validation failure", "POST", "/api/v1/detect", 400, 2 * time.Millisecond},
		{"ledger outage", "POST", "/api/v1/telemetry/ingest", 502, 120 * time.Millisecond},
		{"run listing", "GET", "/api/v1/simulate/runs", 200, 5 * time.Millisecond},
		{"not found", "GET", "/api/v1/unknown", 404, 1 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the request - should not panic
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
		})
	}
}

// TestRecordDetection verifies sample counting per source and outcome
func TestRecordDetection(t *testing.T) {
	before := testutil.ToFloat64(TelemetrySamplesTotal.WithLabelValues("live", "true"))

	RecordDetection("live", 4.5, true)
	RecordDetection("live", 4.5, true)
	RecordDetection("live", 0.2, false)
	RecordDetection("sim", 6.0, true)

	after := testutil.ToFloat64(TelemetrySamplesTotal.WithLabelValues("live", "true"))
	if after-before != 2 {
		t.Errorf("live anomaly counter rose by %v, want 2", after-before)
	}
}

// TestRecordAttestation tests ledger call outcome classification
func TestRecordAttestation(t *testing.T) {
	okBefore := testutil.ToFloat64(LedgerAttestationsTotal.WithLabelValues("ANOMALY", "ok"))
	errBefore := testutil.ToFloat64(LedgerAttestationsTotal.WithLabelValues("ANOMALY", "error"))

	RecordAttestation("ANOMALY", 30*time.Millisecond, nil)
	RecordAttestation("ANOMALY", 5*time.Second, errors.New("gateway timeout"))

	if got := testutil.ToFloat64(LedgerAttestationsTotal.WithLabelValues("ANOMALY", "ok")) - okBefore; got != 1 {
		t.Errorf("ok counter rose by %v, want 1", got)
	}
	if got := testutil.ToFloat64(LedgerAttestationsTotal.WithLabelValues("ANOMALY", "error")) - errBefore; got != 1 {
		t.Errorf("error counter rose by %v, want 1", got)
	}
}

// TestHubMetrics tests hub gauge and counter recording
func TestHubMetrics(t *testing.T) {
	SetSubscribers("telemetry", 3)
	if got := testutil.ToFloat64(HubSubscribers.WithLabelValues("telemetry")); got != 3 {
		t.Errorf("subscriber gauge = %v, want 3", got)
	}
	SetSubscribers("telemetry", 0)
	if got := testutil.ToFloat64(HubSubscribers.WithLabelValues("telemetry")); got != 0 {
		t.Errorf("subscriber gauge = %v, want 0", got)
	}

	before := testutil.ToFloat64(HubSubscribersDropped.WithLabelValues("sim"))
	RecordSubscriberDrop("sim", 2)
	if got := testutil.ToFloat64(HubSubscribersDropped.WithLabelValues("sim")) - before; got != 2 {
		t.Errorf("drop counter rose by %v, want 2", got)
	}

	RecordBroadcast("telemetry")
	RecordBroadcast("sim")
}

// TestSimMetrics tests simulation run and tick recording
func TestSimMetrics(t *testing.T) {
	RecordSimRun("red", "jamming")
	RecordSimRun("blue", "spoofing")

	ticksBefore := testutil.ToFloat64(SimTicksTotal)
	anomaliesBefore := testutil.ToFloat64(SimAnomaliesTotal)

	RecordSimTick(true)
	RecordSimTick(false)
	RecordSimTick(true)

	if got := testutil.ToFloat64(SimTicksTotal) - ticksBefore; got != 3 {
		t.Errorf("tick counter rose by %v, want 3", got)
	}
	if got := testutil.ToFloat64(SimAnomaliesTotal) - anomaliesBefore; got != 2 {
		t.Errorf("anomaly counter rose by %v, want 2", got)
	}
}

// TestTrackActiveRequest_RequestLifecycle simulates realistic request lifecycle
func TestTrackActiveRequest_RequestLifecycle(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)

	for i := 0; i < 10; i++ {
		TrackActiveRequest(true)
	}
	for i := 0; i < 10; i++ {
		TrackActiveRequest(false)
	}

	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("active gauge = %v after balanced lifecycle, want %v", got, start)
	}
}

// TestConcurrentMetricRecording tests thread safety of metric recording
func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	numGoroutines := 50
	operationsPerGoroutine := 50

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordAPIRequest("POST", "/api/v1/detect", 200, time.Duration(j)*time.Millisecond)
				RecordDetection("live", float64(j)/10, j%5 == 0)
				RecordSimTick(j%3 == 0)
				TrackActiveRequest(true)
				TrackActiveRequest(false)
			}
		}()
	}
	wg.Wait()
}

// TestMetricsRegistration verifies all metrics are properly registered
func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		TelemetrySamplesTotal,
		DetectionScore,
		LedgerAttestationsTotal,
		LedgerAttestationDuration,
		HubSubscribers,
		HubBroadcastsTotal,
		HubSubscribersDropped,
		SimRunsTotal,
		SimTicksTotal,
		SimAnomaliesTotal,
		EventStoreRecordsTotal,
	}

	for _, c := range collectors {
		ch := make(chan *prometheus.Desc, 10)
		c.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("Metric has no descriptors")
		}
	}
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	RecordAPIRequest("GET", "/api/v1/health", 200, time.Millisecond)
	RecordBroadcast("telemetry")

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}

func BenchmarkRecordAPIRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordAPIRequest("POST", "/api/v1/telemetry/ingest", 200, 25*time.Millisecond)
	}
}

func BenchmarkRecordDetection(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordDetection("live", 2.5, false)
	}
}
