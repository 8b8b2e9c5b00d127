// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Telemetry ingest and detection outcomes
// - Attestation ledger calls
// - Broadcast hub fan-out
// - Simulation runs

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Ingest and Detection Metrics
	TelemetrySamplesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_samples_total",
			Help: "Total number of telemetry samples scored",
		},
		[]string{"source", "anomaly"}, // source: "live", "sim"
	)

	DetectionScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "detection_score",
			Help:    "Distribution of anomaly scores",
			Buckets: []float64{0.5, 1, 1.5, 2, 2.5, 3, 4, 5, 7.5, 10, 20},
		},
	)

	// Ledger Metrics
	LedgerAttestationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_attestations_total",
			Help: "Total number of attestation attempts",
		},
		[]string{"event_type", "outcome"}, // outcome: "ok", "error"
	)

	LedgerAttestationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ledger_attestation_duration_seconds",
			Help:    "Attestation gateway round trip in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Hub Metrics
	HubSubscribers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hub_subscribers",
			Help: "Current number of subscribers per channel",
		},
		[]string{"channel"},
	)

	HubBroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_broadcasts_total",
			Help: "Total number of frames broadcast per channel",
		},
		[]string{"channel"},
	)

	HubSubscribersDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_subscribers_dropped_total",
			Help: "Total number of subscribers dropped for failed delivery",
		},
		[]string{"channel"},
	)

	// Simulation Metrics
	SimRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sim_runs_total",
			Help: "Total number of simulation runs started",
		},
		[]string{"mode", "attack"},
	)

	SimTicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sim_ticks_total",
			Help: "Total number of simulation ticks executed",
		},
	)

	SimAnomaliesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sim_anomalies_total",
			Help: "Total number of anomalous simulation ticks",
		},
	)

	// Event Store Metrics
	EventStoreRecordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventstore_records_total",
			Help: "Total number of attested events recorded locally",
		},
	)
)

// RecordAPIRequest records latency and outcome for one HTTP request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	code := strconv.Itoa(statusCode)
	APIRequestsTotal.WithLabelValues(method, endpoint, code).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDetection records one scored sample.
func RecordDetection(source string, score float64, isAnomaly bool) {
	TelemetrySamplesTotal.WithLabelValues(source, strconv.FormatBool(isAnomaly)).Inc()
	DetectionScore.Observe(score)
}

// RecordAttestation records one ledger call.
func RecordAttestation(eventType string, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	LedgerAttestationsTotal.WithLabelValues(eventType, outcome).Inc()
	LedgerAttestationDuration.Observe(duration.Seconds())
}

// RecordBroadcast records one hub fan-out.
func RecordBroadcast(channel string) {
	HubBroadcastsTotal.WithLabelValues(channel).Inc()
}

// RecordSubscriberDrop records subscribers pruned from a channel.
func RecordSubscriberDrop(channel string, n int) {
	HubSubscribersDropped.WithLabelValues(channel).Add(float64(n))
}

// SetSubscribers updates the per-channel subscriber gauge.
func SetSubscribers(channel string, n int) {
	HubSubscribers.WithLabelValues(channel).Set(float64(n))
}

// RecordSimRun records one simulation run start.
func RecordSimRun(mode, attackKind string) {
	SimRunsTotal.WithLabelValues(mode, attackKind).Inc()
}

// RecordSimTick records one simulation tick and its outcome.
func RecordSimTick(isAnomaly bool) {
	SimTicksTotal.Inc()
	if isAnomaly {
		SimAnomaliesTotal.Inc()
	}
}

// RecordEventStored records one locally persisted attested event.
func RecordEventStored() {
	EventStoreRecordsTotal.Inc()
}
