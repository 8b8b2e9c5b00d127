// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

/*
Package metrics provides Prometheus metrics collection and export for observability.

The package instruments the telemetry pipeline end to end:
  - HTTP request latency and throughput
  - Sample scoring outcomes per source (live vs simulated)
  - Attestation ledger calls and gateway round trips
  - Broadcast hub subscriber counts and fan-out volume
  - Simulation run, tick, and anomaly counts
  - Local attested-event persistence

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8000/metrics

Example PromQL queries:

	# Ingest rate
	rate(telemetry_samples_total[5m])

	# Anomaly ratio
	sum(rate(telemetry_samples_total{anomaly="true"}[5m]))
	/
	sum(rate(telemetry_samples_total[5m]))

	# Attestation failure rate
	rate(ledger_attestations_total{outcome="error"}[5m])

	# API p95 latency
	histogram_quantile(0.95, rate(api_request_duration_seconds_bucket[5m]))

All recording functions are thread-safe; the Prometheus client library
handles synchronization internally. Labels are bounded: channels, modes,
attack kinds, event types, and normalized route patterns only, never
satellite or run identifiers.
*/
package metrics
