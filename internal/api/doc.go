// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

// Package api provides the HTTP surface of Syzygy using the Chi router.
//
// Endpoints:
//
//	POST /api/v1/telemetry/ingest  score a live sample, broadcast, attest anomalies
//	POST /api/v1/detect            pure scoring, no side effects
//	POST /api/v1/events/log        explicit attestation of a security event
//	GET  /api/v1/events/recent     recent attested events from the store
//	POST /api/v1/simulate/run      start a fire-and-forget attack simulation
//	GET  /api/v1/simulate/runs     snapshot of known simulation runs
//	GET  /api/v1/simulate/runs/{id} single run by id
//	GET  /api/v1/health            component health (+ /live, /ready probes)
//	GET  /ws/telemetry             live telemetry stream (WebSocket)
//	GET  /ws/sim                   simulation stream (WebSocket)
//	GET  /metrics                  Prometheus exposition
//
// Every JSON endpoint responds with the models.APIResponse envelope.
// WebSocket routes are mounted outside the metrics middleware group
// because the metrics response writer does not implement http.Hijacker.
package api
