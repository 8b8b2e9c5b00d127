// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

/*
Package middleware provides HTTP middleware components for the server.

Key Components:

  - RequestID: UUID-based request tracking for log correlation
  - PrometheusMetrics: request/response instrumentation with
    route-pattern endpoint labels
  - Compression: gzip compression for responses, skipping websocket
    upgrades

All middleware uses the standard func(http.Handler) http.Handler shape
and composes with chi's Use().
*/
package middleware
