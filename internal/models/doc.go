// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

// Package models defines the wire-level data types shared across the
// application: the closed broadcast message union (telemetry | sim | event),
// request/response bodies for the HTTP API, and the standard API envelope.
//
// Messages are immutable once constructed. Serialization is owned by the
// broadcast hub, not by producers.
package models
