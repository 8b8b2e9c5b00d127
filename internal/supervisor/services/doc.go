// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

/*
Package services provides suture.Service wrappers for Syzygy components.

Each wrapper translates a component lifecycle (ListenAndServe, RunWithContext,
periodic loops) into suture's context-aware Serve pattern and implements
fmt.Stringer so supervision logs name the service.

Available services:

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Configurable timeout for draining connections

Broadcast Hub (HubService):
  - Wraps hub.Hub; the hub closes all subscribers on shutdown

Event Store GC (EventStoreGCService):
  - Runs the BadgerDB value-log garbage collection loop
*/
package services
