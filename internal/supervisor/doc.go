// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

/*
Package supervisor provides suture v4 based process supervision for Syzygy.

The supervisor tree has three child layers under one root:

	syzygy (root)
	├── storage-layer    event store GC loop
	├── messaging-layer  broadcast hub
	└── api-layer        HTTP server

Each layer is its own suture.Supervisor so a crashing service is
restarted within its layer without disturbing the others. Supervision
events are logged through sutureslog into the application's zerolog
output via the logging package's slog adapter.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMessagingService(services.NewHubService(h))
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor
