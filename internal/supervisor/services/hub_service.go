// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package services

import (
	"context"
)

// ContextHub matches hub.Hub's RunWithContext method. The interface keeps
// this package free of a hub import.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// HubService wraps the broadcast hub as a supervised service.
//
// The hub's RunWithContext already implements the suture.Service pattern;
// this wrapper delegates to it and provides a name for logging. On
// shutdown the hub closes every subscriber.
type HubService struct {
	hub  ContextHub
	name string
}

// NewHubService creates a new hub service wrapper.
func NewHubService(hub ContextHub) *HubService {
	return &HubService{
		hub:  hub,
		name: "broadcast-hub",
	}
}

// Serve implements suture.Service.
func (s *HubService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

// String implements fmt.Stringer for supervision logs.
func (s *HubService) String() string {
	return s.name
}
