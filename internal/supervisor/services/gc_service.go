// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package services

import (
	"context"
	"time"
)

// GCRunner matches eventstore.Store's RunGC method.
type GCRunner interface {
	RunGC(ctx context.Context, interval time.Duration) error
}

// EventStoreGCService runs the BadgerDB value-log garbage collection loop
// as a supervised service. RunGC blocks until the context is canceled, so
// the wrapper is a straight delegation.
type EventStoreGCService struct {
	store    GCRunner
	interval time.Duration
	name     string
}

// NewEventStoreGCService creates a new GC service wrapper. A zero
// interval uses the store default.
func NewEventStoreGCService(store GCRunner, interval time.Duration) *EventStoreGCService {
	return &EventStoreGCService{
		store:    store,
		interval: interval,
		name:     "eventstore-gc",
	}
}

// Serve implements suture.Service.
func (s *EventStoreGCService) Serve(ctx context.Context) error {
	return s.store.RunGC(ctx, s.interval)
}

// String implements fmt.Stringer for supervision logs.
func (s *EventStoreGCService) String() string {
	return s.name
}
