// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

// Package hub implements the in-process broadcast bus that fans telemetry
// and simulation messages out to websocket subscribers. Channels are fixed
// at construction: "telemetry" carries live and simulated satellite frames,
// "sim" carries attack-run progress.
package hub

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/syzygy/internal/logging"
	"github.com/tomtom215/syzygy/internal/metrics"
	"github.com/tomtom215/syzygy/internal/models"
)

// Channel names served by the hub.
const (
	ChannelTelemetry = "telemetry"
	ChannelSim       = "sim"
)

var (
	// ErrUnknownChannel is returned for a channel the hub does not serve.
	ErrUnknownChannel = errors.New("hub: unknown channel")

	// ErrHubFull is returned when the per-channel subscriber cap is reached.
	ErrHubFull = errors.New("hub: subscriber limit reached")
)

// Subscriber receives broadcast frames. Send must not block indefinitely:
// a subscriber that cannot accept a frame returns an error and is dropped
// from the channel. Implementations must tolerate Close after a failed Send.
type Subscriber interface {
	// Send queues one serialized frame for delivery.
	Send(data []byte) error

	// Close releases the subscriber. Called when the hub drops it.
	Close()
}

// Config configures the hub.
type Config struct {
	// MaxClients caps subscribers per channel. Zero disables the cap.
	MaxClients int
}

// Hub is the broadcast bus. All methods are safe for concurrent use.
type Hub struct {
	maxClients int

	mu       sync.RWMutex
	channels map[string]map[Subscriber]uint64
	nextSeq  uint64
}

// New creates a hub serving the telemetry and sim channels.
func New(cfg Config) *Hub {
	return &Hub{
		maxClients: cfg.MaxClients,
		channels: map[string]map[Subscriber]uint64{
			ChannelTelemetry: {},
			ChannelSim:       {},
		},
	}
}

// Subscribe attaches sub to a channel. Subscribing twice is a no-op.
func (h *Hub) Subscribe(channel string, sub Subscriber) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.channels[channel]
	if !ok {
		return ErrUnknownChannel
	}
	if _, exists := subs[sub]; exists {
		return nil
	}
	if h.maxClients > 0 && len(subs) >= h.maxClients {
		return ErrHubFull
	}

	h.nextSeq++
	subs[sub] = h.nextSeq
	metrics.SetSubscribers(channel, len(subs))
	logging.Info().
		Str("channel", channel).
		Int("subscribers", len(subs)).
		Msg("hub subscriber attached")
	return nil
}

// Unsubscribe detaches sub from a channel and closes it. Unsubscribing
// an unknown subscriber is a no-op.
func (h *Hub) Unsubscribe(channel string, sub Subscriber) error {
	h.mu.Lock()
	subs, ok := h.channels[channel]
	if !ok {
		h.mu.Unlock()
		return ErrUnknownChannel
	}
	_, attached := subs[sub]
	if attached {
		delete(subs, sub)
	}
	count := len(subs)
	h.mu.Unlock()

	if attached {
		sub.Close()
		metrics.SetSubscribers(channel, count)
		logging.Info().
			Str("channel", channel).
			Int("subscribers", count).
			Msg("hub subscriber detached")
	}
	return nil
}

// Broadcast serializes msg once and delivers it to every current
// subscriber of the channel. Delivery happens outside the hub lock, so a
// slow subscriber never stalls registration or other channels. Subscribers
// whose Send fails are dropped and closed.
func (h *Hub) Broadcast(channel string, msg models.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return h.BroadcastRaw(channel, data)
}

// BroadcastRaw delivers a pre-serialized frame to a channel.
func (h *Hub) BroadcastRaw(channel string, data []byte) error {
	targets, err := h.snapshot(channel)
	if err != nil {
		return err
	}

	metrics.RecordBroadcast(channel)

	var failed []Subscriber
	for _, sub := range targets {
		if err := sub.Send(data); err != nil {
			failed = append(failed, sub)
		}
	}

	if len(failed) > 0 {
		h.prune(channel, failed)
	}
	return nil
}

// SubscriberCount returns the current subscriber count for a channel.
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// RunWithContext blocks until ctx is done, then closes every subscriber.
// Designed for suture supervision: a supervisor restart gets a hub with
// no orphaned connections.
func (h *Hub) RunWithContext(ctx context.Context) error {
	<-ctx.Done()

	closed := h.closeAll()
	logging.Info().
		Str("component", "hub").
		Int("subscribers_closed", closed).
		Msg("hub stopped")
	return ctx.Err()
}

// snapshot copies a channel's subscribers in subscription order, so
// delivery order is stable for a fixed subscriber set.
func (h *Hub) snapshot(channel string) ([]Subscriber, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs, ok := h.channels[channel]
	if !ok {
		return nil, ErrUnknownChannel
	}

	type entry struct {
		sub Subscriber
		seq uint64
	}
	entries := make([]entry, 0, len(subs))
	for sub, seq := range subs {
		entries = append(entries, entry{sub, seq})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]Subscriber, len(entries))
	for i, e := range entries {
		out[i] = e.sub
	}
	return out, nil
}

// prune drops subscribers whose delivery failed. A subscriber already
// removed by a concurrent Unsubscribe is skipped.
func (h *Hub) prune(channel string, failed []Subscriber) {
	h.mu.Lock()
	subs := h.channels[channel]
	var dropped []Subscriber
	for _, sub := range failed {
		if _, ok := subs[sub]; ok {
			delete(subs, sub)
			dropped = append(dropped, sub)
		}
	}
	count := len(subs)
	h.mu.Unlock()

	for _, sub := range dropped {
		sub.Close()
	}
	if len(dropped) > 0 {
		metrics.RecordSubscriberDrop(channel, len(dropped))
		metrics.SetSubscribers(channel, count)
		logging.Warn().
			Str("channel", channel).
			Int("dropped", len(dropped)).
			Int("subscribers", count).
			Msg("hub dropped unresponsive subscribers")
	}
}

func (h *Hub) closeAll() int {
	h.mu.Lock()
	var all []Subscriber
	for channel, subs := range h.channels {
		for sub := range subs {
			all = append(all, sub)
		}
		h.channels[channel] = map[Subscriber]uint64{}
	}
	h.mu.Unlock()

	for _, sub := range all {
		sub.Close()
	}
	return len(all)
}
