// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

// Package config loads and validates application configuration using
// Koanf v2 with layered sources: built-in defaults, an optional YAML
// config file, and environment variables (highest priority).
package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/syzygy/internal/validation"
)

// Config is the root configuration for the Syzygy server.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Security   SecurityConfig   `koanf:"security"`
	Scorer     ScorerConfig     `koanf:"scorer"`
	Ledger     LedgerConfig     `koanf:"ledger"`
	Hub        HubConfig        `koanf:"hub"`
	Simulation SimulationConfig `koanf:"simulation"`
	Events     EventsConfig     `koanf:"events"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig controls the global zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// SecurityConfig controls CORS and API rate limiting.
// Subscriber authentication is deliberately out of scope.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// ScorerConfig controls the anomaly scorer.
//
// ModelPath points at a JSON parameter file (per-feature means and
// standard deviations). A missing or unreadable file fails open: the
// scorer returns a sentinel score of 0 which never crosses Threshold.
type ScorerConfig struct {
	ModelPath string  `koanf:"model_path"`
	Threshold float64 `koanf:"threshold" validate:"gt=0"`
}

// LedgerConfig controls the attestation ledger.
//
// When Enabled is false a no-op ledger is substituted: every log call
// succeeds with an empty receipt. GatewayURL is the HTTP attestation
// gateway that anchors events and returns a transaction hash.
type LedgerConfig struct {
	Enabled          bool              `koanf:"enabled"`
	GatewayURL       string            `koanf:"gateway_url" validate:"omitempty,url"`
	Headers          map[string]string `koanf:"headers"`
	Timeout          time.Duration     `koanf:"timeout"`
	RatePerSecond    float64           `koanf:"rate_per_second" validate:"gt=0"`
	BreakerThreshold uint32            `koanf:"breaker_threshold" validate:"min=1"`
	BreakerCooldown  time.Duration     `koanf:"breaker_cooldown"`
}

// HubConfig controls the broadcast hub and its websocket subscribers.
type HubConfig struct {
	// SendBuffer is the per-subscriber outbound queue length. A subscriber
	// whose queue is full at broadcast time is dropped.
	SendBuffer int `koanf:"send_buffer" validate:"min=1"`

	// MaxClients caps concurrent websocket subscribers per channel.
	// Zero disables the cap.
	MaxClients int `koanf:"max_clients" validate:"min=0"`
}

// SimulationConfig controls attack simulation runs.
type SimulationConfig struct {
	// Baseline is the unperturbed feature vector replayed each tick.
	Baseline []float64 `koanf:"baseline" validate:"min=1"`

	// TickInterval is the loop period. One second matches the wall-clock
	// duration contract; tests shorten it.
	TickInterval time.Duration `koanf:"tick_interval"`
}

// EventsConfig controls the local attested-event history store.
type EventsConfig struct {
	StorePath string        `koanf:"store_path"`
	InMemory  bool          `koanf:"in_memory"`
	Retention time.Duration `koanf:"retention"`
}

// Validate checks the configuration for invalid or inconsistent values.
// It is called by Load after all sources are merged.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Ledger.Enabled && c.Ledger.GatewayURL == "" {
		return fmt.Errorf("ledger.gateway_url is required when the ledger is enabled")
	}
	if c.Simulation.TickInterval <= 0 {
		return fmt.Errorf("simulation.tick_interval must be positive")
	}
	if !c.Events.InMemory && c.Events.StorePath == "" {
		return fmt.Errorf("events.store_path is required unless events.in_memory is set")
	}
	return nil
}
