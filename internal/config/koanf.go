// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/syzygy/config.yaml",
	"/etc/syzygy/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all defaults applied. Defaults are
// loaded first, then overridden by the config file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8000,
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Scorer: ScorerConfig{
			ModelPath: "models/scorer.json",
			Threshold: 3.0,
		},
		Ledger: LedgerConfig{
			Enabled:          false,
			GatewayURL:       "",
			Timeout:          10 * time.Second,
			RatePerSecond:    2,
			BreakerThreshold: 5,
			BreakerCooldown:  30 * time.Second,
		},
		Hub: HubConfig{
			SendBuffer: 256,
			MaxClients: 200,
		},
		Simulation: SimulationConfig{
			Baseline:     []float64{0.1, 0.2, 0.3, 0.4},
			TickInterval: time.Second,
		},
		Events: EventsConfig{
			StorePath: "/data/syzygy/events",
			InMemory:  false,
			Retention: 7 * 24 * time.Hour,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when they arrive as strings from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Legacy names from earlier deployments keep working alongside the
// canonical SECTION_FIELD form.
//
// Examples:
//   - HTTP_PORT          -> server.port
//   - ANOMALY_THRESHOLD  -> scorer.threshold
//   - LEDGER_GATEWAY_URL -> ledger.gateway_url
//   - WS_MAX_CLIENTS     -> hub.max_clients
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		"http_host": "server.host",
		"http_port": "server.port",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		"cors_origins":       "security.cors_origins",
		"rate_limit_reqs":    "security.rate_limit_reqs",
		"rate_limit_window":  "security.rate_limit_window",
		"disable_rate_limit": "security.rate_limit_disabled",

		"ai_model_path":     "scorer.model_path",
		"anomaly_threshold": "scorer.threshold",

		"ledger_enabled":           "ledger.enabled",
		"ledger_gateway_url":       "ledger.gateway_url",
		"ledger_timeout":           "ledger.timeout",
		"ledger_rate_per_second":   "ledger.rate_per_second",
		"ledger_breaker_threshold": "ledger.breaker_threshold",
		"ledger_breaker_cooldown":  "ledger.breaker_cooldown",

		"ws_send_buffer": "hub.send_buffer",
		"ws_max_clients": "hub.max_clients",

		"sim_tick_interval": "simulation.tick_interval",

		"events_store_path": "events.store_path",
		"events_in_memory":  "events.in_memory",
		"events_retention":  "events.retention",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unknown variables are dropped rather than guessed at; a typo that
	// silently lands in the wrong section is worse than an ignored var.
	return ""
}
