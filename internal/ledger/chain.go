// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/syzygy/internal/logging"
	"github.com/tomtom215/syzygy/internal/metrics"
)

// ChainConfig configures the HTTP attestation gateway client.
type ChainConfig struct {
	GatewayURL string
	Headers    map[string]string // Custom headers (e.g., auth)
	Timeout    time.Duration

	// RatePerSecond caps outbound attestation calls. Calls beyond the
	// rate fail fast with ReasonRateLimited rather than queueing.
	RatePerSecond float64

	// BreakerThreshold is the consecutive-failure count that opens the
	// circuit; BreakerCooldown is how long it stays open.
	BreakerThreshold uint32
	BreakerCooldown  time.Duration
}

// attestRequest is the JSON payload sent to the gateway.
type attestRequest struct {
	EventType string                 `json:"event_type"`
	Details   map[string]interface{} `json:"details"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"` // syzygy
}

// attestResponse is the gateway reply carrying the on-chain receipt.
type attestResponse struct {
	TxHash string `json:"tx_hash"`
}

// Chain attests events through an HTTP gateway, protected by a circuit
// breaker and an outbound rate limit so a slow or dead gateway cannot
// stall ingest.
type Chain struct {
	gatewayURL string
	headers    map[string]string
	client     *http.Client
	breaker    *gobreaker.CircuitBreaker[string]
	limiter    *rate.Limiter
}

// NewChain creates an attestation gateway client.
func NewChain(cfg ChainConfig) *Chain {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 10
	}
	threshold := cfg.BreakerThreshold
	if threshold == 0 {
		threshold = 5
	}
	cooldown := cfg.BreakerCooldown
	if cooldown == 0 {
		cooldown = 30 * time.Second
	}

	headers := make(map[string]string)
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	settings := gobreaker.Settings{
		Name:    "ledger-gateway",
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Ledger circuit breaker state changed")
		},
	}

	return &Chain{
		gatewayURL: cfg.GatewayURL,
		headers:    headers,
		client:     &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker[string](settings),
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)+1),
	}
}

// LogEvent attests an event through the gateway and returns the
// transaction hash receipt.
func (c *Chain) LogEvent(ctx context.Context, eventType string, details map[string]interface{}) (string, error) {
	if !c.limiter.Allow() {
		return "", &Error{Reason: ReasonRateLimited}
	}

	start := time.Now()
	txHash, err := c.breaker.Execute(func() (string, error) {
		return c.attest(ctx, eventType, details)
	})
	metrics.RecordAttestation(eventType, time.Since(start), err)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", &Error{Reason: ReasonUnavailable, Err: err}
		}
		var lerr *Error
		if errors.As(err, &lerr) {
			return "", lerr
		}
		return "", &Error{Reason: ReasonUnavailable, Err: err}
	}
	return txHash, nil
}

// State returns the circuit breaker state for health reporting.
func (c *Chain) State() string {
	return c.breaker.State().String()
}

func (c *Chain) attest(ctx context.Context, eventType string, details map[string]interface{}) (string, error) {
	payload := attestRequest{
		EventType: eventType,
		Details:   details,
		Timestamp: time.Now().UTC(),
		Source:    "syzygy",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &Error{Reason: ReasonRejected, Err: fmt.Errorf("marshal attest payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Reason: ReasonRejected, Err: fmt.Errorf("create attest request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &Error{Reason: ReasonUnavailable, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "", &Error{Reason: ReasonUnavailable, Err: fmt.Errorf("gateway returned status %d", resp.StatusCode)}
	}
	if resp.StatusCode >= 400 {
		return "", &Error{Reason: ReasonRejected, Err: fmt.Errorf("gateway returned status %d", resp.StatusCode)}
	}

	var out attestResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", &Error{Reason: ReasonBadResponse, Err: fmt.Errorf("decode gateway response: %w", err)}
	}
	if out.TxHash == "" {
		return "", &Error{Reason: ReasonBadResponse, Err: fmt.Errorf("gateway response missing tx_hash")}
	}
	return out.TxHash, nil
}
