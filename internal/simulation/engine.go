// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

// Package simulation runs timed attack exercises against the telemetry
// pipeline. A run perturbs the baseline vector every tick, scores the
// result, fans both frames out through the hub, and attests anomalies to
// the ledger. Runs are fire-and-forget: starting one returns immediately
// and the run cannot be canceled, only outlived.
package simulation

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/syzygy/internal/attack"
	"github.com/tomtom215/syzygy/internal/eventstore"
	"github.com/tomtom215/syzygy/internal/hub"
	"github.com/tomtom215/syzygy/internal/ledger"
	"github.com/tomtom215/syzygy/internal/logging"
	"github.com/tomtom215/syzygy/internal/metrics"
	"github.com/tomtom215/syzygy/internal/models"
	"github.com/tomtom215/syzygy/internal/scorer"
)

// Run states, in lifecycle order.
const (
	StatePending    = "PENDING"
	StateRunning    = "RUNNING"
	StateSuggesting = "SUGGESTING"
	StateDone       = "DONE"
)

const (
	defaultDurationSec = 20
	maxDurationSec     = 600

	// maxRuns bounds the registry; finished runs beyond it are evicted
	// oldest first. Live runs are never evicted.
	maxRuns = 100
)

// Run is the observable record of one simulation run.
type Run struct {
	ID          string     `json:"id"`
	Mode        string     `json:"mode"`
	Attack      string     `json:"attack"`
	Intensity   int        `json:"intensity"`
	DurationSec int        `json:"duration_sec"`
	State       string     `json:"state"`
	Ticks       int        `json:"ticks"`
	Anomalies   int        `json:"anomalies"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// Config configures the engine.
type Config struct {
	// Baseline is the nominal feature vector replayed each tick.
	Baseline []float64

	// TickInterval is the loop period. Zero means one second.
	TickInterval time.Duration
}

// Recorder persists attested receipts for the recent-events listing.
// Satisfied by *eventstore.Store.
type Recorder interface {
	Append(rec eventstore.Record) error
}

// Engine starts and tracks simulation runs.
type Engine struct {
	baseline     []float64
	tickInterval time.Duration
	hub          *hub.Hub
	scorer       scorer.Scorer
	ledger       ledger.Ledger
	recorder     Recorder

	mu   sync.RWMutex
	runs map[string]*Run
}

// NewEngine creates a simulation engine. A nil recorder disables local
// receipt history; attestation itself is unaffected.
func NewEngine(cfg Config, h *hub.Hub, sc scorer.Scorer, lg ledger.Ledger, rec Recorder) *Engine {
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	baseline := make([]float64, len(cfg.Baseline))
	copy(baseline, cfg.Baseline)
	return &Engine{
		baseline:     baseline,
		tickInterval: interval,
		hub:          h,
		scorer:       sc,
		ledger:       lg,
		recorder:     rec,
		runs:         make(map[string]*Run),
	}
}

// Start validates and launches a run, returning its acknowledgment
// immediately. The run loop executes on its own goroutine.
func (e *Engine) Start(cmd models.SimCommand) (models.SimStarted, error) {
	duration := cmd.DurationSec
	if duration == 0 {
		duration = defaultDurationSec
	}
	if duration < 1 || duration > maxDurationSec {
		return models.SimStarted{}, fmt.Errorf("simulation: duration_sec %d out of range [1,%d]", duration, maxDurationSec)
	}
	switch cmd.Mode {
	case models.ModeRed, models.ModeBlue:
	default:
		return models.SimStarted{}, fmt.Errorf("simulation: unknown mode %q", cmd.Mode)
	}
	switch cmd.Attack {
	case models.AttackJamming, models.AttackSpoofing, models.AttackInjection:
	default:
		return models.SimStarted{}, fmt.Errorf("simulation: unknown attack %q", cmd.Attack)
	}
	if cmd.Intensity < 0 || cmd.Intensity > 100 {
		return models.SimStarted{}, fmt.Errorf("simulation: intensity %d out of range [0,100]", cmd.Intensity)
	}

	run := &Run{
		ID:          uuid.NewString(),
		Mode:        cmd.Mode,
		Attack:      cmd.Attack,
		Intensity:   cmd.Intensity,
		DurationSec: duration,
		State:       StatePending,
		StartedAt:   time.Now().UTC(),
	}

	e.mu.Lock()
	e.runs[run.ID] = run
	e.pruneLocked()
	e.mu.Unlock()

	metrics.RecordSimRun(run.Mode, run.Attack)
	logging.Info().
		Str("run_id", run.ID).
		Str("mode", run.Mode).
		Str("attack", run.Attack).
		Int("intensity", run.Intensity).
		Int("duration_sec", run.DurationSec).
		Msg("simulation run started")

	go e.loop(run)

	return models.SimStarted{Status: "started", RunID: run.ID}, nil
}

// Runs returns all known runs, newest first.
func (e *Engine) Runs() []Run {
	e.mu.RLock()
	out := make([]Run, 0, len(e.runs))
	for _, r := range e.runs {
		out = append(out, *r)
	}
	e.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out
}

// Get returns one run by ID.
func (e *Engine) Get(id string) (Run, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.runs[id]
	if !ok {
		return Run{}, false
	}
	return *r, true
}

// loop is the run body. The duration is wall clock: the loop keeps
// ticking until DurationSec has elapsed regardless of tick cost.
func (e *Engine) loop(run *Run) {
	e.setState(run.ID, StateRunning)

	start := time.Now()
	deadline := start.Add(time.Duration(run.DurationSec) * time.Second)
	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		e.tick(run)
		if !time.Now().Before(deadline) {
			break
		}
		<-ticker.C
	}

	e.setState(run.ID, StateSuggesting)
	e.suggest(run)
	e.finish(run.ID)

	logging.Info().
		Str("run_id", run.ID).
		Dur("elapsed", time.Since(start)).
		Msg("simulation run finished")
}

func (e *Engine) tick(run *Run) {
	features := make([]float64, len(e.baseline))
	copy(features, e.baseline)
	if run.Mode == models.ModeRed {
		features = attack.Perturb(features, run.Attack, run.Intensity)
	}

	score := e.scorer.Score(features)
	isAnomaly := e.scorer.IsAnomaly(score)
	metrics.RecordSimTick(isAnomaly)
	ts := time.Now().UnixMilli()

	e.broadcast(hub.ChannelSim, models.NewSimMessage(run.Attack, run.Mode, ts, features, score, isAnomaly))
	e.broadcast(hub.ChannelTelemetry, models.NewTelemetryMessage("SIM", ts, features, score, isAnomaly, map[string]string{
		"mode":   run.Mode,
		"attack": run.Attack,
	}))

	e.mu.Lock()
	run.Ticks++
	if isAnomaly {
		run.Anomalies++
	}
	e.mu.Unlock()

	if isAnomaly {
		details := map[string]interface{}{
			"run_id": run.ID,
			"attack": run.Attack,
			"mode":   run.Mode,
			"score":  score,
			"ts":     ts,
		}
		txHash, err := e.ledger.LogEvent(context.Background(), models.EventAnomalySim, details)
		if err != nil {
			// A dead ledger must not stop the exercise.
			logging.Warn().Err(err).Str("run_id", run.ID).Msg("simulation anomaly attestation failed")
			return
		}
		e.record(models.EventAnomalySim, details, txHash)
		e.broadcast(hub.ChannelTelemetry, models.NewEventMessage(models.EventAnomalySim, map[string]string{
			"run_id": run.ID,
			"attack": run.Attack,
			"score":  strconv.FormatFloat(score, 'f', -1, 64),
		}, txHash))
	}
}

// suggest attests and announces the defense recommendation that closes
// every run, whether or not any tick was anomalous.
func (e *Engine) suggest(run *Run) {
	hint := attack.DefenseHint(run.Attack)
	details := map[string]interface{}{
		"run_id":  run.ID,
		"attack":  run.Attack,
		"defense": hint.Defense,
	}

	txHash, err := e.ledger.LogEvent(context.Background(), models.EventDefenseSuggest, details)
	if err != nil {
		logging.Warn().Err(err).Str("run_id", run.ID).Msg("defense suggestion attestation failed")
	} else {
		e.record(models.EventDefenseSuggest, details, txHash)
	}
	e.broadcast(hub.ChannelTelemetry, models.NewEventMessage(models.EventDefenseSuggest, map[string]string{
		"run_id":  run.ID,
		"attack":  run.Attack,
		"defense": hint.Defense,
	}, txHash))
}

// record keeps an attested receipt locally so it shows up in the
// recent-events listing alongside API-layer attestations.
func (e *Engine) record(eventType string, details map[string]interface{}, txHash string) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Append(eventstore.Record{
		EventType: eventType,
		Details:   details,
		TxHash:    txHash,
	}); err != nil {
		logging.Warn().Err(err).Str("event_type", eventType).Msg("failed to store simulation receipt")
	}
}

// pruneLocked evicts the oldest finished runs once the registry exceeds
// maxRuns. Callers must hold e.mu.
func (e *Engine) pruneLocked() {
	if len(e.runs) <= maxRuns {
		return
	}
	done := make([]*Run, 0, len(e.runs))
	for _, r := range e.runs {
		if r.State == StateDone {
			done = append(done, r)
		}
	}
	sort.Slice(done, func(i, j int) bool {
		if done[i].StartedAt.Equal(done[j].StartedAt) {
			return done[i].ID < done[j].ID
		}
		return done[i].StartedAt.Before(done[j].StartedAt)
	})
	for _, r := range done {
		if len(e.runs) <= maxRuns {
			break
		}
		delete(e.runs, r.ID)
	}
}

func (e *Engine) broadcast(channel string, msg models.Message) {
	if err := e.hub.Broadcast(channel, msg); err != nil {
		logging.Warn().Err(err).Str("channel", channel).Msg("simulation broadcast failed")
	}
}

func (e *Engine) setState(id, state string) {
	e.mu.Lock()
	if r, ok := e.runs[id]; ok {
		r.State = state
	}
	e.mu.Unlock()
}

func (e *Engine) finish(id string) {
	e.mu.Lock()
	if r, ok := e.runs[id]; ok {
		r.State = StateDone
		now := time.Now().UTC()
		r.FinishedAt = &now
	}
	e.mu.Unlock()
}
