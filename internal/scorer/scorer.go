// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

// Package scorer provides anomaly scoring for telemetry feature vectors.
//
// The production scorer is a Gaussian deviation model: per-feature means
// and standard deviations trained offline and shipped as a JSON file.
// A score is the mean absolute z-score of the vector against that model,
// so higher always means more anomalous. When no model is available the
// fail-open scorer keeps ingest alive by reporting every vector as nominal.
package scorer

import (
	"fmt"
	"math"
	"os"

	json "github.com/goccy/go-json"
)

// NominalScore is the sentinel returned when scoring cannot be performed.
// It is below any valid threshold, so degraded scoring never raises alerts.
const NominalScore = 0.0

// Scorer rates telemetry feature vectors. Implementations must be safe
// for concurrent use.
type Scorer interface {
	// Score returns the anomaly score for a feature vector. Higher is
	// more anomalous. Vectors the model cannot score return NominalScore.
	Score(features []float64) float64

	// IsAnomaly reports whether a score meets the alert threshold.
	IsAnomaly(score float64) bool

	// Threshold returns the configured alert threshold.
	Threshold() float64
}

// Model is the on-disk scorer parameter format.
type Model struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

// Gaussian scores vectors by mean absolute z-score against a trained model.
type Gaussian struct {
	model     Model
	threshold float64
}

// NewFromModel builds a Gaussian scorer from in-memory parameters.
func NewFromModel(m Model, threshold float64) (*Gaussian, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("scorer: threshold must be positive, got %v", threshold)
	}
	if len(m.Means) == 0 {
		return nil, fmt.Errorf("scorer: model has no features")
	}
	if len(m.Means) != len(m.Stds) {
		return nil, fmt.Errorf("scorer: model means/stds length mismatch: %d vs %d",
			len(m.Means), len(m.Stds))
	}
	for i, s := range m.Stds {
		if s <= 0 {
			return nil, fmt.Errorf("scorer: model std[%d] must be positive, got %v", i, s)
		}
	}
	return &Gaussian{model: m, threshold: threshold}, nil
}

// NewFromFile loads model parameters from a JSON file.
func NewFromFile(path string, threshold float64) (*Gaussian, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scorer: read model %s: %w", path, err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("scorer: parse model %s: %w", path, err)
	}
	return NewFromModel(m, threshold)
}

// Score returns the mean absolute z-score of features against the model.
// Vectors whose dimension does not match the model score as nominal.
func (g *Gaussian) Score(features []float64) float64 {
	if len(features) != len(g.model.Means) {
		return NominalScore
	}
	var total float64
	for i, v := range features {
		total += math.Abs(v-g.model.Means[i]) / g.model.Stds[i]
	}
	return total / float64(len(features))
}

// IsAnomaly reports whether score is at or above the threshold.
func (g *Gaussian) IsAnomaly(score float64) bool {
	return score >= g.threshold
}

// Threshold returns the alert threshold.
func (g *Gaussian) Threshold() float64 {
	return g.threshold
}

// FailOpen is the degraded scorer used when no model can be loaded.
// Every vector scores nominal, so ingest keeps flowing without alerts.
type FailOpen struct {
	threshold float64
}

// NewFailOpen returns a scorer that treats every vector as nominal.
func NewFailOpen(threshold float64) *FailOpen {
	return &FailOpen{threshold: threshold}
}

func (f *FailOpen) Score(_ []float64) float64 { return NominalScore }

func (f *FailOpen) IsAnomaly(score float64) bool { return score >= f.threshold }

func (f *FailOpen) Threshold() float64 { return f.threshold }
