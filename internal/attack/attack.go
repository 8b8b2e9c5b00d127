// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

// Package attack implements the adversarial perturbation model used by red
// team simulation runs. All functions are pure and stateless: they never
// mutate the input vector and hold no shared state.
package attack

import (
	"math/rand/v2"

	"github.com/tomtom215/syzygy/internal/models"
)

// Hint is a defense recommendation for an attack kind.
type Hint struct {
	Defense string `json:"defense"`
}

// Defense recommendations by attack kind.
const (
	DefenseFrequencyHopping = "frequency_hopping"
	DefenseAuthentication   = "authentication"
	DefenseInputFirewall    = "input_firewall"
	DefenseMonitor          = "monitor"
)

// scale converts an intensity (0-100) to a perturbation scale with a
// floor of 0.1, so even intensity 0 produces a measurable disturbance.
func scale(intensity int) float64 {
	s := float64(intensity) / 100.0
	if s < 0.1 {
		return 0.1
	}
	return s
}

// Perturb returns a copy of features disturbed according to the attack kind:
//
//   - jamming: independent zero-mean Gaussian noise on every component,
//     stddev = scale
//   - spoofing: constant bias of 2*scale on every component
//   - injection: 5*scale added to one uniformly chosen component
//
// Unknown attack kinds are benign no-ops: callers validate the kind
// upstream, and an unrecognized value must not corrupt the baseline.
func Perturb(features []float64, attackKind string, intensity int) []float64 {
	out := make([]float64, len(features))
	copy(out, features)
	if len(out) == 0 {
		return out
	}

	s := scale(intensity)
	switch attackKind {
	case models.AttackJamming:
		for i := range out {
			out[i] += rand.NormFloat64() * s
		}
	case models.AttackSpoofing:
		bias := 2.0 * s
		for i := range out {
			out[i] += bias
		}
	case models.AttackInjection:
		out[rand.IntN(len(out))] += 5.0 * s
	}
	return out
}

// DefenseHint maps an attack kind to a countermeasure recommendation.
// Unknown kinds map to plain monitoring.
func DefenseHint(attackKind string) Hint {
	switch attackKind {
	case models.AttackJamming:
		return Hint{Defense: DefenseFrequencyHopping}
	case models.AttackSpoofing:
		return Hint{Defense: DefenseAuthentication}
	case models.AttackInjection:
		return Hint{Defense: DefenseInputFirewall}
	default:
		return Hint{Defense: DefenseMonitor}
	}
}
