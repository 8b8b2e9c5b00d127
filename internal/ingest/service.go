// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

// Package ingest is the live telemetry path: score a sample, fan it out
// to telemetry subscribers, and attest it when it is anomalous.
package ingest

import (
	"context"
	"time"

	"github.com/tomtom215/syzygy/internal/hub"
	"github.com/tomtom215/syzygy/internal/ledger"
	"github.com/tomtom215/syzygy/internal/logging"
	"github.com/tomtom215/syzygy/internal/metrics"
	"github.com/tomtom215/syzygy/internal/models"
	"github.com/tomtom215/syzygy/internal/scorer"
)

// Service scores, broadcasts, and attests telemetry samples.
type Service struct {
	hub    *hub.Hub
	scorer scorer.Scorer
	ledger ledger.Ledger
}

// NewService creates the ingestion service.
func NewService(h *hub.Hub, sc scorer.Scorer, lg ledger.Ledger) *Service {
	return &Service{hub: h, scorer: sc, ledger: lg}
}

// Detect scores a sample without broadcasting or attesting it.
func (s *Service) Detect(sample models.TelemetryIn) models.DetectionOut {
	score := s.scorer.Score(sample.Features)
	return models.DetectionOut{
		Score:     score,
		IsAnomaly: s.scorer.IsAnomaly(score),
		Threshold: s.scorer.Threshold(),
	}
}

// Ingest runs the full live path. The sample is broadcast whether or not
// it is anomalous; anomalous samples are additionally attested, and an
// attestation failure surfaces to the caller as a typed ledger error so
// the transport can report the sample as recorded-but-unattested.
func (s *Service) Ingest(ctx context.Context, sample models.TelemetryIn) (models.IngestOut, error) {
	if sample.TS == 0 {
		sample.TS = time.Now().UnixMilli()
	}

	detection := s.Detect(sample)
	metrics.RecordDetection("live", detection.Score, detection.IsAnomaly)

	msg := models.NewTelemetryMessage(sample.SatelliteID, sample.TS, sample.Features,
		detection.Score, detection.IsAnomaly, sample.Meta)
	if err := s.hub.Broadcast(hub.ChannelTelemetry, msg); err != nil {
		logging.Warn().Err(err).Msg("telemetry broadcast failed")
	}

	out := models.IngestOut{Detection: detection}
	if !detection.IsAnomaly {
		return out, nil
	}

	details := map[string]interface{}{
		"satellite_id": sample.SatelliteID,
		"ts":           sample.TS,
		"score":        detection.Score,
	}
	if len(sample.Meta) > 0 {
		details["meta"] = sample.Meta
	}
	txHash, err := s.ledger.LogEvent(ctx, models.EventAnomaly, details)
	if err != nil {
		logging.Error().
			Err(err).
			Str("satellite_id", sample.SatelliteID).
			Float64("score", detection.Score).
			Msg("anomaly attestation failed")
		return out, err
	}

	out.TxHash = &txHash
	return out, nil
}
