// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

// Package eventstore keeps a local history of attested security events.
// Every event that reaches the ledger is also recorded here with its
// receipt, so operators can query recent anomalies without touching the
// chain gateway. Entries expire after the configured retention window.
package eventstore

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/syzygy/internal/logging"
	"github.com/tomtom215/syzygy/internal/metrics"
)

const keyPrefix = "event:"

// Record is one attested security event.
type Record struct {
	ID        string                 `json:"id"`
	EventType string                 `json:"event_type"`
	Details   map[string]interface{} `json:"details,omitempty"`
	TxHash    string                 `json:"tx_hash,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Config configures the event history store.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory runs BadgerDB without disk persistence. Used in tests
	// and in deployments that treat history as ephemeral.
	InMemory bool

	// Retention is how long records live before TTL expiry.
	// Zero means keep forever.
	Retention time.Duration
}

// Store is a BadgerDB-backed attested-event history.
type Store struct {
	db        *badger.DB
	retention time.Duration
}

// Open creates or opens the event store.
func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("eventstore: path is required for persistent store")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("eventstore: open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Dur("retention", cfg.Retention).
		Msg("Event store opened")

	return &Store{db: db, retention: cfg.Retention}, nil
}

// Append records an attested event. A zero ID or timestamp is filled in.
func (s *Store) Append(rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("eventstore: marshal record: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(recordKey(rec.Timestamp, rec.ID), value)
		if s.retention > 0 {
			entry = entry.WithTTL(s.retention)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("eventstore: append record: %w", err)
	}
	metrics.RecordEventStored()
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	records := make([]Record, 0, limit)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration needs a seek key past every event key.
		seek := append([]byte(keyPrefix), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
		for it.Seek(seek); it.Valid() && len(records) < limit; it.Next() {
			var rec Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("eventstore: scan recent: %w", err)
	}
	return records, nil
}

// Count returns the number of live records.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("eventstore: count: %w", err)
	}
	return n, nil
}

// RunGC runs the BadgerDB value log garbage collector until ctx is done.
// Intended to run as a supervised background service.
func (s *Store) RunGC(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// ErrNoRewrite is the normal nothing-to-collect result.
			if err := s.db.RunValueLogGC(0.5); err != nil && err != badger.ErrNoRewrite {
				logging.Warn().Err(err).Msg("Event store GC failed")
			}
		}
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// recordKey orders records by timestamp with the ID as a uniqueness
// suffix, so iteration order is chronological.
func recordKey(ts time.Time, id string) []byte {
	key := make([]byte, 0, len(keyPrefix)+8+len(id))
	key = append(key, keyPrefix...)
	key = binary.BigEndian.AppendUint64(key, uint64(ts.UnixNano()))
	key = append(key, id...)
	return key
}
