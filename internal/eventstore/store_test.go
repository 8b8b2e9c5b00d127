// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package eventstore

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/syzygy/internal/logging"
)

func init() {
	logging.SetLogger(logging.NewTestLogger(io.Discard))
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{InMemory: true, Retention: time.Hour})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndRecent(t *testing.T) {
	s := openTestStore(t)

	base := time.Now().UTC().Add(-time.Minute)
	for i := 0; i < 5; i++ {
		err := s.Append(Record{
			EventType: "ANOMALY_SIM",
			Details:   map[string]interface{}{"seq": float64(i)},
			TxHash:    fmt.Sprintf("0x%d", i),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	records, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}

	// Newest first.
	for i, rec := range records {
		wantSeq := float64(4 - i)
		if rec.Details["seq"] != wantSeq {
			t.Errorf("record %d seq = %v, want %v", i, rec.Details["seq"], wantSeq)
		}
		if rec.ID == "" {
			t.Errorf("record %d has empty ID", i)
		}
	}
}

func TestRecentRespectsLimit(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 20; i++ {
		if err := s.Append(Record{EventType: "ANOMALY"}); err != nil {
			t.Fatal(err)
		}
	}

	records, err := s.Recent(7)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 7 {
		t.Errorf("got %d records, want 7", len(records))
	}
}

func TestRecentEmptyStore(t *testing.T) {
	s := openTestStore(t)
	records, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestAppendFillsDefaults(t *testing.T) {
	s := openTestStore(t)
	if err := s.Append(Record{EventType: "DEFENSE_SUGGEST"}); err != nil {
		t.Fatal(err)
	}
	records, err := s.Recent(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].ID == "" {
		t.Error("ID was not generated")
	}
	if records[0].Timestamp.IsZero() {
		t.Error("timestamp was not filled in")
	}
}

func TestCount(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 3; i++ {
		if err := s.Append(Record{EventType: "ANOMALY"}); err != nil {
			t.Fatal(err)
		}
	}
	n, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
}

func TestOpenPersistentRequiresPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("expected error for persistent store without path")
	}
}

func TestPersistentRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(Config{Path: dir})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Append(Record{EventType: "ANOMALY", TxHash: "0xdeadbeef"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(Config{Path: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	records, err := s.Recent(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].TxHash != "0xdeadbeef" {
		t.Errorf("round trip records = %+v", records)
	}
}
