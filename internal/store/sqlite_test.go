package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "history.db"), 0)
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	base := time.Date(2024, 10, 14, 12, 0, 0, 0, time.UTC)

	if err := s.SaveSample(sampleAt("Pune", base, 27.3)); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.SaveSample(sampleAt("Pune", base.Add(time.Hour), 28.1)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	latest, err := s.Latest("Pune")
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if latest.TemperatureC != 28.1 {
		t.Errorf("expected latest temp 28.1, got %v", latest.TemperatureC)
	}
	if !latest.Timestamp.Equal(base.Add(time.Hour)) {
		t.Errorf("timestamp did not round-trip: %v", latest.Timestamp)
	}
}

func TestSQLiteStoreRange(t *testing.T) {
	s := newTestSQLite(t)
	base := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if err := s.SaveSample(sampleAt("Pune", base.Add(time.Duration(i)*time.Hour), float64(20+i))); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	got, err := s.Range("Pune", base.Add(1*time.Hour), base.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("range failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(got))
	}
	if got[0].TemperatureC != 21 {
		t.Errorf("expected oldest-first ordering, got %+v", got[0])
	}
}

func TestSQLiteStoreNotFound(t *testing.T) {
	s := newTestSQLite(t)

	if _, err := s.Latest("Pune"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Range("Pune", time.Time{}, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
