package store

import (
	"errors"
	"sync"
	"time"

	"github.com/Prithvi-2410/weatherforcast/internal/weather"
)

var (
	// ErrNotFound is returned when no history exists for a given city.
	ErrNotFound = errors.New("no weather history for city")
)

// sampleHistory holds a time-ordered list of samples for one city.
type sampleHistory struct {
	Samples []weather.Sample
}

// MemoryStore is a concurrency-safe in-memory implementation of
// weather.Store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: city, value: history
	data map[string]*sampleHistory

	// retention configuration
	maxHistory int           // max number of samples per city
	maxAge     time.Duration // optional max age for samples
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*sampleHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveSample appends a new sample for its city and enforces retention.
func (s *MemoryStore) SaveSample(sample weather.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[sample.City]
	if !ok {
		history = &sampleHistory{}
		s.data[sample.City] = history
	}

	history.Samples = append(history.Samples, sample)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Samples) > s.maxHistory {
		over := len(history.Samples) - s.maxHistory
		history.Samples = history.Samples[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Samples); i++ {
			if !history.Samples[i].Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history.Samples) {
			history.Samples = history.Samples[i:]
		}
	}

	return nil
}

// Latest returns the most recent sample for a city.
func (s *MemoryStore) Latest(city string) (weather.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[city]
	if !ok || len(history.Samples) == 0 {
		return weather.Sample{}, ErrNotFound
	}
	return history.Samples[len(history.Samples)-1], nil
}

// Range returns all samples for a city between from and to (inclusive).
func (s *MemoryStore) Range(city string, from, to time.Time) ([]weather.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[city]
	if !ok || len(history.Samples) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.Sample
	for _, sample := range history.Samples {
		if !sample.Timestamp.Before(from) && !sample.Timestamp.After(to) {
			result = append(result, sample)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
