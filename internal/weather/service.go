package weather

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Service fronts the primary forecast provider for user-facing lookups and
// fans out to the sampling providers to build up city history.
type Service struct {
	store    Store
	primary  ForecastProvider
	samplers []Provider
}

// NewService creates a new Service. primary serves interactive lookups;
// samplers feed the history store and may overlap with primary.
func NewService(store Store, primary ForecastProvider, samplers []Provider) *Service {
	return &Service{
		store:    store,
		primary:  primary,
		samplers: samplers,
	}
}

// Current fetches and maps the current conditions for a city.
func (s *Service) Current(ctx context.Context, city string) (CurrentConditions, error) {
	if s.primary == nil {
		return CurrentConditions{}, fmt.Errorf("no weather provider configured")
	}

	obs, err := s.primary.Current(ctx, city)
	if err != nil {
		return CurrentConditions{}, err
	}
	return MapCurrent(obs), nil
}

// Forecast fetches the raw forecast points for a city and aggregates them
// into one summary per calendar day.
func (s *Service) Forecast(ctx context.Context, city string) ([]DailySummary, error) {
	if s.primary == nil {
		return nil, fmt.Errorf("no weather provider configured")
	}

	points, err := s.primary.Forecast(ctx, city)
	if err != nil {
		return nil, err
	}
	return AggregateDaily(points)
}

// ForecastPoints returns the raw, unaggregated forecast sequence.
func (s *Service) ForecastPoints(ctx context.Context, city string) ([]ForecastPoint, error) {
	if s.primary == nil {
		return nil, fmt.Errorf("no weather provider configured")
	}
	return s.primary.Forecast(ctx, city)
}

// SampleAndStore fetches current observations from every sampling provider
// concurrently and stores one history sample per success. A failed provider
// is logged and skipped; it never blocks the others.
func (s *Service) SampleAndStore(ctx context.Context, city string) error {
	if len(s.samplers) == 0 {
		return fmt.Errorf("no sampling providers configured")
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		samples []Sample
	)

	for _, p := range s.samplers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()

			obs, err := p.Current(ctx, city)
			if err != nil {
				log.Printf("provider %s sample failed for %s: %v", p.Name(), city, err)
				return
			}

			mu.Lock()
			samples = append(samples, SampleFromObservation(obs))
			mu.Unlock()
		}(p)
	}

	wg.Wait()

	if len(samples) == 0 {
		return fmt.Errorf("no successful samples for %s", city)
	}

	for _, sample := range samples {
		if sample.Timestamp.IsZero() {
			sample.Timestamp = time.Now().UTC()
		}
		if err := s.store.SaveSample(sample); err != nil {
			return fmt.Errorf("save sample for %s: %w", city, err)
		}
	}
	return nil
}

// History returns the stored samples for a city between from and to.
func (s *Service) History(city string, from, to time.Time) ([]Sample, error) {
	return s.store.Range(city, from, to)
}

// Latest returns the most recent stored sample for a city.
func (s *Service) Latest(city string) (Sample, error) {
	return s.store.Latest(city)
}
