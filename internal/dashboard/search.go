// Package dashboard composes one city search: current conditions, the
// aggregated daily forecast, and historical insights fetched side by side.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/Prithvi-2410/weatherforcast/internal/insights"
	"github.com/Prithvi-2410/weatherforcast/internal/weather"
	"go.uber.org/atomic"
)

// Result is the composite answer for one search. Components fail
// independently; a failed component leaves its field zero and records the
// error under its name in Errors.
type Result struct {
	City       string                     `json:"city"`
	Generation uint64                     `json:"generation"`
	Current    *weather.CurrentConditions `json:"current,omitempty"`
	Forecast   []weather.DailySummary     `json:"forecast,omitempty"`
	Insights   *insights.Report           `json:"insights,omitempty"`
	Errors     map[string]string          `json:"errors,omitempty"`
}

type cachedResult struct {
	gen    uint64
	result Result
}

// Searcher runs searches against the weather service. Every search takes a
// monotonically increasing generation; a slow search that finishes after a
// newer one never overwrites the newer result in the per-city cache.
type Searcher struct {
	svc *weather.Service
	gen atomic.Uint64

	mu     sync.Mutex
	latest map[string]cachedResult
}

func NewSearcher(svc *weather.Service) *Searcher {
	return &Searcher{
		svc:    svc,
		latest: make(map[string]cachedResult),
	}
}

// Search fans out the three dashboard components concurrently and returns
// the composite once all have finished or failed.
func (s *Searcher) Search(ctx context.Context, city string) Result {
	gen := s.gen.Inc()

	result := Result{
		City:       city,
		Generation: gen,
		Errors:     make(map[string]string),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	fail := func(component string, err error) {
		mu.Lock()
		result.Errors[component] = err.Error()
		mu.Unlock()
	}

	wg.Add(3)

	go func() {
		defer wg.Done()
		current, err := s.svc.Current(ctx, city)
		if err != nil {
			fail("current", err)
			return
		}
		result.Current = &current
	}()

	go func() {
		defer wg.Done()
		forecast, err := s.svc.Forecast(ctx, city)
		if err != nil {
			fail("forecast", err)
			return
		}
		result.Forecast = forecast
	}()

	go func() {
		defer wg.Done()
		samples, err := s.svc.History(city, time.Time{}, time.Now().UTC())
		if err != nil {
			fail("insights", err)
			return
		}
		report, err := insights.Compute(city, samples)
		if err != nil {
			fail("insights", err)
			return
		}
		result.Insights = &report
	}()

	wg.Wait()

	if len(result.Errors) == 0 {
		result.Errors = nil
	}

	s.commit(city, gen, result)
	return result
}

// commit stores the result as the city's latest unless a newer generation
// already finished.
func (s *Searcher) commit(city string, gen uint64, result Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.latest[city]; ok && cached.gen > gen {
		return
	}
	s.latest[city] = cachedResult{gen: gen, result: result}
}

// Latest returns the newest completed search result for a city.
func (s *Searcher) Latest(city string) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached, ok := s.latest[city]
	return cached.result, ok
}
