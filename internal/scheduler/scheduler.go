package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Prithvi-2410/weatherforcast/internal/weather"
	"github.com/go-co-op/gocron"
)

// Scheduler periodically samples current conditions for configured cities
// into the history store, building the series the insights endpoints need.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	cities    []string
	interval  time.Duration
}

// New creates a new Scheduler.
func New(cities []string, interval time.Duration, service *weather.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		cities:    cities,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		log.Println("scheduler: no cities configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running sampling job")

		var wg sync.WaitGroup
		for _, city := range s.cities {
			wg.Add(1)
			go func(city string) {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := s.service.SampleAndStore(ctx, city); err != nil {
					log.Printf("scheduler: sampling failed for %s: %v", city, err)
				}
			}(city)
		}
		wg.Wait()
		log.Println("scheduler: completed sampling job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
