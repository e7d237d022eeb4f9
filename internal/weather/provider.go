package weather

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMissingAPIKey means a provider was asked to fetch without a
	// configured credential. Checked before any request leaves the process.
	ErrMissingAPIKey = errors.New("weather api key is not configured")

	// ErrCityNotFound is the provider-reported unknown-city condition.
	ErrCityNotFound = errors.New("city not found")
)

// Provider abstracts a current-conditions source (e.g. OpenWeatherMap,
// WeatherAPI, Open-Meteo). The city string is passed verbatim as the
// provider query.
type Provider interface {
	Name() string
	Current(ctx context.Context, city string) (Observation, error)
}

// ForecastProvider is a Provider that can also serve a multi-day,
// multi-point-per-day forecast.
type ForecastProvider interface {
	Provider
	Forecast(ctx context.Context, city string) ([]ForecastPoint, error)
}

// Store is the contract the history stores (in-memory and SQLite) satisfy.
type Store interface {
	SaveSample(s Sample) error
	Latest(city string) (Sample, error)
	Range(city string, from, to time.Time) ([]Sample, error)
}
