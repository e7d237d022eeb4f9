package providers

import (
	"context"
	"fmt"

	"github.com/Prithvi-2410/weatherforcast/internal/weather"
	"golang.org/x/time/rate"
)

// RateLimitedProvider wraps a weather.Provider with a token-bucket limiter
// so sampling never exceeds a provider's free-tier quota. rps may be
// fractional for providers allowing fewer than one call per second.
type RateLimitedProvider struct {
	provider weather.Provider
	limiter  *rate.Limiter
}

func NewRateLimitedProvider(provider weather.Provider, rps float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (p *RateLimitedProvider) Name() string {
	return p.provider.Name()
}

func (p *RateLimitedProvider) Current(ctx context.Context, city string) (weather.Observation, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return weather.Observation{}, fmt.Errorf("rate limiter wait: %w", err)
	}
	return p.provider.Current(ctx, city)
}

// RateLimitedForecastProvider additionally forwards forecast calls through
// the same bucket, so current and forecast requests share one quota.
type RateLimitedForecastProvider struct {
	RateLimitedProvider
	forecast weather.ForecastProvider
}

func NewRateLimitedForecastProvider(provider weather.ForecastProvider, rps float64, burst int) *RateLimitedForecastProvider {
	return &RateLimitedForecastProvider{
		RateLimitedProvider: RateLimitedProvider{
			provider: provider,
			limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		},
		forecast: provider,
	}
}

func (p *RateLimitedForecastProvider) Forecast(ctx context.Context, city string) ([]weather.ForecastPoint, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}
	return p.forecast.Forecast(ctx, city)
}
