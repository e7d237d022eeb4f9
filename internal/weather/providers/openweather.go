package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/Prithvi-2410/weatherforcast/internal/weather"
	"github.com/sony/gobreaker"
)

// OpenWeatherProvider implements weather.ForecastProvider against
// OpenWeatherMap: /data/2.5/weather for current conditions and
// /data/2.5/forecast for the 5-day/3-hour feed. All calls use metric units.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker

	// Overridable in tests.
	CurrentURL  string
	ForecastURL string
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:   "openweathermap",
		apiKey: apiKey,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit:     newCircuit("openweather"),
		CurrentURL:  "https://api.openweathermap.org/data/2.5/weather",
		ForecastURL: "https://api.openweathermap.org/data/2.5/forecast",
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) buildRequest(base, city string) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		// The city string goes through verbatim; the provider resolves it.
		values.Set("q", city)

		return http.NewRequest(http.MethodGet, base+"?"+values.Encode(), nil)
	}
}

func (p *OpenWeatherProvider) Current(ctx context.Context, city string) (weather.Observation, error) {
	if p.apiKey == "" {
		return weather.Observation{}, weather.ErrMissingAPIKey
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, p.buildRequest(p.CurrentURL, city))
	if err != nil {
		if errors.Is(err, errNotFound) {
			return weather.Observation{}, weather.ErrCityNotFound
		}
		return weather.Observation{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Name string `json:"name"`
		Dt   int64  `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			TempMin   float64 `json:"temp_min"`
			TempMax   float64 `json:"temp_max"`
			Humidity  float64 `json:"humidity"`
			Pressure  float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   int     `json:"deg"`
		} `json:"wind"`
		Visibility float64 `json:"visibility"`
		Sys        struct {
			Sunrise int64 `json:"sunrise"`
			Sunset  int64 `json:"sunset"`
		} `json:"sys"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Observation{}, err
	}

	ts := time.Unix(payload.Dt, 0).UTC()
	if payload.Dt == 0 {
		ts = time.Now().UTC()
	}

	obs := weather.Observation{
		City:         city,
		Timestamp:    ts,
		TemperatureC: payload.Main.Temp,
		FeelsLikeC:   payload.Main.FeelsLike,
		TempMinC:     payload.Main.TempMin,
		TempMaxC:     payload.Main.TempMax,
		HumidityPct:  payload.Main.Humidity,
		PressureHpa:  payload.Main.Pressure,
		WindSpeedMS:  payload.Wind.Speed,
		WindDeg:      payload.Wind.Deg,
		VisibilityM:  payload.Visibility,
		Sunrise:      time.Unix(payload.Sys.Sunrise, 0).UTC(),
		Sunset:       time.Unix(payload.Sys.Sunset, 0).UTC(),
	}
	if payload.Name != "" {
		obs.City = payload.Name
	}
	if len(payload.Weather) > 0 {
		obs.Description = payload.Weather[0].Description
		obs.Icon = payload.Weather[0].Icon
	}

	return obs, nil
}

func (p *OpenWeatherProvider) Forecast(ctx context.Context, city string) ([]weather.ForecastPoint, error) {
	if p.apiKey == "" {
		return nil, weather.ErrMissingAPIKey
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, p.buildRequest(p.ForecastURL, city))
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, weather.ErrCityNotFound
		}
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				TempMax float64 `json:"temp_max"`
				TempMin float64 `json:"temp_min"`
			} `json:"main"`
			Weather []struct {
				Main string `json:"main"`
				Icon string `json:"icon"`
			} `json:"weather"`
		} `json:"list"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	points := make([]weather.ForecastPoint, 0, len(payload.List))
	for _, item := range payload.List {
		point := weather.ForecastPoint{
			Timestamp: item.Dt,
			TempMaxC:  item.Main.TempMax,
			TempMinC:  item.Main.TempMin,
		}
		if len(item.Weather) > 0 {
			point.Category = item.Weather[0].Main
			point.Icon = item.Weather[0].Icon
		}
		points = append(points, point)
	}

	return points, nil
}
