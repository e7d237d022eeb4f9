package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Prithvi-2410/weatherforcast/internal/weather"
	"github.com/sony/gobreaker"
)

// WeatherAPIProvider implements weather.Provider for WeatherAPI.com. Used as
// a secondary sampling source for the history store; it does not serve the
// interactive forecast.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker

	// Overridable in tests.
	BaseURL string
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:   "weatherapi",
		apiKey: apiKey,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: newCircuit("weatherapi"),
		BaseURL: "https://api.weatherapi.com/v1/current.json",
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Current(ctx context.Context, city string) (weather.Observation, error) {
	if p.apiKey == "" {
		return weather.Observation{}, weather.ErrMissingAPIKey
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", city)

		return http.NewRequest(http.MethodGet, p.BaseURL+"?"+values.Encode(), nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return weather.Observation{}, weather.ErrCityNotFound
		}
		return weather.Observation{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Location struct {
			Name           string `json:"name"`
			LocaltimeEpoch int64  `json:"localtime_epoch"`
		} `json:"location"`
		Current struct {
			TempC      float64 `json:"temp_c"`
			FeelslikeC float64 `json:"feelslike_c"`
			Humidity   float64 `json:"humidity"`
			WindKph    float64 `json:"wind_kph"`
			WindDegree int     `json:"wind_degree"`
			PressureMb float64 `json:"pressure_mb"`
			VisKm      float64 `json:"vis_km"`
			Condition  struct {
				Text string `json:"text"`
			} `json:"condition"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Observation{}, err
	}

	ts := time.Unix(payload.Location.LocaltimeEpoch, 0).UTC()
	if payload.Location.LocaltimeEpoch == 0 {
		ts = time.Now().UTC()
	}

	name := payload.Location.Name
	if name == "" {
		name = city
	}

	return weather.Observation{
		City:         name,
		Timestamp:    ts,
		TemperatureC: payload.Current.TempC,
		FeelsLikeC:   payload.Current.FeelslikeC,
		HumidityPct:  payload.Current.Humidity,
		PressureHpa:  payload.Current.PressureMb,
		WindSpeedMS:  payload.Current.WindKph / 3.6,
		WindDeg:      payload.Current.WindDegree,
		VisibilityM:  payload.Current.VisKm * 1000,
		Description:  strings.ToLower(payload.Current.Condition.Text),
	}, nil
}
