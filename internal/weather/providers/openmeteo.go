package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/Prithvi-2410/weatherforcast/internal/weather"
	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"
)

// OpenMeteoProvider implements weather.Provider for Open-Meteo, which is
// keyless but coordinate-based: city names are resolved to lat/lon through
// the Google geocoding API and the result cached per city.
type OpenMeteoProvider struct {
	name    string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker

	mu     sync.Mutex
	coords map[string]geocoder.Location

	// Overridable in tests.
	BaseURL string
}

// NewOpenMeteoProvider creates the provider. geocoderAPIKey is the Google
// geocoding credential; without it every fetch fails.
func NewOpenMeteoProvider(client *http.Client, geocoderAPIKey string) *OpenMeteoProvider {
	geocoder.ApiKey = geocoderAPIKey

	return &OpenMeteoProvider{
		name: "openmeteo",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: newCircuit("openmeteo"),
		coords:  make(map[string]geocoder.Location),
		BaseURL: "https://api.open-meteo.com/v1/forecast",
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) locate(city string) (geocoder.Location, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if loc, ok := p.coords[city]; ok {
		return loc, nil
	}

	loc, err := geocoder.Geocoding(geocoder.Address{City: city})
	if err != nil {
		return geocoder.Location{}, fmt.Errorf("geocode %q: %w", city, err)
	}

	p.coords[city] = loc
	return loc, nil
}

func (p *OpenMeteoProvider) Current(ctx context.Context, city string) (weather.Observation, error) {
	loc, err := p.locate(city)
	if err != nil {
		return weather.Observation{}, err
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
		values.Set("current", "temperature_2m,relative_humidity_2m,pressure_msl,wind_speed_10m")

		return http.NewRequest(http.MethodGet, p.BaseURL+"?"+values.Encode(), nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Observation{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			Time        string  `json:"time"`
			Temperature float64 `json:"temperature_2m"`
			Humidity    float64 `json:"relative_humidity_2m"`
			Pressure    float64 `json:"pressure_msl"`
			WindSpeed   float64 `json:"wind_speed_10m"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Observation{}, err
	}

	ts, err := time.Parse("2006-01-02T15:04", payload.Current.Time)
	if err != nil {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	return weather.Observation{
		City:         city,
		Timestamp:    ts,
		TemperatureC: payload.Current.Temperature,
		HumidityPct:  payload.Current.Humidity,
		PressureHpa:  payload.Current.Pressure,
		// Open-Meteo reports wind in km/h by default.
		WindSpeedMS: payload.Current.WindSpeed / 3.6,
	}, nil
}
