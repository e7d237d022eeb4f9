package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Prithvi-2410/weatherforcast/internal/dashboard"
	"github.com/Prithvi-2410/weatherforcast/internal/store"
	"github.com/Prithvi-2410/weatherforcast/internal/weather"
)

type stubProvider struct {
	err error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Current(ctx context.Context, city string) (weather.Observation, error) {
	if p.err != nil {
		return weather.Observation{}, p.err
	}
	return weather.Observation{
		City:         city,
		Timestamp:    time.Now().UTC(),
		TemperatureC: 21.4,
		VisibilityM:  10000,
		Description:  "clear sky",
	}, nil
}

func (p *stubProvider) Forecast(ctx context.Context, city string) ([]weather.ForecastPoint, error) {
	if p.err != nil {
		return nil, p.err
	}
	ts := time.Date(2024, 10, 14, 9, 0, 0, 0, time.UTC)
	return []weather.ForecastPoint{
		{Timestamp: ts.Unix(), TempMaxC: 25, TempMinC: 14, Icon: "01d", Category: "Clear"},
		{Timestamp: ts.Add(24 * time.Hour).Unix(), TempMaxC: 23, TempMinC: 12, Icon: "10d", Category: "Rain"},
	}, nil
}

func newTestApp(provider weather.ForecastProvider, st weather.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": true, "message": err.Error()})
		},
	})

	svc := weather.NewService(st, provider, nil)
	RegisterRoutes(app, svc, dashboard.NewSearcher(svc), 3)
	return app
}

func seedStore(st weather.Store, city string, n int) {
	base := time.Now().UTC().Add(-time.Duration(n) * time.Hour)
	for i := 0; i < n; i++ {
		temp := 20 + float64(i%3)
		if i == n-1 {
			temp = 45 // outlier for the anomaly table
		}
		st.SaveSample(weather.Sample{
			City:         city,
			Timestamp:    base.Add(time.Duration(i) * time.Hour),
			TemperatureC: temp,
			HumidityPct:  60,
			PressureHpa:  1012,
		})
	}
}

func TestCurrentRequiresCity(t *testing.T) {
	app := newTestApp(&stubProvider{}, store.NewMemoryStore(0, 0))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/weather/current", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestCurrentReturnsDisplayRecord(t *testing.T) {
	app := newTestApp(&stubProvider{}, store.NewMemoryStore(0, 0))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/weather/current?city=Pune", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		City         string  `json:"city"`
		TemperatureC int     `json:"temperatureC"`
		VisibilityKm float64 `json:"visibilityKm"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.City != "Pune" || body.TemperatureC != 21 || body.VisibilityKm != 10.0 {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestCurrentCityNotFound(t *testing.T) {
	app := newTestApp(&stubProvider{err: weather.ErrCityNotFound}, store.NewMemoryStore(0, 0))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/weather/current?city=Nowhere", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestCurrentMissingCredential(t *testing.T) {
	app := newTestApp(&stubProvider{err: weather.ErrMissingAPIKey}, store.NewMemoryStore(0, 0))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/weather/current?city=Pune", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, resp.StatusCode)
	}
}

func TestForecastReturnsDailySummaries(t *testing.T) {
	app := newTestApp(&stubProvider{}, store.NewMemoryStore(0, 0))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/weather/forecast?city=Pune", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		City string                 `json:"city"`
		Days []weather.DailySummary `json:"days"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(body.Days))
	}
	if body.Days[0].Date != "Mon 14" || body.Days[1].Date != "Tue 15" {
		t.Errorf("unexpected day order: %+v", body.Days)
	}
}

func TestInsightsWithoutHistory(t *testing.T) {
	app := newTestApp(&stubProvider{}, store.NewMemoryStore(0, 0))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/insights?city=Pune", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestInsightsWithHistory(t *testing.T) {
	st := store.NewMemoryStore(0, 0)
	seedStore(st, "Pune", 24)
	app := newTestApp(&stubProvider{}, st)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/insights?city=Pune", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		City        string `json:"city"`
		SampleCount int    `json:"sampleCount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.City != "Pune" || body.SampleCount != 24 {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestAnomaliesEndpoint(t *testing.T) {
	st := store.NewMemoryStore(0, 0)
	seedStore(st, "Pune", 24)
	app := newTestApp(&stubProvider{}, st)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/anomalies?city=Pune&threshold=3", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		City      string  `json:"city"`
		Threshold float64 `json:"threshold"`
		Anomalies []struct {
			TemperatureC float64 `json:"temperatureC"`
		} `json:"anomalies"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Anomalies) != 1 || body.Anomalies[0].TemperatureC != 45 {
		t.Errorf("expected the seeded outlier, got %+v", body.Anomalies)
	}
}

func TestSearchEndpointToleratesPartialFailure(t *testing.T) {
	app := newTestApp(&stubProvider{err: weather.ErrCityNotFound}, store.NewMemoryStore(0, 0))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/search?city=Nowhere", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search must answer 200 with inline errors, got %d", resp.StatusCode)
	}

	var body dashboard.Result
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Errors["current"] == "" || body.Errors["forecast"] == "" {
		t.Errorf("expected component errors inline: %+v", body.Errors)
	}
}

func TestForecastGraphPNG(t *testing.T) {
	app := newTestApp(&stubProvider{}, store.NewMemoryStore(0, 0))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/graphs/forecast.png?city=Pune&t=1728892800", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
}
