package insights

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Prithvi-2410/weatherforcast/internal/weather"
)

func sampleAt(ts time.Time, temp, humidity, pressure float64) weather.Sample {
	return weather.Sample{
		City:         "Pune",
		Timestamp:    ts,
		TemperatureC: temp,
		HumidityPct:  humidity,
		PressureHpa:  pressure,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeInsufficientData(t *testing.T) {
	if _, err := Compute("Pune", nil); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	one := []weather.Sample{sampleAt(time.Now(), 20, 60, 1012)}
	if _, err := Compute("Pune", one); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for a single sample, got %v", err)
	}
}

func TestComputeBasicStats(t *testing.T) {
	base := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
	samples := []weather.Sample{
		sampleAt(base, 18, 70, 1010),
		sampleAt(base.Add(1*time.Hour), 20, 65, 1011),
		sampleAt(base.Add(2*time.Hour), 22, 60, 1012),
	}

	report, err := Compute("Pune", samples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.SampleCount != 3 {
		t.Errorf("sample count: got %d", report.SampleCount)
	}
	if !almostEqual(report.MeanTempC, 20) {
		t.Errorf("mean: expected 20, got %v", report.MeanTempC)
	}
	if !almostEqual(report.MedianTempC, 20) {
		t.Errorf("median: expected 20, got %v", report.MedianTempC)
	}
	if !almostEqual(report.StdDevTempC, 2) {
		t.Errorf("stddev: expected 2, got %v", report.StdDevTempC)
	}
	if !report.PeriodFrom.Equal(base) || !report.PeriodTo.Equal(base.Add(2*time.Hour)) {
		t.Errorf("period bounds wrong: %v .. %v", report.PeriodFrom, report.PeriodTo)
	}
}

func TestComputeMonthlyMeans(t *testing.T) {
	samples := []weather.Sample{
		sampleAt(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 5, 60, 1012),
		sampleAt(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), 7, 60, 1012),
		sampleAt(time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC), 30, 60, 1012),
	}

	report, err := Compute("Pune", samples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := report.MonthlyMeanTempC[1]; !almostEqual(got, 6) {
		t.Errorf("january mean: expected 6, got %v", got)
	}
	if got := report.MonthlyMeanTempC[7]; !almostEqual(got, 30) {
		t.Errorf("july mean: expected 30, got %v", got)
	}
	if len(report.MonthlyMeanTempC) != 2 {
		t.Errorf("expected 2 months, got %d", len(report.MonthlyMeanTempC))
	}
}

func TestComputeCorrelations(t *testing.T) {
	base := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
	// Humidity falls exactly as temperature rises; pressure tracks
	// temperature exactly.
	samples := []weather.Sample{
		sampleAt(base, 10, 90, 1000),
		sampleAt(base.Add(1*time.Hour), 20, 80, 1010),
		sampleAt(base.Add(2*time.Hour), 30, 70, 1020),
	}

	report, err := Compute("Pune", samples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(report.Correlations.TempHumidity, -1) {
		t.Errorf("temp/humidity correlation: expected -1, got %v", report.Correlations.TempHumidity)
	}
	if !almostEqual(report.Correlations.TempPressure, 1) {
		t.Errorf("temp/pressure correlation: expected 1, got %v", report.Correlations.TempPressure)
	}
}
