package weather

import (
	"time"
)

// ForecastPoint is a single sample from a multi-day, multi-point-per-day
// forecast feed (OpenWeatherMap's 5-day/3-hour endpoint). Immutable once
// decoded from the provider response.
type ForecastPoint struct {
	Timestamp int64   `json:"timestamp"` // unix seconds
	TempMaxC  float64 `json:"tempMaxC"`
	TempMinC  float64 `json:"tempMinC"`
	Category  string  `json:"category"` // provider weather group, e.g. "Rain"
	Icon      string  `json:"icon"`
}

// Time returns the point's timestamp as UTC time.
func (p ForecastPoint) Time() time.Time {
	return time.Unix(p.Timestamp, 0).UTC()
}

// DailySummary is the aggregated view of one calendar day of forecast
// points: the widest min/max seen for that day plus the icon and category
// of the first sample of the day.
type DailySummary struct {
	Date     string  `json:"date"` // display label, e.g. "Mon 14"
	Icon     string  `json:"icon"`
	Category string  `json:"category"`
	TempMaxC float64 `json:"tempMaxC"`
	TempMinC float64 `json:"tempMinC"`
}

// Observation is a normalized current-weather reading from a provider.
type Observation struct {
	City         string    `json:"city"`
	Timestamp    time.Time `json:"timestamp"` // always UTC
	TemperatureC float64   `json:"temperatureC"`
	FeelsLikeC   float64   `json:"feelsLikeC"`
	TempMinC     float64   `json:"tempMinC"`
	TempMaxC     float64   `json:"tempMaxC"`
	HumidityPct  float64   `json:"humidityPercent"`
	PressureHpa  float64   `json:"pressureHpa"`
	WindSpeedMS  float64   `json:"windSpeedMs"`
	WindDeg      int       `json:"windDeg"`
	VisibilityM  float64   `json:"visibilityM"`
	Sunrise      time.Time `json:"sunrise"`
	Sunset       time.Time `json:"sunset"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
}

// CurrentConditions is the display projection of an Observation: integer
// temperatures, visibility in kilometers with one decimal.
type CurrentConditions struct {
	City             string    `json:"city"`
	Timestamp        time.Time `json:"timestamp"`
	TemperatureC     int       `json:"temperatureC"`
	FeelsLikeC       int       `json:"feelsLikeC"`
	TempMinC         int       `json:"tempMinC"`
	TempMaxC         int       `json:"tempMaxC"`
	HumidityPct      int       `json:"humidityPercent"`
	PressureHpa      int       `json:"pressureHpa"`
	WindSpeedMS      float64   `json:"windSpeedMs"`
	WindDirectionDeg int       `json:"windDirectionDeg"`
	VisibilityKm     float64   `json:"visibilityKm"`
	Sunrise          time.Time `json:"sunrise"`
	Sunset           time.Time `json:"sunset"`
	Description      string    `json:"description"`
	Icon             string    `json:"icon"`
}

// Sample is one stored history point for a city, the columns the insights
// calculations run over.
type Sample struct {
	City         string    `json:"city"`
	Timestamp    time.Time `json:"timestamp"` // always UTC
	TemperatureC float64   `json:"temperatureC"`
	HumidityPct  float64   `json:"humidityPercent"`
	PressureHpa  float64   `json:"pressureHpa"`
}

// SampleFromObservation projects an Observation into a history Sample.
func SampleFromObservation(o Observation) Sample {
	return Sample{
		City:         o.City,
		Timestamp:    o.Timestamp,
		TemperatureC: o.TemperatureC,
		HumidityPct:  o.HumidityPct,
		PressureHpa:  o.PressureHpa,
	}
}
