package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// OpenWeatherAPIKey backs the interactive current/forecast lookups.
	// Required; without it every lookup is refused before any request.
	OpenWeatherAPIKey string

	// Optional secondary sampling sources.
	WeatherAPIKey  string
	GeocoderAPIKey string

	// Cities sampled into the history store.
	Cities []string

	// FetchInterval controls how often the sampler runs.
	FetchInterval time.Duration

	// History store retention.
	StoreMaxHistory int           // max number of samples per city (0 = unlimited)
	StoreMaxAge     time.Duration // max age of samples (0 = unlimited)

	// HistoryDB is a SQLite file path; empty selects the in-memory store.
	HistoryDB string

	// AnomalyThreshold is the default z-score cutoff for the anomaly table.
	AnomalyThreshold float64

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	intervalStr := getenvDefault("FETCH_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals

	maxAgeStr := getenvDefault("STORE_MAX_AGE", "168h") // a week of history for insights
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	cfg.HistoryDB = os.Getenv("HISTORY_DB")

	thresholdStr := getenvDefault("ANOMALY_THRESHOLD", "3")
	threshold, err := strconv.ParseFloat(thresholdStr, 64)
	if err != nil || threshold <= 0 {
		return nil, fmt.Errorf("invalid ANOMALY_THRESHOLD: %q", thresholdStr)
	}
	cfg.AnomalyThreshold = threshold

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.Cities = splitList(os.Getenv("WEATHER_CITIES"))

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
