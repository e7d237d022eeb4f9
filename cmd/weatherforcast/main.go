package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/Prithvi-2410/weatherforcast/internal/api/http"
	"github.com/Prithvi-2410/weatherforcast/internal/config"
	"github.com/Prithvi-2410/weatherforcast/internal/dashboard"
	"github.com/Prithvi-2410/weatherforcast/internal/scheduler"
	"github.com/Prithvi-2410/weatherforcast/internal/store"
	"github.com/Prithvi-2410/weatherforcast/internal/weather"
	"github.com/Prithvi-2410/weatherforcast/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// History store: SQLite when a path is configured, in-memory otherwise.
	var histStore weather.Store
	if cfg.HistoryDB != "" {
		sqlStore, err := store.NewSQLite(cfg.HistoryDB, cfg.StoreMaxAge)
		if err != nil {
			log.Fatalf("failed to open history db: %v", err)
		}
		defer sqlStore.Close()
		histStore = sqlStore
	} else {
		histStore = store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	}

	// Primary provider for interactive lookups; rate limited to the
	// OpenWeatherMap free tier (60 calls/minute, small bursts).
	owm := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey)
	primary := providers.NewRateLimitedForecastProvider(owm, 1.0, 5)

	// Sampling sources feeding the history store.
	samplers := []weather.Provider{primary}
	if cfg.WeatherAPIKey != "" {
		wapi := providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey)
		samplers = append(samplers, providers.NewRateLimitedProvider(wapi, 0.4, 3))
	}
	if cfg.GeocoderAPIKey != "" {
		samplers = append(samplers, providers.NewOpenMeteoProvider(httpClient, cfg.GeocoderAPIKey))
	}

	service := weather.NewService(histStore, primary, samplers)
	searcher := dashboard.NewSearcher(service)

	// Scheduler that periodically samples configured cities.
	sched := scheduler.New(cfg.Cities, cfg.FetchInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weatherforcast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weatherforcast",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, searcher, cfg.AnomalyThreshold)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
