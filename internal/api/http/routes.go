package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Prithvi-2410/weatherforcast/internal/dashboard"
	"github.com/Prithvi-2410/weatherforcast/internal/graphs"
	"github.com/Prithvi-2410/weatherforcast/internal/insights"
	"github.com/Prithvi-2410/weatherforcast/internal/store"
	"github.com/Prithvi-2410/weatherforcast/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
// anomalyThreshold is the default z-score cutoff when the query omits one.
func RegisterRoutes(app *fiber.App, service *weather.Service, searcher *dashboard.Searcher, anomalyThreshold float64) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		current, err := service.Current(c.Context(), city)
		if err != nil {
			return mapWeatherError(err)
		}
		return c.JSON(current)
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		forecast, err := service.Forecast(c.Context(), city)
		if err != nil {
			return mapWeatherError(err)
		}
		return c.JSON(fiber.Map{
			"city": city,
			"days": forecast,
		})
	})

	v1.Get("/search", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// The composite always answers 200; component failures ride along
		// in the result so one bad collaborator never blanks the page.
		return c.JSON(searcher.Search(c.Context(), city))
	})

	v1.Get("/insights", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		samples, err := allHistory(service, city)
		if err != nil {
			return err
		}

		report, err := insights.Compute(city, samples)
		if err != nil {
			if errors.Is(err, insights.ErrInsufficientData) {
				return fiber.NewError(fiber.StatusNotFound, "not enough history for insights")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to compute insights")
		}
		return c.JSON(report)
	})

	v1.Get("/anomalies", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		threshold := anomalyThreshold
		if q := c.QueryFloat("threshold"); q > 0 {
			threshold = q
		}

		samples, err := allHistory(service, city)
		if err != nil {
			return err
		}

		anomalies := insights.DetectAnomalies(city, samples, threshold)
		return c.JSON(fiber.Map{
			"city":      city,
			"threshold": threshold,
			"anomalies": anomalies,
		})
	})

	v1.Get("/trend", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		days := c.QueryInt("days", 30)
		if days < 1 || days > 90 {
			return fiber.NewError(fiber.StatusBadRequest, "days must be between 1 and 90")
		}

		samples, err := allHistory(service, city)
		if err != nil {
			return err
		}

		predictions, err := insights.PredictTrend(samples, days)
		if err != nil {
			if errors.Is(err, insights.ErrInsufficientData) {
				return fiber.NewError(fiber.StatusNotFound, "not enough history for a trend")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to compute trend")
		}
		return c.JSON(fiber.Map{
			"city":        city,
			"predictions": predictions,
		})
	})

	// Graph endpoints return PNG. Clients append a cache-busting timestamp
	// query parameter; it is ignored here.
	v1.Get("/graphs/trend.png", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		samples, err := allHistory(service, city)
		if err != nil {
			return err
		}

		png, err := graphs.RenderTrend(city, samples)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render trend graph")
		}
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(png)
	})

	v1.Get("/graphs/forecast.png", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		forecast, err := service.Forecast(c.Context(), city)
		if err != nil {
			return mapWeatherError(err)
		}

		png, err := graphs.RenderForecast(city, forecast)
		if err != nil {
			if errors.Is(err, graphs.ErrNoData) {
				return fiber.NewError(fiber.StatusNotFound, "no forecast data to plot")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render forecast graph")
		}
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(png)
	})

	v1.Get("/graphs/prediction.png", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		days := c.QueryInt("days", 30)
		if days < 1 || days > 90 {
			return fiber.NewError(fiber.StatusBadRequest, "days must be between 1 and 90")
		}

		samples, err := allHistory(service, city)
		if err != nil {
			return err
		}

		predictions, err := insights.PredictTrend(samples, days)
		if err != nil {
			if errors.Is(err, insights.ErrInsufficientData) {
				return fiber.NewError(fiber.StatusNotFound, "not enough history for a trend")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to compute trend")
		}

		png, err := graphs.RenderPrediction(city, predictions)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render prediction graph")
		}
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(png)
	})
}

// cityQuery holds the one query parameter every endpoint shares.
type cityQuery struct {
	City string `validate:"required"`
}

func parseCityQuery(c *fiber.Ctx) (string, error) {
	q := cityQuery{City: c.Query("city")}
	if err := validate.Struct(q); err != nil {
		return "", err
	}
	return q.City, nil
}

// allHistory pulls a city's full stored history, mapping an empty store to
// a 404.
func allHistory(service *weather.Service, city string) ([]weather.Sample, error) {
	samples, err := service.History(city, time.Time{}, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "no weather history for requested city")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to read weather history")
	}
	return samples, nil
}

// mapWeatherError translates provider errors into HTTP status codes:
// missing credential blocks with 503, unknown city answers 404, anything
// else is a bad gateway.
func mapWeatherError(err error) error {
	switch {
	case errors.Is(err, weather.ErrMissingAPIKey):
		return fiber.NewError(fiber.StatusServiceUnavailable, "weather api key is not configured")
	case errors.Is(err, weather.ErrCityNotFound):
		return fiber.NewError(fiber.StatusNotFound, "city not found")
	default:
		return fiber.NewError(fiber.StatusBadGateway, "weather provider request failed")
	}
}
