package insights

import (
	"time"

	"github.com/Prithvi-2410/weatherforcast/internal/weather"
	"gonum.org/v1/gonum/stat"
)

// Prediction is one projected future temperature.
type Prediction struct {
	Date         time.Time `json:"date"`
	TemperatureC float64   `json:"temperatureC"`
}

// PredictTrend fits temperature against day-of-year with ordinary least
// squares and projects daysAhead values past the last sample. A constant
// input series yields a flat projection.
func PredictTrend(samples []weather.Sample, daysAhead int) ([]Prediction, error) {
	if len(samples) < 2 {
		return nil, ErrInsufficientData
	}
	if daysAhead <= 0 {
		daysAhead = 1
	}

	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = float64(s.Timestamp.UTC().YearDay())
		ys[i] = s.TemperatureC
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	last := samples[len(samples)-1].Timestamp.UTC()
	lastDay := float64(last.YearDay())

	predictions := make([]Prediction, 0, daysAhead)
	for i := 1; i <= daysAhead; i++ {
		day := lastDay + float64(i)
		predictions = append(predictions, Prediction{
			Date:         last.AddDate(0, 0, i),
			TemperatureC: alpha + beta*day,
		})
	}
	return predictions, nil
}
