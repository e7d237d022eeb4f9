package insights

import (
	"time"

	"github.com/Prithvi-2410/weatherforcast/internal/weather"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// DefaultAnomalyThreshold is the z-score magnitude beyond which a sample
// counts as anomalous.
const DefaultAnomalyThreshold = 3.0

// Anomaly is one temperature sample flagged as an outlier.
type Anomaly struct {
	ID           string    `json:"id"`
	City         string    `json:"city"`
	Timestamp    time.Time `json:"timestamp"`
	TemperatureC float64   `json:"temperatureC"`
	ZScore       float64   `json:"zScore"`
}

// DetectAnomalies flags samples whose temperature z-score exceeds the
// threshold in magnitude. With fewer than two samples or zero variance
// there is nothing to flag and the result is empty.
func DetectAnomalies(city string, samples []weather.Sample, threshold float64) []Anomaly {
	if threshold <= 0 {
		threshold = DefaultAnomalyThreshold
	}
	if len(samples) < 2 {
		return nil
	}

	temps := make([]float64, len(samples))
	for i, s := range samples {
		temps[i] = s.TemperatureC
	}

	mean := stat.Mean(temps, nil)
	std := stat.StdDev(temps, nil)
	if std == 0 {
		return nil
	}

	var anomalies []Anomaly
	for i, s := range samples {
		z := (temps[i] - mean) / std
		if z > threshold || z < -threshold {
			anomalies = append(anomalies, Anomaly{
				ID:           uuid.NewString(),
				City:         city,
				Timestamp:    s.Timestamp,
				TemperatureC: s.TemperatureC,
				ZScore:       z,
			})
		}
	}
	return anomalies
}
