// Package insights derives historical statistics from stored weather
// samples: per-city summary stats, seasonal averages, field correlations,
// anomaly detection and a simple temperature trend projection.
package insights

import (
	"errors"
	"sort"
	"time"

	"github.com/Prithvi-2410/weatherforcast/internal/weather"
	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData means the history is too short for the requested
// calculation. At least two samples are required.
var ErrInsufficientData = errors.New("not enough samples for insights")

// Report is the per-city statistics bundle served by the insights endpoint.
type Report struct {
	City        string    `json:"city"`
	SampleCount int       `json:"sampleCount"`
	PeriodFrom  time.Time `json:"periodFrom"`
	PeriodTo    time.Time `json:"periodTo"`

	MeanTempC   float64 `json:"meanTempC"`
	MedianTempC float64 `json:"medianTempC"`
	StdDevTempC float64 `json:"stdDevTempC"`

	// MonthlyMeanTempC maps month number (1-12) to the mean temperature of
	// samples falling in that month, across all years in the history.
	MonthlyMeanTempC map[int]float64 `json:"monthlyMeanTempC"`

	Correlations Correlations `json:"correlations"`
}

// Correlations holds pairwise Pearson correlation coefficients between the
// stored fields.
type Correlations struct {
	TempHumidity     float64 `json:"tempHumidity"`
	TempPressure     float64 `json:"tempPressure"`
	HumidityPressure float64 `json:"humidityPressure"`
}

// Compute builds the full report from a city's samples. Samples are assumed
// to be in chronological order, the order the stores return them in.
func Compute(city string, samples []weather.Sample) (Report, error) {
	if len(samples) < 2 {
		return Report{}, ErrInsufficientData
	}

	temps := make([]float64, len(samples))
	humidity := make([]float64, len(samples))
	pressure := make([]float64, len(samples))
	for i, s := range samples {
		temps[i] = s.TemperatureC
		humidity[i] = s.HumidityPct
		pressure[i] = s.PressureHpa
	}

	sorted := append([]float64(nil), temps...)
	sort.Float64s(sorted)

	report := Report{
		City:             city,
		SampleCount:      len(samples),
		PeriodFrom:       samples[0].Timestamp,
		PeriodTo:         samples[len(samples)-1].Timestamp,
		MeanTempC:        stat.Mean(temps, nil),
		MedianTempC:      stat.Quantile(0.5, stat.Empirical, sorted, nil),
		StdDevTempC:      stat.StdDev(temps, nil),
		MonthlyMeanTempC: monthlyMeans(samples),
		Correlations: Correlations{
			TempHumidity:     stat.Correlation(temps, humidity, nil),
			TempPressure:     stat.Correlation(temps, pressure, nil),
			HumidityPressure: stat.Correlation(humidity, pressure, nil),
		},
	}

	return report, nil
}

func monthlyMeans(samples []weather.Sample) map[int]float64 {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, s := range samples {
		m := int(s.Timestamp.UTC().Month())
		sums[m] += s.TemperatureC
		counts[m]++
	}

	means := make(map[int]float64, len(sums))
	for m, sum := range sums {
		means[m] = sum / float64(counts[m])
	}
	return means
}
