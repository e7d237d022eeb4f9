// Package graphs renders the dashboard's PNG charts: historical trend
// lines and the forecast daily temperature range.
package graphs

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Prithvi-2410/weatherforcast/internal/insights"
	"github.com/Prithvi-2410/weatherforcast/internal/weather"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrNoData means there was nothing to plot.
var ErrNoData = errors.New("no data to plot")

const (
	chartWidth  = 20 * vg.Centimeter
	chartHeight = 10 * vg.Centimeter
)

// RenderTrend draws temperature and humidity over time for a city's stored
// history and returns the encoded PNG.
func RenderTrend(city string, samples []weather.Sample) ([]byte, error) {
	if len(samples) == 0 {
		return nil, ErrNoData
	}

	temps := make(plotter.XYs, len(samples))
	humidity := make(plotter.XYs, len(samples))
	for i, s := range samples {
		x := float64(s.Timestamp.Unix())
		temps[i] = plotter.XY{X: x, Y: s.TemperatureC}
		humidity[i] = plotter.XY{X: x, Y: s.HumidityPct}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Weather Trends - %s", city)
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Value"
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 2 15:04"}
	p.Add(plotter.NewGrid())

	tempLine, err := plotter.NewLine(temps)
	if err != nil {
		return nil, err
	}
	tempLine.Color = plotutil.Color(0)

	humLine, err := plotter.NewLine(humidity)
	if err != nil {
		return nil, err
	}
	humLine.Color = plotutil.Color(1)

	p.Add(tempLine, humLine)
	p.Legend.Add("Temperature (°C)", tempLine)
	p.Legend.Add("Humidity (%)", humLine)
	p.Legend.Top = true

	return encodePNG(p)
}

// RenderForecast draws the aggregated daily min/max temperature range,
// one pair of points per DailySummary, labelled with the summary dates.
func RenderForecast(city string, summaries []weather.DailySummary) ([]byte, error) {
	if len(summaries) == 0 {
		return nil, ErrNoData
	}

	maxs := make(plotter.XYs, len(summaries))
	mins := make(plotter.XYs, len(summaries))
	ticks := make([]plot.Tick, len(summaries))
	for i, s := range summaries {
		x := float64(i)
		maxs[i] = plotter.XY{X: x, Y: s.TempMaxC}
		mins[i] = plotter.XY{X: x, Y: s.TempMinC}
		ticks[i] = plot.Tick{Value: x, Label: s.Date}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Daily Temperature Range - %s", city)
	p.Y.Label.Text = "Temperature (°C)"
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Add(plotter.NewGrid())

	maxLine, err := plotter.NewLine(maxs)
	if err != nil {
		return nil, err
	}
	maxLine.Color = plotutil.Color(2)

	minLine, err := plotter.NewLine(mins)
	if err != nil {
		return nil, err
	}
	minLine.Color = plotutil.Color(3)

	p.Add(maxLine, minLine)
	p.Legend.Add("Max", maxLine)
	p.Legend.Add("Min", minLine)
	p.Legend.Top = true

	return encodePNG(p)
}

// RenderPrediction draws the projected temperature trend line.
func RenderPrediction(city string, predictions []insights.Prediction) ([]byte, error) {
	if len(predictions) == 0 {
		return nil, ErrNoData
	}

	pts := make(plotter.XYs, len(predictions))
	for i, pr := range predictions {
		pts[i] = plotter.XY{X: float64(pr.Date.Unix()), Y: pr.TemperatureC}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Predicted Temperatures - %s", city)
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Temperature (°C)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 2"}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Color = plotutil.Color(0)
	p.Add(line)

	return encodePNG(p)
}

func encodePNG(p *plot.Plot) ([]byte, error) {
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
