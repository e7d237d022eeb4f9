package weather

import (
	"math"
)

// MapCurrent projects a provider observation into the display record shown
// for the current conditions panel. Temperatures are rounded to the nearest
// integer; visibility converts from meters to kilometers with one decimal.
// No state, no side effects.
func MapCurrent(o Observation) CurrentConditions {
	return CurrentConditions{
		City:             o.City,
		Timestamp:        o.Timestamp,
		TemperatureC:     roundInt(o.TemperatureC),
		FeelsLikeC:       roundInt(o.FeelsLikeC),
		TempMinC:         roundInt(o.TempMinC),
		TempMaxC:         roundInt(o.TempMaxC),
		HumidityPct:      roundInt(o.HumidityPct),
		PressureHpa:      roundInt(o.PressureHpa),
		WindSpeedMS:      o.WindSpeedMS,
		WindDirectionDeg: o.WindDeg,
		VisibilityKm:     math.Round(o.VisibilityM/100) / 10,
		Sunrise:          o.Sunrise,
		Sunset:           o.Sunset,
		Description:      o.Description,
		Icon:             o.Icon,
	}
}

func roundInt(f float64) int {
	return int(math.Round(f))
}
