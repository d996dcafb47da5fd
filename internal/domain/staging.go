package domain

import (
	"math"
	"time"
)

// CelsiusToFahrenheit converts °C to °F, rounded to 1 decimal.
func CelsiusToFahrenheit(c float64) float64 {
	return round1(c*9.0/5.0 + 32.0)
}

// MPSToMPH converts meters per second to miles per hour, rounded to 1 decimal.
func MPSToMPH(mps float64) float64 {
	return round1(mps * 2.237)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// DayNightLabel maps the Open-Meteo is_day indicator to a label.
func DayNightLabel(isDay int) string {
	switch isDay {
	case 1:
		return "Day"
	case 0:
		return "Night"
	default:
		return "Unknown"
	}
}

// StagedObservation is the cleaned 1:1 projection of an Observation: display
// units, renamed fields, and the day/night indicator mapped to a label. No
// business logic lives here.
type StagedObservation struct {
	LocationID      int64
	ObservationTime time.Time

	TemperatureC     float64
	TemperatureF     float64
	FeelsLikeC       float64
	FeelsLikeF       float64
	HumidityPct      float64
	WindSpeedMPH     float64
	WindDirectionDeg float64
	WindGustMPH      float64
	PrecipitationMM  float64
	RainMM           float64
	ShowersMM        float64
	SnowfallCM       float64
	WeatherCode      int
	CloudCoverPct    float64
	PressureMSL      float64
	DayNight         string
}

// StageObservation projects one raw observation into its staged form.
// Deterministic and side-effect-free: the same raw row always stages to the
// same output.
func StageObservation(o Observation) StagedObservation {
	return StagedObservation{
		LocationID:       o.LocationID,
		ObservationTime:  o.ObservationTime.UTC(),
		TemperatureC:     o.TemperatureC,
		TemperatureF:     CelsiusToFahrenheit(o.TemperatureC),
		FeelsLikeC:       o.FeelsLikeC,
		FeelsLikeF:       CelsiusToFahrenheit(o.FeelsLikeC),
		HumidityPct:      o.HumidityPct,
		WindSpeedMPH:     MPSToMPH(o.WindSpeedMPS),
		WindDirectionDeg: o.WindDirectionDeg,
		WindGustMPH:      MPSToMPH(o.WindGustMPS),
		PrecipitationMM:  o.PrecipitationMM,
		RainMM:           o.RainMM,
		ShowersMM:        o.ShowersMM,
		SnowfallCM:       o.SnowfallCM,
		WeatherCode:      o.WeatherCode,
		CloudCoverPct:    o.CloudCoverPct,
		PressureMSL:      o.PressureMSL,
		DayNight:         DayNightLabel(o.IsDay),
	}
}

// StagedForecast is the cleaned 1:1 projection of a ForecastPoint.
type StagedForecast struct {
	LocationID   int64
	ForecastTime time.Time

	TemperatureC     float64
	TemperatureF     float64
	FeelsLikeC       float64
	FeelsLikeF       float64
	HumidityPct      float64
	DewPointC        float64
	PrecipProbPct    float64
	PrecipitationMM  float64
	RainMM           float64
	ShowersMM        float64
	SnowfallCM       float64
	WeatherCode      int
	CloudCoverPct    float64
	PressureMSL      float64
	VisibilityM      float64
	WindSpeedMPH     float64
	WindDirectionDeg float64
	WindGustMPH      float64
}

// StageForecast projects one raw forecast point into its staged form.
func StageForecast(f ForecastPoint) StagedForecast {
	return StagedForecast{
		LocationID:       f.LocationID,
		ForecastTime:     f.ForecastTime.UTC(),
		TemperatureC:     f.TemperatureC,
		TemperatureF:     CelsiusToFahrenheit(f.TemperatureC),
		FeelsLikeC:       f.FeelsLikeC,
		FeelsLikeF:       CelsiusToFahrenheit(f.FeelsLikeC),
		HumidityPct:      f.HumidityPct,
		DewPointC:        f.DewPointC,
		PrecipProbPct:    f.PrecipProbPct,
		PrecipitationMM:  f.PrecipitationMM,
		RainMM:           f.RainMM,
		ShowersMM:        f.ShowersMM,
		SnowfallCM:       f.SnowfallCM,
		WeatherCode:      f.WeatherCode,
		CloudCoverPct:    f.CloudCoverPct,
		PressureMSL:      f.PressureMSL,
		VisibilityM:      f.VisibilityM,
		WindSpeedMPH:     MPSToMPH(f.WindSpeedMPS),
		WindDirectionDeg: f.WindDirectionDeg,
		WindGustMPH:      MPSToMPH(f.WindGustMPS),
	}
}
