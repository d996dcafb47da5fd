package domain

import "math"

// Classifier boundaries are lower-inclusive and upper-exclusive throughout.
// See the package documentation for the full tables.

// TemperatureCategory buckets a Celsius temperature.
func TemperatureCategory(c float64) string {
	switch {
	case c < 0:
		return "Freezing"
	case c < 10:
		return "Cold"
	case c < 20:
		return "Mild"
	case c < 30:
		return "Warm"
	default:
		return "Hot"
	}
}

// WeatherCondition maps a WMO weather code to a condition label.
func WeatherCondition(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code >= 1 && code <= 3:
		return "Partly cloudy"
	case code == 45 || code == 48:
		return "Foggy"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code >= 61 && code <= 67:
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Rain showers"
	case code == 85 || code == 86:
		return "Snow showers"
	case code >= 95 && code <= 99:
		return "Thunderstorm"
	default:
		return "Unknown"
	}
}

// WindCategory buckets a wind speed in mph on a Beaufort-style scale.
func WindCategory(mph float64) string {
	switch {
	case mph < 1:
		return "Calm"
	case mph < 8:
		return "Light breeze"
	case mph < 19:
		return "Moderate breeze"
	case mph < 32:
		return "Strong breeze"
	case mph < 47:
		return "Gale"
	case mph < 64:
		return "Storm"
	default:
		return "Hurricane force"
	}
}

var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// WindCardinal maps a direction in degrees to an 8-point compass label.
// The range check is modular so the N bucket wraps across 0°/360°.
func WindCardinal(deg float64) string {
	d := math.Mod(deg+22.5, 360)
	if d < 0 {
		d += 360
	}
	return compassPoints[int(d/45)%8]
}

// PrecipitationType picks the dominant precipitation type by priority:
// snow over rain over showers. Returns "None" when nothing is falling.
func PrecipitationType(rainMM, showersMM, snowCM float64) string {
	switch {
	case snowCM > 0:
		return "Snow"
	case rainMM > 0:
		return "Rain"
	case showersMM > 0:
		return "Showers"
	default:
		return "None"
	}
}

// RainIntensity buckets a liquid precipitation amount in mm.
func RainIntensity(mm float64) string {
	switch {
	case mm <= 0:
		return "None"
	case mm < 2.5:
		return "Light"
	case mm < 7.6:
		return "Moderate"
	default:
		return "Heavy"
	}
}

// SnowIntensity buckets a snowfall amount in cm. Snow uses a separate, lower
// scale than rain.
func SnowIntensity(cm float64) string {
	switch {
	case cm <= 0:
		return "None"
	case cm < 1:
		return "Light"
	case cm < 2.5:
		return "Moderate"
	default:
		return "Heavy"
	}
}

// ComfortLevel buckets a feels-like temperature in °F.
func ComfortLevel(feelsLikeF float64) string {
	switch {
	case feelsLikeF < 0:
		return "Dangerously cold"
	case feelsLikeF < 32:
		return "Very cold"
	case feelsLikeF < 50:
		return "Cold"
	case feelsLikeF < 65:
		return "Cool"
	case feelsLikeF < 80:
		return "Comfortable"
	case feelsLikeF < 90:
		return "Hot"
	default:
		return "Very hot"
	}
}

// windyThresholdMPH marks sustained wind worth flagging for pedestrians.
const windyThresholdMPH = 20.0

// ConditionFlags are the boolean event indicators derived from one staged row.
type ConditionFlags struct {
	IsPrecipitating bool
	IsSnowing       bool
	IsFreezing      bool
	IsWindy         bool
	IsMixedPrecip   bool
	HeavyRain       bool
	HeavySnow       bool
}

// DeriveFlags computes the event flags from staged amounts and temperatures.
func DeriveFlags(tempC, windMPH, precipMM, rainMM, snowCM float64) ConditionFlags {
	return ConditionFlags{
		IsPrecipitating: precipMM > 0,
		IsSnowing:       snowCM > 0,
		IsFreezing:      tempC < 0,
		IsWindy:         windMPH >= windyThresholdMPH,
		IsMixedPrecip:   rainMM > 0 && snowCM > 0,
		HeavyRain:       rainMM >= 7.6,
		HeavySnow:       snowCM >= 2.5,
	}
}

// EnrichedObservation is a staged observation plus its categorical
// classifications and event flags. Pure function of the staged row.
type EnrichedObservation struct {
	StagedObservation

	TempCategory  string
	Condition     string
	WindCategory  string
	WindCardinal  string
	PrecipType    string
	RainIntensity string
	SnowIntensity string
	ComfortLevel  string
	Flags         ConditionFlags
}

// EnrichObservation classifies one staged observation.
func EnrichObservation(s StagedObservation) EnrichedObservation {
	return EnrichedObservation{
		StagedObservation: s,
		TempCategory:      TemperatureCategory(s.TemperatureC),
		Condition:         WeatherCondition(s.WeatherCode),
		WindCategory:      WindCategory(s.WindSpeedMPH),
		WindCardinal:      WindCardinal(s.WindDirectionDeg),
		PrecipType:        PrecipitationType(s.RainMM, s.ShowersMM, s.SnowfallCM),
		RainIntensity:     RainIntensity(s.RainMM + s.ShowersMM),
		SnowIntensity:     SnowIntensity(s.SnowfallCM),
		ComfortLevel:      ComfortLevel(s.FeelsLikeF),
		Flags:             DeriveFlags(s.TemperatureC, s.WindSpeedMPH, s.PrecipitationMM, s.RainMM, s.SnowfallCM),
	}
}

// EnrichedForecast is a staged forecast plus classifications.
type EnrichedForecast struct {
	StagedForecast

	TempCategory  string
	Condition     string
	WindCategory  string
	WindCardinal  string
	PrecipType    string
	RainIntensity string
	SnowIntensity string
	ComfortLevel  string
	Flags         ConditionFlags
}

// EnrichForecast classifies one staged forecast point.
func EnrichForecast(s StagedForecast) EnrichedForecast {
	return EnrichedForecast{
		StagedForecast: s,
		TempCategory:   TemperatureCategory(s.TemperatureC),
		Condition:      WeatherCondition(s.WeatherCode),
		WindCategory:   WindCategory(s.WindSpeedMPH),
		WindCardinal:   WindCardinal(s.WindDirectionDeg),
		PrecipType:     PrecipitationType(s.RainMM, s.ShowersMM, s.SnowfallCM),
		RainIntensity:  RainIntensity(s.RainMM + s.ShowersMM),
		SnowIntensity:  SnowIntensity(s.SnowfallCM),
		ComfortLevel:   ComfortLevel(s.FeelsLikeF),
		Flags:          DeriveFlags(s.TemperatureC, s.WindSpeedMPH, s.PrecipitationMM, s.RainMM, s.SnowfallCM),
	}
}
