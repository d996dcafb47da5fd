// Package domain models Open-Meteo weather observations and forecasts for a
// fixed set of city neighborhoods, plus the derived analytical rows built from
// them.
//
// # Data Source
//
// Raw readings come from the Open-Meteo forecast API
// (https://api.open-meteo.com/v1/forecast). The upstream extraction service
// fetches current conditions hourly and a rolling 168-hour hourly forecast for
// every configured neighborhood, then hands the batches to the warehouse
// loaders. Current conditions arrive sub-hourly at the provider's discretion,
// so several readings can land inside one clock hour.
//
// # Units and Conventions
//
// Open-Meteo reports temperature in Celsius, wind speed in meters per second,
// rain/showers/precipitation in millimeters, and snowfall in centimeters.
// Staging converts to the display units used by the analytical layers:
//
//	F   = C × 9/5 + 32        (rounded to 1 decimal)
//	mph = m/s × 2.237         (rounded to 1 decimal)
//
// The is_day indicator is 1 for day, 0 for night; any other value maps to
// "Unknown".
//
// # WMO Weather Codes
//
// The weather_code column carries WMO interpretation codes. The condition
// lookup buckets them as:
//
//	0      Clear
//	1-3    Partly cloudy
//	45,48  Foggy
//	51-57  Drizzle
//	61-67  Rain
//	71-77  Snow
//	80-82  Rain showers
//	85-86  Snow showers
//	95-99  Thunderstorm
//	other  Unknown
//
// # Classification Thresholds
//
// All classifier boundaries are lower-inclusive and upper-exclusive:
//
//	Temperature (°C):  <0 Freezing | <10 Cold | <20 Mild | <30 Warm | ≥30 Hot
//	Wind (mph):        <1 Calm | <8 Light breeze | <19 Moderate breeze |
//	                   <32 Strong breeze | <47 Gale | <64 Storm | ≥64 Hurricane force
//	Rain (mm):         <2.5 Light | <7.6 Moderate | ≥7.6 Heavy
//	Snow (cm):         <1 Light | <2.5 Moderate | ≥2.5 Heavy
//	Comfort (°F, feels-like):
//	                   <0 Dangerously cold | <32 Very cold | <50 Cold |
//	                   <65 Cool | <80 Comfortable | <90 Hot | ≥90 Very hot
//
// Compass directions use an 8-point rose computed with modular arithmetic so
// the N bucket wraps across the 0°/360° boundary (337.5°–22.5° is N).
//
// Precipitation type is picked by priority when multiple amounts are non-zero:
// snow, then rain, then showers.
//
// # Natural Keys
//
// Facts are deduplicated on business keys rather than surrogate counters:
// observations on (location, observation time), forecast points on (location,
// forecast time). Re-ingesting a reading that already exists is a silent
// no-op, which makes full-batch retries safe after partial failures.
package domain
