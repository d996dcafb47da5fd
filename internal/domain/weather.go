package domain

import (
	"strings"
	"time"
)

// Location is a geographic point of interest, typically a city neighborhood.
// The (Latitude, Longitude) pair is the natural key; ID is assigned by the
// warehouse on first upsert.
type Location struct {
	ID        int64
	Name      string // "Borough - Neighborhood" for grouped cities, else plain name
	Borough   string // administrative grouping, may be empty
	Latitude  float64
	Longitude float64
	Timezone  string
}

// BoroughOf returns the administrative grouping for a location: the Borough
// column when set, otherwise the prefix of Name before " - ", otherwise
// "Unassigned".
func (l Location) BoroughOf() string {
	if l.Borough != "" {
		return l.Borough
	}
	if name, _, ok := strings.Cut(l.Name, " - "); ok {
		return strings.TrimSpace(name)
	}
	return "Unassigned"
}

// DateDim is a pre-derived calendar-day dimension row, keyed by the date
// itself. Rows are immutable once created.
type DateDim struct {
	Date       time.Time // midnight UTC
	Year       int
	Month      int
	Day        int
	DayOfWeek  int // 0=Monday .. 6=Sunday
	DayName    string
	WeekOfYear int
	Quarter    int
	IsWeekend  bool
	IsHoliday  bool
}

// NewDateDim derives the full dimension row for a calendar date. Only
// fixed-date US holidays are flagged; observed/floating holidays are not.
func NewDateDim(t time.Time) DateDim {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	_, week := d.ISOWeek()
	// time.Weekday is Sunday=0; the dimension uses Monday=0 to match ISO.
	dow := (int(d.Weekday()) + 6) % 7
	return DateDim{
		Date:       d,
		Year:       d.Year(),
		Month:      int(d.Month()),
		Day:        d.Day(),
		DayOfWeek:  dow,
		DayName:    d.Weekday().String(),
		WeekOfYear: week,
		Quarter:    (int(d.Month())-1)/3 + 1,
		IsWeekend:  dow >= 5,
		IsHoliday:  isFixedHoliday(d),
	}
}

// isFixedHoliday reports whether the date is a fixed-date US holiday
// (New Year's Day, Independence Day, Christmas Day).
func isFixedHoliday(d time.Time) bool {
	switch {
	case d.Month() == time.January && d.Day() == 1:
		return true
	case d.Month() == time.July && d.Day() == 4:
		return true
	case d.Month() == time.December && d.Day() == 25:
		return true
	}
	return false
}

// Observation is one current-conditions reading for a location. The natural
// key is (LocationID, ObservationTime); observations are historical facts and
// are never updated after insert.
type Observation struct {
	LocationID      int64
	ObservationTime time.Time

	TemperatureC     float64 // temperature_2m, °C
	FeelsLikeC       float64 // apparent_temperature, °C
	HumidityPct      float64 // relative_humidity_2m, %
	WindSpeedMPS     float64 // wind_speed_10m, m/s
	WindDirectionDeg float64 // wind_direction_10m, degrees
	WindGustMPS      float64 // wind_gusts_10m, m/s
	PrecipitationMM  float64
	RainMM           float64
	ShowersMM        float64
	SnowfallCM       float64
	WeatherCode      int // WMO interpretation code
	CloudCoverPct    float64
	IsDay            int // 1=day, 0=night
	PressureMSL      float64 // hPa
	SurfacePressure  float64 // hPa
}

// ForecastPoint is one hourly forecast for a location. The natural key is
// (LocationID, ForecastTime). Unlike observations, forecast points are
// corrections of earlier estimates: the whole future window is periodically
// replaced wholesale.
type ForecastPoint struct {
	LocationID   int64
	ForecastTime time.Time

	TemperatureC     float64 // temperature_2m
	Temperature80mC  float64
	Temperature120mC float64
	HumidityPct      float64
	DewPointC        float64
	FeelsLikeC       float64
	PrecipProbPct    float64
	PrecipitationMM  float64
	RainMM           float64
	ShowersMM        float64
	SnowfallCM       float64
	SnowDepthM       float64
	WeatherCode      int
	PressureMSL      float64
	SurfacePressure  float64
	CloudCoverPct    float64
	VisibilityM      float64
	EvapotransMM     float64
	WindSpeedMPS     float64 // wind_speed_10m
	WindSpeed80mMPS  float64
	WindSpeed120mMPS float64
	WindDirectionDeg float64 // wind_direction_10m
	WindDirection80m float64
	WindGustMPS      float64
}
