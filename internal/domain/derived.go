package domain

import "time"

// Derived rows have no identity of their own: each is a pure function of its
// upstream inputs and is fully rebuilt by re-running the transformation.

// HourlySummary rolls sub-hourly observations for one location up to a clock
// hour. Point-in-time fields (temperature, condition, comfort) come from the
// latest reading in the hour; numeric metrics aggregate across all readings.
type HourlySummary struct {
	LocationID int64
	HourStart  time.Time

	// Latest-reading snapshot fields.
	LatestObservation time.Time
	TemperatureF      float64
	FeelsLikeF        float64
	TempCategory      string
	Condition         string
	ComfortLevel      string
	DayNight          string

	// Aggregates across all readings in the hour.
	AvgHumidityPct   float64
	AvgWindMPH       float64
	AvgWindDirDeg    float64
	AvgCloudCoverPct float64
	AvgPressureMSL   float64
	MaxGustMPH       float64
	TotalPrecipMM    float64
	TotalRainMM      float64
	TotalSnowCM      float64

	AnyPrecip   bool
	AnySnow     bool
	AnyFreezing bool
	AnyWindy    bool

	ReadingsCount int
}

// SnapshotRow is the current-conditions mart: the latest enriched reading per
// location joined to the location dimension.
type SnapshotRow struct {
	LocationID      int64
	LocationName    string
	Borough         string
	ObservationTime time.Time

	TemperatureF float64
	FeelsLikeF   float64
	TempCategory string
	Condition    string
	ComfortLevel string
	WindMPH      float64
	WindCardinal string
	DayNight     string
}

// DailySummary aggregates hourly rows for one location and calendar date.
type DailySummary struct {
	LocationID int64
	Date       time.Time

	MinTempF   float64
	MaxTempF   float64
	AvgTempF   float64
	TempRangeF float64

	TotalPrecipMM float64
	TotalSnowCM   float64

	// PredominantCondition is the statistical mode of the day's hourly
	// conditions; ties break to the lexicographically smallest label.
	PredominantCondition string

	HoursObserved   int
	HoursWithPrecip int
	HoursWithSnow   int
}

// WeeklySummary re-aggregates daily rows by ISO week (starting Monday).
type WeeklySummary struct {
	LocationID int64
	WeekStart  time.Time

	MinTempF float64
	MaxTempF float64
	AvgTempF float64

	TotalPrecipMM float64
	TotalSnowCM   float64

	PredominantCondition string

	DaysObserved int
}

// BoroughDailySummary compares locations across an administrative grouping
// for one calendar date.
type BoroughDailySummary struct {
	Borough string
	Date    time.Time

	AvgTempF float64
	MinTempF float64
	MaxTempF float64

	TotalPrecipMM float64

	LocationsReporting int
	PctWithPrecip      float64
	PctWithSnow        float64
}
