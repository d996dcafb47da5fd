// Command seed loads a synthetic batch of observations and forecasts into
// the warehouse and runs the full pipeline once, so the derived tables can be
// inspected without a live extraction feed. It uses the actual domain and
// pipeline packages so the seeded output matches real run behavior.
//
// Usage:
//
//	go run ./cmd/seed -hours 48
//
// With DATABASE_URL set the seed goes to Postgres; otherwise an in-memory
// warehouse is used and a summary is printed before exit.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/weather-warehouse/internal/config"
	"github.com/couchcryptid/weather-warehouse/internal/domain"
	"github.com/couchcryptid/weather-warehouse/internal/observability"
	"github.com/couchcryptid/weather-warehouse/internal/pipeline"
	"github.com/couchcryptid/weather-warehouse/internal/warehouse"
)

var seedLocations = []domain.Location{
	{Name: "Manhattan - Midtown", Latitude: 40.7549, Longitude: -73.9840, Timezone: "America/New_York"},
	{Name: "Brooklyn - Williamsburg", Latitude: 40.7081, Longitude: -73.9571, Timezone: "America/New_York"},
	{Name: "Queens - Astoria", Latitude: 40.7720, Longitude: -73.9301, Timezone: "America/New_York"},
	{Name: "Bronx - Riverdale", Latitude: 40.8900, Longitude: -73.9122, Timezone: "America/New_York"},
	{Name: "Staten Island - St. George", Latitude: 40.6437, Longitude: -74.0765, Timezone: "America/New_York"},
}

func main() {
	hours := flag.Int("hours", 48, "hours of synthetic observation history to generate")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, "text")
	metrics := observability.NewMetrics()

	ctx := context.Background()

	var store warehouse.Store
	mem := warehouse.NewMemory()
	if cfg.DatabaseURL != "" {
		pg, err := warehouse.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("open warehouse: %v", err)
		}
		defer pg.Close()
		store = pg
	} else {
		store = mem
	}

	source := pipeline.SourceFunc(func(_ context.Context) ([]pipeline.LocationBatch, error) {
		return generateBatches(*hours), nil
	})

	p := pipeline.New(store, source, logger, metrics, cfg.RawLookback, cfg.ForecastHorizon)
	if err := p.Run(ctx); err != nil {
		log.Fatalf("seed run: %v", err)
	}

	if cfg.DatabaseURL == "" {
		fmt.Printf("seeded in-memory warehouse: %d snapshot rows, %d hourly rows, %d daily rows\n",
			len(mem.Snapshot()), len(mem.HourlySummaries()), len(mem.DailySummaries()))
		fmt.Println("set DATABASE_URL to persist seeded data")
		os.Exit(0)
	}
	fmt.Println("seed complete")
}

// generateBatches builds one batch per seed location: hourly observation
// history over the requested span and a 168 hour forecast, with smooth
// sinusoidal temperature and wind curves so the classifiers produce a spread
// of categories.
func generateBatches(hours int) []pipeline.LocationBatch {
	now := domain.Now().Truncate(time.Hour)
	batches := make([]pipeline.LocationBatch, 0, len(seedLocations))

	for i, loc := range seedLocations {
		phase := float64(i) * 0.7

		obs := make([]domain.Observation, 0, hours)
		for h := hours; h > 0; h-- {
			at := now.Add(-time.Duration(h) * time.Hour)
			obs = append(obs, observationAt(at, phase))
		}

		fcs := make([]domain.ForecastPoint, 0, 168)
		for h := range 168 {
			at := now.Add(time.Duration(h) * time.Hour)
			fcs = append(fcs, forecastAt(at, phase))
		}

		batches = append(batches, pipeline.LocationBatch{
			Location:     loc,
			Observations: obs,
			Forecasts:    fcs,
		})
	}
	return batches
}

func observationAt(at time.Time, phase float64) domain.Observation {
	dayFrac := float64(at.Hour()) / 24
	tempC := 10 + 12*math.Sin(2*math.Pi*dayFrac-math.Pi/2+phase)
	windMPS := 3 + 2*math.Sin(2*math.Pi*dayFrac+phase)
	isDay := 0
	if at.Hour() >= 7 && at.Hour() < 19 {
		isDay = 1
	}

	var rain float64
	code := 0
	if at.Hour()%7 == 0 {
		rain = 1.5
		code = 61
	}

	return domain.Observation{
		ObservationTime:  at,
		TemperatureC:     round1(tempC),
		FeelsLikeC:       round1(tempC - 2),
		HumidityPct:      60 + 20*math.Sin(phase+dayFrac),
		WindSpeedMPS:     round1(windMPS),
		WindDirectionDeg: math.Mod(float64(at.Hour())*15+phase*90, 360),
		WindGustMPS:      round1(windMPS * 1.8),
		PrecipitationMM:  rain,
		RainMM:           rain,
		WeatherCode:      code,
		CloudCoverPct:    50,
		IsDay:            isDay,
		PressureMSL:      1013,
		SurfacePressure:  1010,
	}
}

func forecastAt(at time.Time, phase float64) domain.ForecastPoint {
	dayFrac := float64(at.Hour()) / 24
	tempC := 10 + 12*math.Sin(2*math.Pi*dayFrac-math.Pi/2+phase)
	windMPS := 3 + 2*math.Sin(2*math.Pi*dayFrac+phase)

	return domain.ForecastPoint{
		ForecastTime:     at,
		TemperatureC:     round1(tempC),
		Temperature80mC:  round1(tempC - 0.5),
		Temperature120mC: round1(tempC - 0.8),
		HumidityPct:      65,
		DewPointC:        round1(tempC - 8),
		FeelsLikeC:       round1(tempC - 2),
		PrecipProbPct:    20,
		WeatherCode:      2,
		PressureMSL:      1013,
		SurfacePressure:  1010,
		CloudCoverPct:    40,
		VisibilityM:      10000,
		WindSpeedMPS:     round1(windMPS),
		WindSpeed80mMPS:  round1(windMPS * 1.3),
		WindSpeed120mMPS: round1(windMPS * 1.5),
		WindDirectionDeg: 225,
		WindDirection80m: 230,
		WindGustMPS:      round1(windMPS * 1.8),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
