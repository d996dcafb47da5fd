package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couchcryptid/weather-warehouse/internal/domain"
)

// Postgres implements Store on top of a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects a pool and applies the warehouse schema.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect warehouse: %w", err)
	}
	s := &Postgres{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the pool resources.
func (s *Postgres) Close() {
	s.pool.Close()
}

func (s *Postgres) migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

const upsertLocationSQL = `
INSERT INTO weather.dim_location (name, borough, latitude, longitude, timezone)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (latitude, longitude) DO UPDATE
SET name = EXCLUDED.name,
    borough = EXCLUDED.borough,
    timezone = EXCLUDED.timezone,
    updated_at = now()
RETURNING location_id`

func (s *Postgres) UpsertLocations(ctx context.Context, locs []domain.Location) ([]domain.Location, error) {
	if len(locs) == 0 {
		return nil, nil
	}

	batch := &pgx.Batch{}
	for _, l := range locs {
		tz := l.Timezone
		if tz == "" {
			tz = "UTC"
		}
		batch.Queue(upsertLocationSQL, l.Name, l.Borough, l.Latitude, l.Longitude, tz)
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	out := make([]domain.Location, len(locs))
	for i, l := range locs {
		if err := res.QueryRow().Scan(&l.ID); err != nil {
			return nil, fmt.Errorf("upsert location %q: %w", l.Name, err)
		}
		out[i] = l
	}
	return out, nil
}

const ensureDateSQL = `
INSERT INTO weather.dim_date (date, year, month, day, day_of_week, day_name, week_of_year, quarter, is_weekend, is_holiday)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (date) DO NOTHING`

func (s *Postgres) EnsureDates(ctx context.Context, dates []domain.DateDim) error {
	if len(dates) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, d := range dates {
		batch.Queue(ensureDateSQL, d.Date, d.Year, d.Month, d.Day, d.DayOfWeek, d.DayName, d.WeekOfYear, d.Quarter, d.IsWeekend, d.IsHoliday)
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	for range dates {
		if _, err := res.Exec(); err != nil {
			return fmt.Errorf("ensure date: %w", err)
		}
	}
	return nil
}

const insertObservationSQL = `
INSERT INTO weather.fact_observation (
	location_id, date, observation_time,
	temperature_2m, apparent_temp, humidity_pct,
	wind_speed_mps, wind_direction_deg, wind_gust_mps,
	precipitation_mm, rain_mm, showers_mm, snowfall_cm,
	weather_code, cloud_cover_pct, is_day,
	pressure_msl, surface_pressure
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
ON CONFLICT (location_id, observation_time) DO NOTHING`

func (s *Postgres) InsertObservations(ctx context.Context, obs []domain.Observation) (int, error) {
	if len(obs) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, o := range obs {
		batch.Queue(insertObservationSQL,
			o.LocationID, o.ObservationTime.UTC().Truncate(24*time.Hour), o.ObservationTime.UTC(),
			o.TemperatureC, o.FeelsLikeC, o.HumidityPct,
			o.WindSpeedMPS, o.WindDirectionDeg, o.WindGustMPS,
			o.PrecipitationMM, o.RainMM, o.ShowersMM, o.SnowfallCM,
			o.WeatherCode, o.CloudCoverPct, o.IsDay,
			o.PressureMSL, o.SurfacePressure,
		)
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	inserted := 0
	for range obs {
		tag, err := res.Exec()
		if err != nil {
			return inserted, fmt.Errorf("insert observation: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (s *Postgres) ReplaceForecastWindow(ctx context.Context, from, to time.Time, points []domain.ForecastPoint) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin forecast replace: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx,
		`DELETE FROM weather.fact_forecast WHERE forecast_time >= $1 AND forecast_time < $2`,
		from.UTC(), to.UTC(),
	); err != nil {
		return fmt.Errorf("clear forecast window: %w", err)
	}

	if len(points) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"weather", "fact_forecast"},
			[]string{
				"location_id", "date", "forecast_time",
				"temperature_2m", "temperature_80m", "temperature_120m",
				"humidity_pct", "dew_point", "apparent_temp",
				"precip_prob_pct", "precipitation_mm", "rain_mm", "showers_mm",
				"snowfall_cm", "snow_depth_m", "weather_code",
				"pressure_msl", "surface_pressure", "cloud_cover_pct",
				"visibility_m", "evapotranspiration",
				"wind_speed_mps", "wind_speed_80m_mps", "wind_speed_120m_mps",
				"wind_direction_deg", "wind_direction_80m", "wind_gust_mps",
			},
			pgx.CopyFromSlice(len(points), func(i int) ([]any, error) {
				f := points[i]
				return []any{
					f.LocationID, f.ForecastTime.UTC().Truncate(24 * time.Hour), f.ForecastTime.UTC(),
					f.TemperatureC, f.Temperature80mC, f.Temperature120mC,
					f.HumidityPct, f.DewPointC, f.FeelsLikeC,
					f.PrecipProbPct, f.PrecipitationMM, f.RainMM, f.ShowersMM,
					f.SnowfallCM, f.SnowDepthM, f.WeatherCode,
					f.PressureMSL, f.SurfacePressure, f.CloudCoverPct,
					f.VisibilityM, f.EvapotransMM,
					f.WindSpeedMPS, f.WindSpeed80mMPS, f.WindSpeed120mMPS,
					f.WindDirectionDeg, f.WindDirection80m, f.WindGustMPS,
				}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("load forecast window: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit forecast replace: %w", err)
	}
	return nil
}

func (s *Postgres) DeleteLocation(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM weather.dim_location WHERE location_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete location %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Postgres) Locations(ctx context.Context) ([]domain.Location, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT location_id, name, borough, latitude, longitude, timezone
		 FROM weather.dim_location ORDER BY location_id`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []domain.Location
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Borough, &l.Latitude, &l.Longitude, &l.Timezone); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Postgres) ObservationsSince(ctx context.Context, since time.Time) ([]domain.Observation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT location_id, observation_time,
		       temperature_2m, apparent_temp, humidity_pct,
		       wind_speed_mps, wind_direction_deg, wind_gust_mps,
		       precipitation_mm, rain_mm, showers_mm, snowfall_cm,
		       weather_code, cloud_cover_pct, is_day,
		       pressure_msl, surface_pressure
		FROM weather.fact_observation
		WHERE observation_time >= $1
		ORDER BY location_id, observation_time`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var out []domain.Observation
	for rows.Next() {
		var o domain.Observation
		if err := rows.Scan(
			&o.LocationID, &o.ObservationTime,
			&o.TemperatureC, &o.FeelsLikeC, &o.HumidityPct,
			&o.WindSpeedMPS, &o.WindDirectionDeg, &o.WindGustMPS,
			&o.PrecipitationMM, &o.RainMM, &o.ShowersMM, &o.SnowfallCM,
			&o.WeatherCode, &o.CloudCoverPct, &o.IsDay,
			&o.PressureMSL, &o.SurfacePressure,
		); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		o.ObservationTime = o.ObservationTime.UTC()
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Postgres) ForecastsBetween(ctx context.Context, from, to time.Time) ([]domain.ForecastPoint, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT location_id, forecast_time,
		       temperature_2m, temperature_80m, temperature_120m,
		       humidity_pct, dew_point, apparent_temp,
		       precip_prob_pct, precipitation_mm, rain_mm, showers_mm,
		       snowfall_cm, snow_depth_m, weather_code,
		       pressure_msl, surface_pressure, cloud_cover_pct,
		       visibility_m, evapotranspiration,
		       wind_speed_mps, wind_speed_80m_mps, wind_speed_120m_mps,
		       wind_direction_deg, wind_direction_80m, wind_gust_mps
		FROM weather.fact_forecast
		WHERE forecast_time >= $1 AND forecast_time < $2
		ORDER BY location_id, forecast_time`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("query forecasts: %w", err)
	}
	defer rows.Close()

	var out []domain.ForecastPoint
	for rows.Next() {
		var f domain.ForecastPoint
		if err := rows.Scan(
			&f.LocationID, &f.ForecastTime,
			&f.TemperatureC, &f.Temperature80mC, &f.Temperature120mC,
			&f.HumidityPct, &f.DewPointC, &f.FeelsLikeC,
			&f.PrecipProbPct, &f.PrecipitationMM, &f.RainMM, &f.ShowersMM,
			&f.SnowfallCM, &f.SnowDepthM, &f.WeatherCode,
			&f.PressureMSL, &f.SurfacePressure, &f.CloudCoverPct,
			&f.VisibilityM, &f.EvapotransMM,
			&f.WindSpeedMPS, &f.WindSpeed80mMPS, &f.WindSpeed120mMPS,
			&f.WindDirectionDeg, &f.WindDirection80m, &f.WindGustMPS,
		); err != nil {
			return nil, fmt.Errorf("scan forecast: %w", err)
		}
		f.ForecastTime = f.ForecastTime.UTC()
		out = append(out, f)
	}
	return out, rows.Err()
}

// replaceTable swaps the full contents of a derived table inside one
// transaction: all-old or all-new, never mixed or empty.
func (s *Postgres) replaceTable(ctx context.Context, table pgx.Identifier, columns []string, rowCount int, row func(i int) ([]any, error)) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace %s: %w", table.Sanitize(), err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, "DELETE FROM "+table.Sanitize()); err != nil {
		return fmt.Errorf("clear %s: %w", table.Sanitize(), err)
	}
	if rowCount > 0 {
		if _, err := tx.CopyFrom(ctx, table, columns, pgx.CopyFromSlice(rowCount, row)); err != nil {
			return fmt.Errorf("load %s: %w", table.Sanitize(), err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace %s: %w", table.Sanitize(), err)
	}
	return nil
}

func (s *Postgres) ReplaceHourlySummaries(ctx context.Context, rows []domain.HourlySummary) error {
	return s.replaceTable(ctx,
		pgx.Identifier{"weather", "int_hourly_summary"},
		[]string{
			"location_id", "hour_start", "latest_observation",
			"temperature_f", "feels_like_f", "temp_category", "condition", "comfort_level", "day_night",
			"avg_humidity_pct", "avg_wind_mph", "avg_wind_dir_deg", "avg_cloud_cover", "avg_pressure_msl",
			"max_gust_mph", "total_precip_mm", "total_rain_mm", "total_snow_cm",
			"any_precip", "any_snow", "any_freezing", "any_windy", "readings_count",
		},
		len(rows), func(i int) ([]any, error) {
			h := rows[i]
			return []any{
				h.LocationID, h.HourStart, h.LatestObservation,
				h.TemperatureF, h.FeelsLikeF, h.TempCategory, h.Condition, h.ComfortLevel, h.DayNight,
				h.AvgHumidityPct, h.AvgWindMPH, h.AvgWindDirDeg, h.AvgCloudCoverPct, h.AvgPressureMSL,
				h.MaxGustMPH, h.TotalPrecipMM, h.TotalRainMM, h.TotalSnowCM,
				h.AnyPrecip, h.AnySnow, h.AnyFreezing, h.AnyWindy, h.ReadingsCount,
			}, nil
		})
}

func (s *Postgres) ReplaceSnapshot(ctx context.Context, rows []domain.SnapshotRow) error {
	return s.replaceTable(ctx,
		pgx.Identifier{"weather", "mart_current_snapshot"},
		[]string{
			"location_id", "location_name", "borough", "observation_time",
			"temperature_f", "feels_like_f", "temp_category", "condition", "comfort_level",
			"wind_mph", "wind_cardinal", "day_night",
		},
		len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return []any{
				r.LocationID, r.LocationName, r.Borough, r.ObservationTime,
				r.TemperatureF, r.FeelsLikeF, r.TempCategory, r.Condition, r.ComfortLevel,
				r.WindMPH, r.WindCardinal, r.DayNight,
			}, nil
		})
}

func (s *Postgres) ReplaceDailySummaries(ctx context.Context, rows []domain.DailySummary) error {
	return s.replaceTable(ctx,
		pgx.Identifier{"weather", "mart_daily_summary"},
		[]string{
			"location_id", "date", "min_temp_f", "max_temp_f", "avg_temp_f", "temp_range_f",
			"total_precip_mm", "total_snow_cm", "predominant_condition",
			"hours_observed", "hours_with_precip", "hours_with_snow",
		},
		len(rows), func(i int) ([]any, error) {
			d := rows[i]
			return []any{
				d.LocationID, d.Date, d.MinTempF, d.MaxTempF, d.AvgTempF, d.TempRangeF,
				d.TotalPrecipMM, d.TotalSnowCM, d.PredominantCondition,
				d.HoursObserved, d.HoursWithPrecip, d.HoursWithSnow,
			}, nil
		})
}

func (s *Postgres) ReplaceWeeklySummaries(ctx context.Context, rows []domain.WeeklySummary) error {
	return s.replaceTable(ctx,
		pgx.Identifier{"weather", "mart_weekly_summary"},
		[]string{
			"location_id", "week_start", "min_temp_f", "max_temp_f", "avg_temp_f",
			"total_precip_mm", "total_snow_cm", "predominant_condition", "days_observed",
		},
		len(rows), func(i int) ([]any, error) {
			w := rows[i]
			return []any{
				w.LocationID, w.WeekStart, w.MinTempF, w.MaxTempF, w.AvgTempF,
				w.TotalPrecipMM, w.TotalSnowCM, w.PredominantCondition, w.DaysObserved,
			}, nil
		})
}

func (s *Postgres) ReplaceBoroughDailySummaries(ctx context.Context, rows []domain.BoroughDailySummary) error {
	return s.replaceTable(ctx,
		pgx.Identifier{"weather", "mart_borough_daily"},
		[]string{
			"borough", "date", "avg_temp_f", "min_temp_f", "max_temp_f",
			"total_precip_mm", "locations_reporting", "pct_with_precip", "pct_with_snow",
		},
		len(rows), func(i int) ([]any, error) {
			b := rows[i]
			return []any{
				b.Borough, b.Date, b.AvgTempF, b.MinTempF, b.MaxTempF,
				b.TotalPrecipMM, b.LocationsReporting, b.PctWithPrecip, b.PctWithSnow,
			}, nil
		})
}
