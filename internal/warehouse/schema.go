package warehouse

// DDL applied at startup by the Postgres store. Statements are idempotent so
// repeated boots are safe. Fact tables carry their natural key as the primary
// key, the load-time enforcement mechanism for idempotent ingestion, and
// cascade from dim_location so deleting a location removes its facts.
var schemaStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS weather`,

	`CREATE TABLE IF NOT EXISTS weather.dim_location (
		location_id  BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		name         TEXT NOT NULL,
		borough      TEXT NOT NULL DEFAULT '',
		latitude     DOUBLE PRECISION NOT NULL,
		longitude    DOUBLE PRECISION NOT NULL,
		timezone     TEXT NOT NULL DEFAULT 'UTC',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (latitude, longitude)
	)`,

	`CREATE TABLE IF NOT EXISTS weather.dim_date (
		date          DATE PRIMARY KEY,
		year          INT NOT NULL,
		month         INT NOT NULL,
		day           INT NOT NULL,
		day_of_week   INT NOT NULL,
		day_name      TEXT NOT NULL,
		week_of_year  INT NOT NULL,
		quarter       INT NOT NULL,
		is_weekend    BOOLEAN NOT NULL,
		is_holiday    BOOLEAN NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS weather.fact_observation (
		location_id        BIGINT NOT NULL REFERENCES weather.dim_location ON DELETE CASCADE,
		date               DATE NOT NULL REFERENCES weather.dim_date,
		observation_time   TIMESTAMPTZ NOT NULL,
		temperature_2m     DOUBLE PRECISION NOT NULL,
		apparent_temp      DOUBLE PRECISION NOT NULL,
		humidity_pct       DOUBLE PRECISION NOT NULL,
		wind_speed_mps     DOUBLE PRECISION NOT NULL,
		wind_direction_deg DOUBLE PRECISION NOT NULL,
		wind_gust_mps      DOUBLE PRECISION NOT NULL,
		precipitation_mm   DOUBLE PRECISION NOT NULL,
		rain_mm            DOUBLE PRECISION NOT NULL,
		showers_mm         DOUBLE PRECISION NOT NULL,
		snowfall_cm        DOUBLE PRECISION NOT NULL,
		weather_code       INT NOT NULL,
		cloud_cover_pct    DOUBLE PRECISION NOT NULL,
		is_day             INT NOT NULL,
		pressure_msl       DOUBLE PRECISION NOT NULL,
		surface_pressure   DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (location_id, observation_time)
	)`,

	`CREATE TABLE IF NOT EXISTS weather.fact_forecast (
		location_id          BIGINT NOT NULL REFERENCES weather.dim_location ON DELETE CASCADE,
		date                 DATE NOT NULL REFERENCES weather.dim_date,
		forecast_time        TIMESTAMPTZ NOT NULL,
		temperature_2m       DOUBLE PRECISION NOT NULL,
		temperature_80m      DOUBLE PRECISION NOT NULL,
		temperature_120m     DOUBLE PRECISION NOT NULL,
		humidity_pct         DOUBLE PRECISION NOT NULL,
		dew_point            DOUBLE PRECISION NOT NULL,
		apparent_temp        DOUBLE PRECISION NOT NULL,
		precip_prob_pct      DOUBLE PRECISION NOT NULL,
		precipitation_mm     DOUBLE PRECISION NOT NULL,
		rain_mm              DOUBLE PRECISION NOT NULL,
		showers_mm           DOUBLE PRECISION NOT NULL,
		snowfall_cm          DOUBLE PRECISION NOT NULL,
		snow_depth_m         DOUBLE PRECISION NOT NULL,
		weather_code         INT NOT NULL,
		pressure_msl         DOUBLE PRECISION NOT NULL,
		surface_pressure     DOUBLE PRECISION NOT NULL,
		cloud_cover_pct      DOUBLE PRECISION NOT NULL,
		visibility_m         DOUBLE PRECISION NOT NULL,
		evapotranspiration   DOUBLE PRECISION NOT NULL,
		wind_speed_mps       DOUBLE PRECISION NOT NULL,
		wind_speed_80m_mps   DOUBLE PRECISION NOT NULL,
		wind_speed_120m_mps  DOUBLE PRECISION NOT NULL,
		wind_direction_deg   DOUBLE PRECISION NOT NULL,
		wind_direction_80m   DOUBLE PRECISION NOT NULL,
		wind_gust_mps        DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (location_id, forecast_time)
	)`,

	`CREATE TABLE IF NOT EXISTS weather.int_hourly_summary (
		location_id        BIGINT NOT NULL,
		hour_start         TIMESTAMPTZ NOT NULL,
		latest_observation TIMESTAMPTZ NOT NULL,
		temperature_f      DOUBLE PRECISION NOT NULL,
		feels_like_f       DOUBLE PRECISION NOT NULL,
		temp_category      TEXT NOT NULL,
		condition          TEXT NOT NULL,
		comfort_level      TEXT NOT NULL,
		day_night          TEXT NOT NULL,
		avg_humidity_pct   DOUBLE PRECISION NOT NULL,
		avg_wind_mph       DOUBLE PRECISION NOT NULL,
		avg_wind_dir_deg   DOUBLE PRECISION NOT NULL,
		avg_cloud_cover    DOUBLE PRECISION NOT NULL,
		avg_pressure_msl   DOUBLE PRECISION NOT NULL,
		max_gust_mph       DOUBLE PRECISION NOT NULL,
		total_precip_mm    DOUBLE PRECISION NOT NULL,
		total_rain_mm      DOUBLE PRECISION NOT NULL,
		total_snow_cm      DOUBLE PRECISION NOT NULL,
		any_precip         BOOLEAN NOT NULL,
		any_snow           BOOLEAN NOT NULL,
		any_freezing       BOOLEAN NOT NULL,
		any_windy          BOOLEAN NOT NULL,
		readings_count     INT NOT NULL,
		PRIMARY KEY (location_id, hour_start)
	)`,

	`CREATE TABLE IF NOT EXISTS weather.mart_current_snapshot (
		location_id      BIGINT PRIMARY KEY,
		location_name    TEXT NOT NULL,
		borough          TEXT NOT NULL,
		observation_time TIMESTAMPTZ NOT NULL,
		temperature_f    DOUBLE PRECISION NOT NULL,
		feels_like_f     DOUBLE PRECISION NOT NULL,
		temp_category    TEXT NOT NULL,
		condition        TEXT NOT NULL,
		comfort_level    TEXT NOT NULL,
		wind_mph         DOUBLE PRECISION NOT NULL,
		wind_cardinal    TEXT NOT NULL,
		day_night        TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS weather.mart_daily_summary (
		location_id           BIGINT NOT NULL,
		date                  DATE NOT NULL,
		min_temp_f            DOUBLE PRECISION NOT NULL,
		max_temp_f            DOUBLE PRECISION NOT NULL,
		avg_temp_f            DOUBLE PRECISION NOT NULL,
		temp_range_f          DOUBLE PRECISION NOT NULL,
		total_precip_mm       DOUBLE PRECISION NOT NULL,
		total_snow_cm         DOUBLE PRECISION NOT NULL,
		predominant_condition TEXT NOT NULL,
		hours_observed        INT NOT NULL,
		hours_with_precip     INT NOT NULL,
		hours_with_snow       INT NOT NULL,
		PRIMARY KEY (location_id, date)
	)`,

	`CREATE TABLE IF NOT EXISTS weather.mart_weekly_summary (
		location_id           BIGINT NOT NULL,
		week_start            DATE NOT NULL,
		min_temp_f            DOUBLE PRECISION NOT NULL,
		max_temp_f            DOUBLE PRECISION NOT NULL,
		avg_temp_f            DOUBLE PRECISION NOT NULL,
		total_precip_mm       DOUBLE PRECISION NOT NULL,
		total_snow_cm         DOUBLE PRECISION NOT NULL,
		predominant_condition TEXT NOT NULL,
		days_observed         INT NOT NULL,
		PRIMARY KEY (location_id, week_start)
	)`,

	`CREATE TABLE IF NOT EXISTS weather.mart_borough_daily (
		borough             TEXT NOT NULL,
		date                DATE NOT NULL,
		avg_temp_f          DOUBLE PRECISION NOT NULL,
		min_temp_f          DOUBLE PRECISION NOT NULL,
		max_temp_f          DOUBLE PRECISION NOT NULL,
		total_precip_mm     DOUBLE PRECISION NOT NULL,
		locations_reporting INT NOT NULL,
		pct_with_precip     DOUBLE PRECISION NOT NULL,
		pct_with_snow       DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (borough, date)
	)`,
}
