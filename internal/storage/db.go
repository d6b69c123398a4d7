// Package storage opens the Postgres connection and bootstraps the schema.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects to Postgres and verifies connectivity. This is the only
// failure that aborts a cycle before anything can be logged, so callers
// should exit non-zero on error.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// InitSchema creates the tables the hub writes to when they are absent.
// Upsert correctness under concurrent invocations relies on the natural-key
// primary keys declared here: the engine serializes conflicting writes.
func InitSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS master_inverters (
	id BIGSERIAL PRIMARY KEY,
	inverter_sn TEXT NOT NULL UNIQUE,
	sn TEXT,
	inverter_type TEXT,
	site_name TEXT,
	description TEXT
);

CREATE TABLE IF NOT EXISTS request_log (
	id BIGSERIAL PRIMARY KEY,
	source TEXT NOT NULL,
	requested_at TIMESTAMPTZ NOT NULL,
	http_status INT NOT NULL,
	succeeded BOOLEAN NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_request_log_source_time ON request_log (source, requested_at);

CREATE TABLE IF NOT EXISTS energy_data (
	fecha TEXT NOT NULL,
	periodo TEXT NOT NULL,
	min TEXT NOT NULL,
	inverter_id BIGINT NOT NULL,
	acpower DOUBLE PRECISION,
	yieldtoday DOUBLE PRECISION,
	yieldtotal DOUBLE PRECISION,
	feedinpower DOUBLE PRECISION,
	feedinenergy DOUBLE PRECISION,
	consumeenergy DOUBLE PRECISION,
	upload_time TEXT,
	PRIMARY KEY (fecha, periodo, min, inverter_id)
);

CREATE TABLE IF NOT EXISTS phase_power_data (
	fecha TEXT NOT NULL,
	periodo TEXT NOT NULL,
	min TEXT NOT NULL,
	inverter_id BIGINT NOT NULL,
	peps1 DOUBLE PRECISION,
	peps2 DOUBLE PRECISION,
	peps3 DOUBLE PRECISION,
	powerdc1 DOUBLE PRECISION,
	powerdc2 DOUBLE PRECISION,
	powerdc3 DOUBLE PRECISION,
	powerdc4 DOUBLE PRECISION,
	upload_time TEXT,
	PRIMARY KEY (fecha, periodo, min, inverter_id)
);

CREATE TABLE IF NOT EXISTS battery_data (
	fecha TEXT NOT NULL,
	periodo TEXT NOT NULL,
	min TEXT NOT NULL,
	inverter_id BIGINT NOT NULL,
	bat_power DOUBLE PRECISION,
	soc DOUBLE PRECISION,
	bat_status TEXT,
	upload_time TEXT,
	PRIMARY KEY (fecha, periodo, min, inverter_id)
);

CREATE TABLE IF NOT EXISTS current_weather (
	fecha TEXT NOT NULL,
	periodo TEXT NOT NULL,
	min TEXT NOT NULL,
	city_id BIGINT NOT NULL,
	city_name TEXT,
	country TEXT,
	lat DOUBLE PRECISION,
	lon DOUBLE PRECISION,
	temp DOUBLE PRECISION,
	feels_like DOUBLE PRECISION,
	temp_min DOUBLE PRECISION,
	temp_max DOUBLE PRECISION,
	pressure INT,
	humidity INT,
	sea_level INT,
	grnd_level INT,
	visibility INT,
	wind_speed DOUBLE PRECISION,
	wind_deg INT,
	wind_gust DOUBLE PRECISION,
	clouds INT,
	dt BIGINT,
	sunrise BIGINT,
	sunset BIGINT,
	weather_main TEXT,
	weather_description TEXT,
	weather_icon TEXT,
	timezone INT,
	rain_1h DOUBLE PRECISION,
	rain_3h DOUBLE PRECISION,
	PRIMARY KEY (fecha, periodo, min, city_id)
);

CREATE TABLE IF NOT EXISTS air_pollution (
	fecha TEXT NOT NULL,
	periodo TEXT NOT NULL,
	min TEXT NOT NULL,
	dt BIGINT NOT NULL,
	lat DOUBLE PRECISION,
	lon DOUBLE PRECISION,
	aqi INT,
	co DOUBLE PRECISION,
	no DOUBLE PRECISION,
	no2 DOUBLE PRECISION,
	o3 DOUBLE PRECISION,
	so2 DOUBLE PRECISION,
	pm2_5 DOUBLE PRECISION,
	pm10 DOUBLE PRECISION,
	nh3 DOUBLE PRECISION,
	PRIMARY KEY (fecha, periodo, min, dt)
);

CREATE TABLE IF NOT EXISTS hourly_weather (
	fecha TEXT NOT NULL,
	periodo TEXT NOT NULL,
	min TEXT NOT NULL,
	station TEXT NOT NULL,
	city_name TEXT,
	country_code TEXT,
	state_code TEXT,
	lat DOUBLE PRECISION,
	lon DOUBLE PRECISION,
	temp DOUBLE PRECISION,
	app_temp DOUBLE PRECISION,
	dewpt DOUBLE PRECISION,
	rh INT,
	pres DOUBLE PRECISION,
	slp DOUBLE PRECISION,
	clouds INT,
	vis DOUBLE PRECISION,
	precip DOUBLE PRECISION,
	snow DOUBLE PRECISION,
	uv DOUBLE PRECISION,
	aqi INT,
	ghi DOUBLE PRECISION,
	dni DOUBLE PRECISION,
	dhi DOUBLE PRECISION,
	solar_rad DOUBLE PRECISION,
	elev_angle DOUBLE PRECISION,
	h_angle DOUBLE PRECISION,
	pod TEXT,
	wind_spd DOUBLE PRECISION,
	wind_gust DOUBLE PRECISION,
	wind_dir INT,
	wind_cdir TEXT,
	wind_cdir_full TEXT,
	weather_icon TEXT,
	weather_code INT,
	weather_description TEXT,
	sunrise TEXT,
	sunset TEXT,
	ob_time TEXT,
	ts BIGINT,
	sources TEXT,
	PRIMARY KEY (fecha, periodo, min, station)
);

CREATE TABLE IF NOT EXISTS notification_log (
	inverter_id BIGINT NOT NULL,
	notification_type TEXT NOT NULL,
	sent_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (inverter_id, notification_type)
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
