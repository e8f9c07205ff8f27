package report

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"labor-odds/internal/errors"
	"labor-odds/internal/model"
)

const (
	defaultMaxOpenConns    = 5
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS forecast_runs (
		forecast_id     TEXT PRIMARY KEY,
		window_start    TEXT NOT NULL,
		window_end      TEXT NOT NULL,
		population_size INTEGER NOT NULL,
		completed_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS forecast_points (
		forecast_id     TEXT NOT NULL REFERENCES forecast_runs (forecast_id),
		forecast_date   TEXT NOT NULL,
		net_probability DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (forecast_id, forecast_date)
	)`,
}

// SQLSink stores forecasts in forecast_runs / forecast_points.
type SQLSink struct {
	db *sql.DB
}

func NewSQLSink(db *sql.DB) *SQLSink {
	return &SQLSink{db: db}
}

// OpenSink connects to dsn. postgres:// and postgresql:// use lib/pq;
// sqlite://<path> and file: URIs use go-sqlite3.
func OpenSink(dsn string) (*SQLSink, error) {
	driver, name, err := driverFor(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sink connection")
	}
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping sink")
	}
	return &SQLSink{db: db}, nil
}

func driverFor(dsn string) (driver, name string, err error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite3", strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "file:"):
		return "sqlite3", dsn, nil
	}
	return "", "", errors.WithHint(errors.Wrapf(errors.ErrInvalidConfig, "sink dsn %q", dsn),
		"use postgres://..., sqlite://<path> or file:<path>")
}

// Migrate creates the tables if they do not exist.
func (s *SQLSink) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to migrate sink schema")
		}
	}
	return nil
}

func (s *SQLSink) Write(ctx context.Context, resp *model.ForecastResponse) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin forecast insert")
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	meta := resp.ForecastMetadata
	_, err = tx.ExecContext(ctx,
		`INSERT INTO forecast_runs (forecast_id, window_start, window_end, population_size, completed_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		meta.ForecastID, meta.WindowStart, meta.WindowEnd, meta.PopulationSize, meta.ForecastCompletedAt)
	if err != nil {
		return errors.Wrapf(err, "failed to insert forecast run %s", meta.ForecastID)
	}

	for _, p := range resp.ForecastResult.Series {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO forecast_points (forecast_id, forecast_date, net_probability) VALUES ($1, $2, $3)`,
			meta.ForecastID, p.Date, p.NetProbability)
		if err != nil {
			return errors.Wrapf(err, "failed to insert forecast point %s", p.Date)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit forecast")
	}
	return nil
}

func (s *SQLSink) Close() error {
	return s.db.Close()
}
