package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"labor-odds/internal/calendar"
	"labor-odds/internal/dataset"
	"labor-odds/internal/engine"
	"labor-odds/internal/errors"
	"labor-odds/internal/model"
	"labor-odds/internal/population"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	ProbabilitiesSource string
	PopulationSource    string
	OutputFile          string
	OutputFormat        string
	WindowStart         time.Time
	WindowEnd           time.Time
	WindowStartSet      bool // false means "today" at the time of each forecast
	WindowEndSet        bool
	SeasonStartYear     int
	MaxOverdueDays      int
	LogLevel            string
	Environment         string
	Port                string
	RefreshCron         string
	SinkDSN             string // empty disables the SQL sink
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load never overrides variables already set
	_ = godotenv.Load()
	return load(time.Now())
}

func load(now time.Time) (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.ProbabilitiesSource = getenv("PROBABILITIES_SOURCE", "probabilities.csv")
	cfg.PopulationSource = getenv("POPULATION_SOURCE", "due_dates.csv")
	cfg.OutputFile = getenv("OUTPUT_FILE", "net_probabilities.csv")
	cfg.OutputFormat = strings.ToLower(getenv("OUTPUT_FORMAT", "csv"))

	cfg.SeasonStartYear = DefaultSeasonStartYear(now)
	if s := os.Getenv("SEASON_START_YEAR"); s != "" {
		cfg.SeasonStartYear, err = strconv.Atoi(s)
		if err != nil {
			return nil, invalid("SEASON_START_YEAR", s, err)
		}
	}

	cfg.MaxOverdueDays = model.DefaultMaxOverdueDays
	if s := os.Getenv("MAX_OVERDUE_DAYS"); s != "" {
		cfg.MaxOverdueDays, err = strconv.Atoi(s)
		if err != nil {
			return nil, invalid("MAX_OVERDUE_DAYS", s, err)
		}
	}
	if cfg.MaxOverdueDays < 0 {
		return nil, invalid("MAX_OVERDUE_DAYS", strconv.Itoa(cfg.MaxOverdueDays), nil)
	}

	cfg.WindowStart = calendar.Normalize(now)
	if s := os.Getenv("WINDOW_START"); s != "" {
		cfg.WindowStart, err = calendar.ParseISO(s)
		if err != nil {
			return nil, invalid("WINDOW_START", s, err)
		}
		cfg.WindowStartSet = true
	}

	cfg.WindowEnd = DefaultWindowEnd(cfg.SeasonStartYear)
	if s := os.Getenv("WINDOW_END"); s != "" {
		cfg.WindowEnd, err = calendar.ParseISO(s)
		if err != nil {
			return nil, invalid("WINDOW_END", s, err)
		}
		cfg.WindowEndSet = true
	}

	cfg.LogLevel = strings.ToLower(getenv("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getenv("ENVIRONMENT", "development"))
	cfg.Port = getenv("PORT", "8080")
	cfg.RefreshCron = getenv("REFRESH_CRON", "5 0 * * *") // 00:05 daily
	cfg.SinkDSN = os.Getenv("SINK_DSN")

	return cfg, nil
}

// DefaultSeasonStartYear is the current year, or the previous one while in
// January since January due dates belong to the season that began before it.
func DefaultSeasonStartYear(now time.Time) int {
	if now.Month() == time.January {
		return now.Year() - 1
	}
	return now.Year()
}

// DefaultWindowEnd is January 15 of the year after the season starts.
func DefaultWindowEnd(seasonStartYear int) time.Time {
	return calendar.Date(seasonStartYear+1, time.January, 15)
}

func (c *AppConfig) Params() engine.Params {
	return engine.Params{Start: c.WindowStart, End: c.WindowEnd}
}

// ParamsAt is Params with an unset window start moved to now's date.
func (c *AppConfig) ParamsAt(now time.Time) engine.Params {
	p := c.Params()
	if !c.WindowStartSet {
		p.Start = calendar.Normalize(now)
	}
	return p
}

func (c *AppConfig) DatasetOptions() dataset.Options {
	return dataset.Options{
		ProbabilitiesSource: c.ProbabilitiesSource,
		PopulationSource:    c.PopulationSource,
		Population: population.Options{
			SeasonStartYear: c.SeasonStartYear,
			MaxOverdueDays:  c.MaxOverdueDays,
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func invalid(key, value string, cause error) error {
	err := errors.Wrapf(errors.ErrInvalidConfig, "%s=%q", key, value)
	if cause != nil {
		err = errors.WithSecondaryError(err, cause)
	}
	return err
}
