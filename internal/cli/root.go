package cli

import (
	"github.com/spf13/cobra"

	"labor-odds/internal/calendar"
	"labor-odds/internal/config"
	"labor-odds/internal/errors"
	"labor-odds/internal/logger"
)

// options holds flag values; a flag only overrides the environment when set.
type options struct {
	probabilities string
	population    string
	seasonYear    int
	maxOverdue    int
	logLevel      string
	start         string
	end           string
	output        string
	format        string
	sinkDSN       string
	port          string
	refreshCron   string
}

type app struct {
	opts options
	cfg  *config.AppConfig
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "labor-odds",
		Short: "Daily odds that someone in a group of expecting parents goes into labor",
		Long: `labor-odds: daily odds that at least one person in a group goes into labor

Reads a table of per-day labor probabilities relative to the due date and a
list of due dates (with optional scheduled induction/c-section dates), then
computes for each calendar date the probability that at least one person
delivers that day.

Examples:
  labor-odds forecast --start 2023-11-01 --end 2024-01-15
  labor-odds day --date 2023-12-24
  labor-odds histogram --scheduled
  labor-odds serve --port 8080`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return errors.Wrap(err, "failed to load configuration")
			}
			if err := a.applyFlags(cmd, cfg); err != nil {
				return err
			}
			a.cfg = cfg
			logger.Init(cfg)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.opts.probabilities, "probabilities", "", "Probability table CSV (file or URL, .gz allowed)")
	pf.StringVar(&a.opts.population, "population", "", "Due dates CSV (file or URL, .gz allowed)")
	pf.IntVar(&a.opts.seasonYear, "season-year", 0, "Year the due-date season starts in (January rolls into the next year)")
	pf.IntVar(&a.opts.maxOverdue, "max-overdue", 0, "Days past due assumed as delivery date when none is scheduled")
	pf.StringVar(&a.opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(a.forecastCmd(), a.dayCmd(), a.histogramCmd(), a.serveCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) applyFlags(cmd *cobra.Command, cfg *config.AppConfig) error {
	flags := cmd.Flags()

	if flags.Changed("probabilities") {
		cfg.ProbabilitiesSource = a.opts.probabilities
	}
	if flags.Changed("population") {
		cfg.PopulationSource = a.opts.population
	}
	if flags.Changed("season-year") {
		cfg.SeasonStartYear = a.opts.seasonYear
		if !cfg.WindowEndSet {
			cfg.WindowEnd = config.DefaultWindowEnd(cfg.SeasonStartYear)
		}
	}
	if flags.Changed("max-overdue") {
		if a.opts.maxOverdue < 0 {
			return errors.Wrapf(errors.ErrInvalidConfig, "--max-overdue=%d", a.opts.maxOverdue)
		}
		cfg.MaxOverdueDays = a.opts.maxOverdue
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.opts.logLevel
	}
	if flags.Changed("start") {
		d, err := calendar.ParseISO(a.opts.start)
		if err != nil {
			return errors.WithSecondaryError(errors.Wrapf(errors.ErrInvalidConfig, "--start=%q", a.opts.start), err)
		}
		cfg.WindowStart, cfg.WindowStartSet = d, true
	}
	if flags.Changed("end") {
		d, err := calendar.ParseISO(a.opts.end)
		if err != nil {
			return errors.WithSecondaryError(errors.Wrapf(errors.ErrInvalidConfig, "--end=%q", a.opts.end), err)
		}
		cfg.WindowEnd, cfg.WindowEndSet = d, true
	}
	if flags.Changed("output") {
		cfg.OutputFile = a.opts.output
	}
	if flags.Changed("format") {
		cfg.OutputFormat = a.opts.format
	}
	if flags.Changed("sink-dsn") {
		cfg.SinkDSN = a.opts.sinkDSN
	}
	if flags.Changed("port") {
		cfg.Port = a.opts.port
	}
	if flags.Changed("refresh-cron") {
		cfg.RefreshCron = a.opts.refreshCron
	}
	return nil
}
