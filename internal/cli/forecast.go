package cli

import (
	"bytes"
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"labor-odds/internal/dataset"
	"labor-odds/internal/engine"
	"labor-odds/internal/errors"
	"labor-odds/internal/logger"
	"labor-odds/internal/model"
	"labor-odds/internal/report"
)

func (a *app) forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Write the net probability for every date in the window",
		Long: `Write the net probability for every date in the window.

The report goes to --output ("-" for stdout) in --format csv or json. With
--sink-dsn the same table is also stored in postgres or sqlite.

Examples:
  labor-odds forecast
  labor-odds forecast --start 2023-11-01 --end 2023-12-31 --output - --format json
  labor-odds forecast --sink-dsn sqlite://odds.db`,
		RunE: a.runForecast,
	}

	f := cmd.Flags()
	f.StringVar(&a.opts.start, "start", "", "First date, YYYY-MM-DD (default today)")
	f.StringVar(&a.opts.end, "end", "", "Last date, YYYY-MM-DD (default January 15 after the season start)")
	f.StringVarP(&a.opts.output, "output", "o", "", "Output file, - for stdout")
	f.StringVar(&a.opts.format, "format", "", "Output format (csv, json)")
	f.StringVar(&a.opts.sinkDSN, "sink-dsn", "", "Also store the forecast in postgres:// or sqlite:// DSN")
	return cmd
}

func (a *app) runForecast(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := a.cfg

	ds, err := dataset.Load(ctx, cfg.DatasetOptions())
	if err != nil {
		return err
	}
	logger.Log.WithFields(logrus.Fields{
		"population": len(ds.Individuals),
		"delivered":  ds.Delivered,
		"offsets":    ds.Table.Len(),
	}).Info("Dataset loaded")

	resp := engine.Forecast(cfg.Params(), ds.Table, ds.Individuals)
	logMessages(resp.ForecastResult.Messages)

	var buf bytes.Buffer
	w, err := report.New(cfg.OutputFormat, &buf)
	if err != nil {
		return err
	}
	if err := w.Write(ctx, resp); err != nil {
		return errors.Wrap(err, "failed to render report")
	}

	if cfg.OutputFile == "-" {
		if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
			return err
		}
	} else if err := os.WriteFile(cfg.OutputFile, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", cfg.OutputFile)
	}

	if cfg.SinkDSN != "" {
		if err := storeForecast(ctx, cfg.SinkDSN, resp); err != nil {
			return err
		}
	}

	fields := logrus.Fields{
		"forecast_id": resp.ForecastMetadata.ForecastID,
		"days":        len(resp.ForecastResult.Series),
		"output":      cfg.OutputFile,
	}
	if peak := resp.ForecastResult.Peak; peak != nil {
		fields["peak_date"] = peak.Date
		fields["peak_probability"] = peak.NetProbability
	}
	logger.Log.WithFields(fields).Info("Forecast written")
	return nil
}

func storeForecast(ctx context.Context, dsn string, resp *model.ForecastResponse) error {
	sink, err := report.OpenSink(dsn)
	if err != nil {
		return err
	}
	defer sink.Close()

	if err := sink.Migrate(ctx); err != nil {
		return err
	}
	if err := sink.Write(ctx, resp); err != nil {
		return err
	}
	logger.Log.WithField("forecast_id", resp.ForecastMetadata.ForecastID).Info("Forecast stored in sink")
	return nil
}

func logMessages(msgs []model.ForecastMessage) {
	for _, m := range msgs {
		logger.Log.WithField("code", m.Code).Warn(m.Message)
	}
}
