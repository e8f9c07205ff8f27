package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"labor-odds/internal/dataset"
	"labor-odds/internal/errors"
	"labor-odds/internal/histogram"
)

func (a *app) histogramCmd() *cobra.Command {
	var (
		scheduled bool
		csvPath   string
	)

	cmd := &cobra.Command{
		Use:   "histogram",
		Short: "Chart how many due dates fall on each day",
		Long: `Chart how many due dates fall on each day.

With --scheduled, people with a scheduled date are counted on that date
instead of their due date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			ds, err := dataset.Load(ctx, a.cfg.DatasetOptions())
			if err != nil {
				return err
			}

			title := "Due dates"
			dates := histogram.DueDates(ds.Individuals)
			if scheduled {
				title = "Scheduled or due dates"
				dates = histogram.ScheduledOrDueDates(ds.Individuals)
			}
			bins := histogram.Bins(dates)

			if err := histogram.Render(cmd.OutOrStdout(), title, bins); err != nil {
				return err
			}

			if csvPath == "" {
				return nil
			}
			f, err := os.Create(csvPath)
			if err != nil {
				return errors.Wrapf(err, "failed to create %s", csvPath)
			}
			defer f.Close()
			return histogram.WriteCSV(f, bins)
		},
	}

	cmd.Flags().BoolVar(&scheduled, "scheduled", false, "Count scheduled dates instead of due dates where given")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Also write the bins to this CSV file")
	return cmd
}
