package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"labor-odds/internal/calendar"
	"labor-odds/internal/dataset"
	"labor-odds/internal/engine"
	"labor-odds/internal/errors"
)

func (a *app) dayCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show each person's odds for one date",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			d := calendar.Normalize(time.Now())
			if date != "" {
				var err error
				if d, err = calendar.ParseISO(date); err != nil {
					return errors.WithSecondaryError(errors.Wrapf(errors.ErrInvalidConfig, "--date=%q", date), err)
				}
			}

			ds, err := dataset.Load(ctx, a.cfg.DatasetOptions())
			if err != nil {
				return err
			}

			bd := engine.Breakdown(ds.Table, ds.Individuals, d)

			data := pterm.TableData{{"Name", "Due", "Offset", "Scheduled", "Probability"}}
			for _, ip := range bd.Individuals {
				sched := ""
				if ip.Scheduled {
					sched = "yes"
				}
				data = append(data, []string{
					ip.Label, ip.DueDate, strconv.Itoa(ip.Offset), sched, fmt.Sprintf("%.2f%%", ip.Probability*100),
				})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, table)
			fmt.Fprintf(out, "%s: net probability %.2f%%, expected deliveries %.3f\n",
				bd.Date, bd.NetProbability*100, bd.ExpectedDeliveries)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date to break down, YYYY-MM-DD (default today)")
	return cmd
}
