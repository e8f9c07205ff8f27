// Package histogram counts how many individuals fall on each calendar day.
package histogram

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"labor-odds/internal/calendar"
	"labor-odds/internal/model"
)

// padDays widens the range on both sides so edge days are visible.
const padDays = 2

func DueDates(individuals []model.Individual) []time.Time {
	dates := make([]time.Time, 0, len(individuals))
	for _, ind := range individuals {
		dates = append(dates, ind.DueDate)
	}
	return dates
}

// ScheduledOrDueDates uses the explicit scheduled date when one was given.
func ScheduledOrDueDates(individuals []model.Individual) []time.Time {
	dates := make([]time.Time, 0, len(individuals))
	for _, ind := range individuals {
		dates = append(dates, ind.ScheduledOrDue())
	}
	return dates
}

// Bins returns one bin per day from min-2 to max+2, zero-filled.
func Bins(dates []time.Time) []model.HistogramBin {
	if len(dates) == 0 {
		return nil
	}

	lo, hi := calendar.Normalize(dates[0]), calendar.Normalize(dates[0])
	counts := make(map[time.Time]int, len(dates))
	for _, d := range dates {
		d = calendar.Normalize(d)
		counts[d]++
		if d.Before(lo) {
			lo = d
		}
		if d.After(hi) {
			hi = d
		}
	}

	days := calendar.GenerateDates(calendar.AddDays(lo, -padDays), calendar.AddDays(hi, padDays))
	bins := make([]model.HistogramBin, 0, len(days))
	for _, d := range days {
		bins = append(bins, model.HistogramBin{Date: calendar.Format(d), Count: counts[d]})
	}
	return bins
}

// Render draws the bins as a terminal bar chart.
func Render(w io.Writer, title string, bins []model.HistogramBin) error {
	if len(bins) == 0 {
		_, err := fmt.Fprintf(w, "%s\n(no individuals)\n", pterm.Bold.Sprint(title))
		return err
	}

	bars := make(pterm.Bars, 0, len(bins))
	for _, b := range bins {
		bars = append(bars, pterm.Bar{Label: b.Date, Value: b.Count})
	}

	chart, err := pterm.DefaultBarChart.
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n", pterm.Bold.Sprint(title), chart)
	return err
}

func WriteCSV(w io.Writer, bins []model.HistogramBin) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Count"}); err != nil {
		return err
	}
	for _, b := range bins {
		if err := cw.Write([]string{b.Date, strconv.Itoa(b.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
