package report

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"labor-odds/internal/model"
)

// CSVWriter writes the output table as "Date,Net Probability" rows.
type CSVWriter struct {
	w io.Writer
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

func (c *CSVWriter) Write(_ context.Context, resp *model.ForecastResponse) error {
	cw := csv.NewWriter(c.w)
	if err := cw.Write([]string{"Date", "Net Probability"}); err != nil {
		return err
	}
	for _, p := range resp.ForecastResult.Series {
		if err := cw.Write([]string{p.Date, strconv.FormatFloat(p.NetProbability, 'g', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
