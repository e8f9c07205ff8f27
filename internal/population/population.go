package population

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"labor-odds/internal/calendar"
	"labor-odds/internal/errors"
	"labor-odds/internal/model"
)

// Options controls how rows are turned into individuals.
type Options struct {
	// SeasonStartYear is the year for every month except January, which
	// rolls over into the following year.
	SeasonStartYear int
	MaxOverdueDays  int
}

type Result struct {
	Individuals []model.Individual
	// Delivered counts rows dropped because the baby was already born.
	Delivered int
}

// Load reads rows of
//
//	label, due "mm/dd", scheduled "mm/dd" or "", delivered "TRUE"/"FALSE"/""
//
// skipping the header row. Delivered rows are excluded entirely.
func Load(r io.Reader, opts Options) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	res := &Result{Individuals: []model.Individual{}}
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Malformed(line, "row", "", err)
		}
		if line == 1 {
			continue
		}
		if len(row) < 3 {
			return nil, errors.Malformed(line, "row", strings.Join(row, ","), nil)
		}

		if len(row) > 3 && isDelivered(row[3]) {
			res.Delivered++
			continue
		}

		due, err := calendar.ParseMonthDay(row[1], opts.SeasonStartYear)
		if err != nil {
			return nil, errors.Malformed(line, "due date", row[1], err)
		}

		var scheduled *time.Time
		if raw := strings.TrimSpace(row[2]); raw != "" {
			s, err := calendar.ParseMonthDay(raw, opts.SeasonStartYear)
			if err != nil {
				return nil, errors.Malformed(line, "scheduled date", row[2], err)
			}
			scheduled = &s
		}

		res.Individuals = append(res.Individuals, model.NewIndividual(row[0], due, scheduled, opts.MaxOverdueDays))
	}

	return res, nil
}

func isDelivered(flag string) bool {
	return strings.EqualFold(strings.TrimSpace(flag), "TRUE")
}
