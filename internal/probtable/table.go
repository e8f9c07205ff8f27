// Package probtable holds the per-offset labor probabilities relative to a due date.
package probtable

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"labor-odds/internal/errors"
)

// Entry is the pair of probabilities recorded for one day offset.
type Entry struct {
	// Spontaneous is the probability of unplanned labor starting on this offset.
	Spontaneous float64 `json:"spontaneous"`
	// Survival is the probability of still being undelivered upon reaching this offset.
	Survival float64 `json:"survival"`
}

// Table maps a signed day offset to its Entry. It is never mutated after
// construction and may be shared between goroutines.
type Table struct {
	entries map[int]Entry
}

func New(entries map[int]Entry) *Table {
	t := &Table{entries: make(map[int]Entry, len(entries))}
	for k, v := range entries {
		t.entries[k] = v
	}
	return t
}

// Lookup reports the entry for offset and whether the table has one.
func (t *Table) Lookup(offset int) (Entry, bool) {
	e, ok := t.entries[offset]
	return e, ok
}

// Spontaneous returns 0 for offsets the table has no data for.
func (t *Table) Spontaneous(offset int) float64 {
	return t.entries[offset].Spontaneous
}

// Survival returns 0 for offsets the table has no data for.
func (t *Table) Survival(offset int) float64 {
	return t.entries[offset].Survival
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Offsets returns the offsets present in ascending order.
func (t *Table) Offsets() []int {
	offsets := make([]int, 0, len(t.entries))
	for k := range t.entries {
		offsets = append(offsets, k)
	}
	sort.Ints(offsets)
	return offsets
}

// Load reads rows of
//
//	label, "<int> days", "<float>%", "<float>%"
//
// skipping the header row. A later row for an offset replaces an earlier one.
// Any unparsable row aborts the load with an error wrapping ErrMalformedRecord.
func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	entries := make(map[int]Entry)
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
		if len(row) < 4 {
			return nil, errors.Malformed(line, "row", strings.Join(row, ","), nil)
		}

		offset, err := parseOffset(row[1])
		if err != nil {
			return nil, errors.Malformed(line, "offset", row[1], err)
		}
		spontaneous, err := parsePercent(row[2])
		if err != nil {
			return nil, errors.Malformed(line, "spontaneous percentage", row[2], err)
		}
		survival, err := parsePercent(row[3])
		if err != nil {
			return nil, errors.Malformed(line, "survival percentage", row[3], err)
		}

		entries[offset] = Entry{Spontaneous: spontaneous, Survival: survival}
	}

	return &Table{entries: entries}, nil
}

// parseOffset accepts "-3 days", "1 day" or a bare integer.
func parseOffset(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "days")
	s = strings.TrimSuffix(s, "day")
	return strconv.Atoi(strings.TrimSpace(s))
}

// parsePercent converts "2.7%" into the ratio 0.027.
func parsePercent(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}
