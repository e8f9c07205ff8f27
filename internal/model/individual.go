package model

import (
	"time"

	"labor-odds/internal/calendar"
)

// DefaultMaxOverdueDays is how long past the due date delivery is assumed
// to happen when no scheduled date is given.
const DefaultMaxOverdueDays = 14

// OffsetTable is the read side of a probability table keyed by day offset
// from the due date. Missing offsets report 0.
type OffsetTable interface {
	Spontaneous(offset int) float64
	Survival(offset int) float64
}

// Individual is one still-pregnant person in the population.
type Individual struct {
	Label                 string    `json:"label,omitempty"`
	DueDate               time.Time `json:"due_date"`
	ScheduledDate         time.Time `json:"scheduled_date"`
	ScheduledDateProvided bool      `json:"scheduled_date_provided"`
}

// NewIndividual builds a record. A nil scheduled date defaults to
// due + maxOverdueDays.
func NewIndividual(label string, due time.Time, scheduled *time.Time, maxOverdueDays int) Individual {
	ind := Individual{
		Label:   label,
		DueDate: calendar.Normalize(due),
	}
	if scheduled != nil {
		ind.ScheduledDate = calendar.Normalize(*scheduled)
		ind.ScheduledDateProvided = true
	} else {
		ind.ScheduledDate = calendar.AddDays(ind.DueDate, maxOverdueDays)
	}
	return ind
}

// Offset is the signed number of days from the due date to date.
func (i Individual) Offset(date time.Time) int {
	return calendar.DaysBetween(i.DueDate, date)
}

// ScheduledOrDue returns the explicit scheduled date, or the due date when
// the scheduled date was only defaulted.
func (i Individual) ScheduledOrDue() time.Time {
	if i.ScheduledDateProvided {
		return i.ScheduledDate
	}
	return i.DueDate
}

// ProbabilityOfLabor returns the probability this individual goes into labor
// (or is delivered) on date.
//
// On the scheduled date all remaining mass collapses onto that day, so the
// survival probability is used instead of the spontaneous one. After the
// scheduled date delivery is assumed to have happened and the result is 0.
func (i Individual) ProbabilityOfLabor(date time.Time, table OffsetTable) float64 {
	date = calendar.Normalize(date)
	offset := i.Offset(date)

	switch {
	case date.Equal(i.ScheduledDate):
		return table.Survival(offset)
	case date.After(i.ScheduledDate):
		return 0
	default:
		return table.Spontaneous(offset)
	}
}
