package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"labor-odds/internal/calendar"
	"labor-odds/internal/probtable"
)

func day(m time.Month, d int) time.Time {
	return calendar.Date(2023, m, d)
}

func TestDefaultScheduledDate(t *testing.T) {
	ind := NewIndividual("a", day(time.June, 1), nil, DefaultMaxOverdueDays)

	assert.False(t, ind.ScheduledDateProvided)
	assert.Equal(t, day(time.June, 15), ind.ScheduledDate)
	assert.Equal(t, day(time.June, 1), ind.ScheduledOrDue())
}

func TestExplicitScheduledDate(t *testing.T) {
	sched := day(time.June, 5)
	ind := NewIndividual("a", day(time.June, 1), &sched, DefaultMaxOverdueDays)

	assert.True(t, ind.ScheduledDateProvided)
	assert.Equal(t, sched, ind.ScheduledDate)
	assert.Equal(t, sched, ind.ScheduledOrDue())
}

func TestProbabilityOfLaborScenario(t *testing.T) {
	table := probtable.New(map[int]probtable.Entry{0: {Spontaneous: 0.05, Survival: 1.0}})
	ind := NewIndividual("", day(time.June, 1), nil, DefaultMaxOverdueDays)

	assert.InDelta(t, 0.05, ind.ProbabilityOfLabor(day(time.June, 1), table), 1e-12)
	// offset 14 is absent, so the scheduled-date survival lookup is 0
	assert.Zero(t, ind.ProbabilityOfLabor(day(time.June, 15), table))
	assert.Zero(t, ind.ProbabilityOfLabor(day(time.June, 16), table))
}

func TestProbabilityOnScheduledDateIsSurvival(t *testing.T) {
	table := probtable.New(map[int]probtable.Entry{
		-2: {Spontaneous: 0.03, Survival: 0.58},
		0:  {Spontaneous: 0.04, Survival: 0.52},
		14: {Spontaneous: 0.01, Survival: 0.02},
	})
	sched := day(time.May, 30)
	explicit := NewIndividual("explicit", day(time.June, 1), &sched, DefaultMaxOverdueDays)
	defaulted := NewIndividual("defaulted", day(time.June, 1), nil, DefaultMaxOverdueDays)

	assert.InDelta(t, 0.58, explicit.ProbabilityOfLabor(sched, table), 1e-12)
	assert.InDelta(t, 0.02, defaulted.ProbabilityOfLabor(defaulted.ScheduledDate, table), 1e-12)
}

func TestProbabilityAfterScheduledDateIsZero(t *testing.T) {
	table := probtable.New(map[int]probtable.Entry{
		0: {Spontaneous: 0.04, Survival: 0.52},
		1: {Spontaneous: 0.04, Survival: 0.48},
		2: {Spontaneous: 0.04, Survival: 0.44},
	})
	sched := day(time.May, 31)
	ind := NewIndividual("", day(time.June, 1), &sched, DefaultMaxOverdueDays)

	for _, d := range calendar.GenerateDates(day(time.June, 1), day(time.June, 10)) {
		assert.Zero(t, ind.ProbabilityOfLabor(d, table), calendar.Format(d))
	}
}

func TestScheduledOnDueDateReplacesOffsetZero(t *testing.T) {
	table := probtable.New(map[int]probtable.Entry{0: {Spontaneous: 0.04, Survival: 0.52}})
	due := day(time.June, 1)
	ind := NewIndividual("", due, &due, DefaultMaxOverdueDays)

	assert.InDelta(t, 0.52, ind.ProbabilityOfLabor(due, table), 1e-12)
}

func TestMissingOffsetBeforeScheduledIsZero(t *testing.T) {
	table := probtable.New(map[int]probtable.Entry{0: {Spontaneous: 0.04, Survival: 0.52}})
	ind := NewIndividual("", day(time.June, 1), nil, DefaultMaxOverdueDays)

	assert.Zero(t, ind.ProbabilityOfLabor(day(time.May, 1), table))
	assert.Zero(t, ind.ProbabilityOfLabor(day(time.June, 3), table))
}

func TestProbabilityIgnoresTimeOfDay(t *testing.T) {
	table := probtable.New(map[int]probtable.Entry{0: {Spontaneous: 0.04, Survival: 0.52}})
	ind := NewIndividual("", day(time.June, 1), nil, DefaultMaxOverdueDays)

	noon := time.Date(2023, time.June, 1, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, 0.04, ind.ProbabilityOfLabor(noon, table), 1e-12)
}
