package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"labor-odds/internal/calendar"
	"labor-odds/internal/model"
)

// Params bounds one forecast run.
type Params struct {
	Start time.Time
	End   time.Time
}

// NetProbability is the probability that at least one individual delivers on
// date: 1 - Π(1 - p_i).
//
// Individuals are treated as independent. That does not hold for correlated
// cases such as multiples sharing one pregnancy, which are counted as separate
// individuals if listed separately.
func NetProbability(table model.OffsetTable, individuals []model.Individual, date time.Time) float64 {
	none := 1.0
	for _, ind := range individuals {
		none *= 1 - ind.ProbabilityOfLabor(date, table)
	}
	return 1 - none
}

// Breakdown reports every individual's contribution to date alongside the
// net probability and the expected number of deliveries.
func Breakdown(table model.OffsetTable, individuals []model.Individual, date time.Time) model.DayBreakdown {
	date = calendar.Normalize(date)

	out := model.DayBreakdown{
		Date:        calendar.Format(date),
		Individuals: make([]model.IndividualProbability, 0, len(individuals)),
	}

	none := 1.0
	for _, ind := range individuals {
		p := ind.ProbabilityOfLabor(date, table)
		none *= 1 - p
		out.ExpectedDeliveries += p
		out.Individuals = append(out.Individuals, model.IndividualProbability{
			Label:       ind.Label,
			DueDate:     calendar.Format(ind.DueDate),
			Offset:      ind.Offset(date),
			Scheduled:   date.Equal(ind.ScheduledDate),
			Probability: p,
		})
	}
	out.NetProbability = 1 - none

	return out
}

// Forecast evaluates the net probability for every date in the window.
func Forecast(params Params, table model.OffsetTable, individuals []model.Individual) *model.ForecastResponse {
	start := time.Now()

	var allMessages []model.ForecastMessage
	warn := func(code, msg string) {
		allMessages = append(allMessages, model.ForecastMessage{
			ID:      len(allMessages),
			Level:   model.LevelWarning,
			Code:    code,
			Message: msg,
		})
	}

	if len(individuals) == 0 {
		warn(model.CodeEmptyPopulation, "Population is empty; every date has net probability 0")
	}
	for _, ind := range individuals {
		if ind.ScheduledDate.Before(ind.DueDate) {
			warn(model.CodeScheduledBeforeDue, fmt.Sprintf("Scheduled date %s precedes due date %s for %q",
				calendar.Format(ind.ScheduledDate), calendar.Format(ind.DueDate), ind.Label))
		}
	}

	dates := calendar.GenerateDates(params.Start, params.End)
	if len(dates) == 0 {
		warn(model.CodeEmptyRange, fmt.Sprintf("Window start %s is after end %s",
			calendar.Format(params.Start), calendar.Format(params.End)))
	}

	series := make([]model.SeriesPoint, 0, len(dates))
	var peak *model.SeriesPoint
	for _, d := range dates {
		series = append(series, model.SeriesPoint{
			Date:           calendar.Format(d),
			NetProbability: NetProbability(table, individuals, d),
		})
		// first date wins on ties
		if last := &series[len(series)-1]; peak == nil || last.NetProbability > peak.NetProbability {
			p := *last
			peak = &p
		}
	}

	elapsed := time.Since(start)
	now := time.Now().UTC()

	if allMessages == nil {
		allMessages = []model.ForecastMessage{}
	}

	return &model.ForecastResponse{
		ForecastMetadata: model.ForecastMetadata{
			ForecastID:          uuid.New().String(),
			WindowStart:         calendar.Format(calendar.Normalize(params.Start)),
			WindowEnd:           calendar.Format(calendar.Normalize(params.End)),
			PopulationSize:      len(individuals),
			ForecastStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
			ForecastCompletedAt: now.Format(time.RFC3339),
			ForecastDurationMs:  elapsed.Milliseconds(),
		},
		ForecastResult: model.ForecastResult{
			Messages: allMessages,
			Series:   series,
			Peak:     peak,
		},
	}
}
