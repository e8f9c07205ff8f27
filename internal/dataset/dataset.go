package dataset

import (
	"context"
	"time"

	"labor-odds/internal/errors"
	"labor-odds/internal/model"
	"labor-odds/internal/population"
	"labor-odds/internal/probtable"
	"labor-odds/internal/source"
)

type Options struct {
	ProbabilitiesSource string
	PopulationSource    string
	Population          population.Options
}

// Dataset is everything one forecast run reads. It is replaced wholesale on
// reload, never modified in place.
type Dataset struct {
	Table       *probtable.Table
	Individuals []model.Individual
	Delivered   int
	LoadedAt    time.Time
}

// Load reads the probability table and the population. Either failing
// aborts the load.
func Load(ctx context.Context, opts Options) (*Dataset, error) {
	table, err := loadTable(ctx, opts.ProbabilitiesSource)
	if err != nil {
		return nil, err
	}

	rc, err := source.Open(ctx, opts.PopulationSource)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	pop, err := population.Load(rc, opts.Population)
	if err != nil {
		return nil, errors.Wrapf(err, "population %s", opts.PopulationSource)
	}

	return &Dataset{
		Table:       table,
		Individuals: pop.Individuals,
		Delivered:   pop.Delivered,
		LoadedAt:    time.Now().UTC(),
	}, nil
}

func loadTable(ctx context.Context, location string) (*probtable.Table, error) {
	rc, err := source.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	table, err := probtable.Load(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "probability table %s", location)
	}
	return table, nil
}
