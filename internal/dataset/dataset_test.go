package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labor-odds/internal/errors"
	"labor-odds/internal/population"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		ProbabilitiesSource: writeFile(t, dir, "probabilities.csv", "Date,Days,P,S\nJun 1,0 days,4%,52%\n"),
		PopulationSource:    writeFile(t, dir, "due_dates.csv", "Name,Due,Sched,Born\nAna,06/01,,\nBea,06/03,,TRUE\n"),
		Population:          population.Options{SeasonStartYear: 2023, MaxOverdueDays: 14},
	}

	ds, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 1, ds.Table.Len())
	assert.Len(t, ds.Individuals, 1)
	assert.Equal(t, 1, ds.Delivered)
	assert.False(t, ds.LoadedAt.IsZero())
}

func TestLoadFailsOnMalformedTable(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		ProbabilitiesSource: writeFile(t, dir, "probabilities.csv", "h\nJun 1,zero,4%,52%\n"),
		PopulationSource:    writeFile(t, dir, "due_dates.csv", "h\nAna,06/01,,\n"),
		Population:          population.Options{SeasonStartYear: 2023, MaxOverdueDays: 14},
	}

	ds, err := Load(context.Background(), opts)
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.True(t, errors.Is(err, errors.ErrMalformedRecord))
}

func TestLoadFailsOnMissingPopulation(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		ProbabilitiesSource: writeFile(t, dir, "probabilities.csv", "h\nJun 1,0 days,4%,52%\n"),
		PopulationSource:    filepath.Join(dir, "missing.csv"),
	}

	_, err := Load(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSourceUnavailable))
}
