package cli

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labor-odds/internal/errors"
	"labor-odds/internal/model"
)

const probabilitiesCSV = `Date,Days,Chance of labor,Still pregnant
May 31,-1 days,3%,56%
Jun 1,0 days,5%,52%
Jun 2,1 days,4%,47%
`

const populationCSV = `Name,Due date,Scheduled,Born
Ana,06/01,,FALSE
Bea,06/01,06/02,
Cat,05/20,,TRUE
`

var envKeys = []string{
	"PROBABILITIES_SOURCE", "POPULATION_SOURCE", "OUTPUT_FILE", "OUTPUT_FORMAT",
	"WINDOW_START", "WINDOW_END", "SEASON_START_YEAR", "MAX_OVERDUE_DAYS",
	"LOG_LEVEL", "ENVIRONMENT", "SINK_DSN",
}

func setup(t *testing.T) (dir string, base []string) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	t.Setenv("LOG_LEVEL", "error")

	dir = t.TempDir()
	prob := filepath.Join(dir, "probabilities.csv")
	pop := filepath.Join(dir, "due_dates.csv")
	require.NoError(t, os.WriteFile(prob, []byte(probabilitiesCSV), 0o644))
	require.NoError(t, os.WriteFile(pop, []byte(populationCSV), 0o644))

	return dir, []string{"--probabilities", prob, "--population", pop, "--season-year", "2023"}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestForecastCSVToStdout(t *testing.T) {
	_, base := setup(t)

	out, err := run(t, append([]string{"forecast", "--start", "2023-05-31", "--end", "2023-06-03", "--output", "-"}, base...)...)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Date", "Net Probability"}, rows[0])

	want := map[string]float64{
		"2023-05-31": 1 - 0.97*0.97,
		"2023-06-01": 1 - 0.95*0.95,
		"2023-06-02": 1 - 0.96*0.53, // Bea is on her scheduled date
		"2023-06-03": 0,
	}
	for _, row := range rows[1:] {
		p, err := strconv.ParseFloat(row[1], 64)
		require.NoError(t, err)
		assert.InDelta(t, want[row[0]], p, 1e-9, row[0])
	}
}

func TestForecastJSONFile(t *testing.T) {
	dir, base := setup(t)
	path := filepath.Join(dir, "out.json")

	_, err := run(t, append([]string{"forecast", "--start", "2023-06-01", "--end", "2023-06-02", "--format", "json", "-o", path}, base...)...)
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var resp model.ForecastResponse
	require.NoError(t, json.Unmarshal(b, &resp))
	assert.Equal(t, 2, resp.ForecastMetadata.PopulationSize)
	require.Len(t, resp.ForecastResult.Series, 2)
	assert.Equal(t, "2023-06-02", resp.ForecastResult.Peak.Date)
}

func TestForecastSQLiteSink(t *testing.T) {
	dir, base := setup(t)
	dsn := "sqlite://" + filepath.Join(dir, "odds.db")

	_, err := run(t, append([]string{"forecast", "--start", "2023-06-01", "--end", "2023-06-02", "-o", "-", "--sink-dsn", dsn}, base...)...)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "odds.db"))
	assert.NoError(t, err)
}

func TestForecastUnknownFormat(t *testing.T) {
	dir, base := setup(t)
	path := filepath.Join(dir, "out.xlsx")

	_, err := run(t, append([]string{"forecast", "--format", "xlsx", "-o", path}, base...)...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownFormat))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestForecastMalformedTable(t *testing.T) {
	dir, base := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "probabilities.csv"), []byte("h\nx,soon,1%,2%\n"), 0o644))

	_, err := run(t, append([]string{"forecast", "-o", "-"}, base...)...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedRecord))
}

func TestInvalidFlags(t *testing.T) {
	_, base := setup(t)

	_, err := run(t, append([]string{"forecast", "--start", "June 1"}, base...)...)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	_, err = run(t, append([]string{"forecast", "--max-overdue", "-2"}, base...)...)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestDay(t *testing.T) {
	_, base := setup(t)

	out, err := run(t, append([]string{"day", "--date", "2023-06-02"}, base...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "Bea")
	assert.Contains(t, out, "2023-06-02: net probability 49.12%, expected deliveries 0.510")
}

func TestHistogram(t *testing.T) {
	dir, base := setup(t)
	path := filepath.Join(dir, "bins.csv")

	out, err := run(t, append([]string{"histogram", "--scheduled", "--csv", path}, base...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Scheduled or due dates")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date,Count\n"+
		"2023-05-30,0\n2023-05-31,0\n2023-06-01,1\n2023-06-02,1\n2023-06-03,0\n2023-06-04,0\n", string(b))
}
