package probtable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labor-odds/internal/errors"
)

const sample = `Date,Days,Chance of labor,Still pregnant
"May 29",-3 days,2.7%,61.4%
"May 30",-2 days,2.9%,58.7%
"Jun 1",0 days,4.0%,52.2%
"Jun 2",1 day,3.5%,48.2%
`

func TestLoadParsesOffsetsAndPercentages(t *testing.T) {
	table, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, 4, table.Len())
	assert.Equal(t, []int{-3, -2, 0, 1}, table.Offsets())
	assert.InDelta(t, 0.027, table.Spontaneous(-3), 1e-12)
	assert.InDelta(t, 0.614, table.Survival(-3), 1e-12)
	assert.InDelta(t, 0.04, table.Spontaneous(0), 1e-12)
	assert.InDelta(t, 0.482, table.Survival(1), 1e-12)
}

func TestMissingOffsetIsZero(t *testing.T) {
	table, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	_, ok := table.Lookup(14)
	assert.False(t, ok)
	assert.Zero(t, table.Spontaneous(14))
	assert.Zero(t, table.Survival(14))
}

func TestDuplicateOffsetLastWins(t *testing.T) {
	src := "h,d,p,s\na,0 days,1%,90%\nb,0 days,5%,100%\n"

	table, err := Load(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, 1, table.Len())
	assert.InDelta(t, 0.05, table.Spontaneous(0), 1e-12)
	assert.InDelta(t, 1.0, table.Survival(0), 1e-12)
}

func TestHeaderOnlyIsEmptyTable(t *testing.T) {
	table, err := Load(strings.NewReader("Date,Days,Chance,Still\n"))
	require.NoError(t, err)
	assert.Zero(t, table.Len())

	table, err = Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, table.Len())
}

func TestLoadMalformedRecord(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad offset", "h\na,three days,1%,90%\n"},
		{"bad spontaneous", "h\na,0 days,x%,90%\n"},
		{"bad survival", "h\na,0 days,1%,ninety\n"},
		{"short row", "h\na,0 days,1%\n"},
		{"bad quoting", "h\na,\"0 days,1%,90%\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Load(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Nil(t, table)
			assert.True(t, errors.Is(err, errors.ErrMalformedRecord))
		})
	}
}

func TestMalformedRecordNamesLine(t *testing.T) {
	_, err := Load(strings.NewReader("h\na,0 days,1%,90%\nb,1 days,2%,oops\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "survival percentage")
}

func TestNewCopiesEntries(t *testing.T) {
	src := map[int]Entry{0: {Spontaneous: 0.05, Survival: 1}}
	table := New(src)
	src[0] = Entry{}

	assert.InDelta(t, 0.05, table.Spontaneous(0), 1e-12)
}
