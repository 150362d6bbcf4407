package indicator

import (
	"math/rand"
	"testing"

	"github.com/carlhiggs/global-scorecards/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawColumns() []string {
	cols := []string{"City population"}
	for _, f := range domain.IndicatorFields {
		cols = append(cols, f.Field)
	}
	return cols
}

func rawTable(cities []string) domain.Table {
	tbl := domain.NewTable(rawColumns()...)
	for i, city := range cities {
		row := map[string]float64{"City population": 1e6}
		for j, f := range domain.IndicatorFields {
			row[f.Field] = float64(10*(i+1) + j)
		}
		tbl.AddRow(city, row)
	}
	return tbl
}

func TestNewStore_RenamesIndicators(t *testing.T) {
	s, err := NewStore(rawTable([]string{"Graz", "Ghent"}))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Food market",
		"Convenience",
		"Any public open space",
		"Large public open space",
		"Public transport stop",
		"Public transport with regular service",
	}, s.Names())

	values, err := s.ForCity("Ghent")
	require.NoError(t, err)
	assert.InDelta(t, 20.0, values["Food market"], 1e-9)
	assert.InDelta(t, 25.0, values["Public transport with regular service"], 1e-9)
}

func TestNewStore_MissingColumnIsFatal(t *testing.T) {
	tbl := domain.NewTable("City population", domain.IndicatorFields[0].Field)
	_, err := NewStore(tbl)
	require.ErrorIs(t, err, domain.ErrMissingColumn)
	assert.Contains(t, err.Error(), domain.IndicatorFields[1].Field)
}

func TestForCity_Unknown(t *testing.T) {
	s, err := NewStore(rawTable([]string{"Graz"}))
	require.NoError(t, err)

	_, err = s.ForCity("Unknown City")
	require.ErrorIs(t, err, domain.ErrCityNotFound)
}

func TestComparisons(t *testing.T) {
	s, err := NewStore(rawTable([]string{"a", "b", "c", "d"}))
	require.NoError(t, err)

	c := s.Comparisons()
	// Food market values: 10, 20, 30, 40.
	assert.InDelta(t, 17.5, c.P25["Food market"], 1e-9)
	assert.InDelta(t, 25.0, c.P50["Food market"], 1e-9)
	assert.InDelta(t, 32.5, c.P75["Food market"], 1e-9)
}

func TestComparisons_InvariantToCityOrder(t *testing.T) {
	cities := []string{"a", "b", "c", "d", "e", "f", "g"}
	base, err := NewStore(rawTable(cities))
	require.NoError(t, err)
	want := base.Comparisons()

	shuffled := append([]string(nil), cities...)
	rand.New(rand.NewSource(7)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	// Rebuild with rows in shuffled order but identical values per city.
	tbl := domain.NewTable(rawColumns()...)
	orig := rawTable(cities)
	for _, city := range shuffled {
		row, err := orig.Row(city)
		require.NoError(t, err)
		tbl.AddRow(city, row)
	}
	s, err := NewStore(tbl)
	require.NoError(t, err)

	if diff := cmp.Diff(want, s.Comparisons()); diff != "" {
		t.Fatalf("comparisons changed with order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, base.Comparisons()); diff != "" {
		t.Fatalf("comparisons changed on rerun (-want +got):\n%s", diff)
	}
}
