package aggregate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/domain"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

func str(v string) table.Value { return table.StringValue(v) }
func num(v int) table.Value    { return table.IntValue(v) }

// countryCounts builds US:50, IN:30, GB:5, FR:5 and 20 singletons.
func countryCounts() *Counts {
	c := &Counts{Keys: []string{"country"}}
	add := func(name string, n int) {
		c.Rows = append(c.Rows, CountRow{Key: []table.Value{str(name)}, Count: n})
	}
	add("US", 50)
	add("IN", 30)
	add("GB", 5)
	add("FR", 5)
	for k := range 20 {
		add(fmt.Sprintf("C%02d", k), 1)
	}
	return c
}

func TestCount(t *testing.T) {
	tbl := table.MustNew([]string{"type", "rating"}, [][]table.Value{
		{str("Movie"), str("PG")},
		{str("Movie"), str("R")},
		{str("TV Show"), str("PG")},
		{str("Movie"), table.Null()},
		{table.Null(), str("PG")},
	})

	c, err := Count(tbl, "type")
	require.NoError(t, err)
	require.Len(t, c.Rows, 2)
	assert.Equal(t, str("Movie"), c.Rows[0].Key[0])
	assert.Equal(t, 3, c.Rows[0].Count)
	assert.Equal(t, 1, c.Rows[1].Count)
	assert.Equal(t, 4, c.Total(), "null keys are skipped")

	pair, err := Count(tbl, "type", "rating")
	require.NoError(t, err)
	assert.Equal(t, 3, pair.Total())
	assert.Equal(t, 1, pair.Lookup(str("Movie"), str("PG")))
}

func TestCount_OrdersByCountThenKey(t *testing.T) {
	tbl := table.MustNew([]string{"g"}, [][]table.Value{
		{str("b")}, {str("a")}, {str("c")}, {str("c")},
	})
	c, err := Count(tbl, "g")
	require.NoError(t, err)
	var got []string
	for _, r := range c.Rows {
		got = append(got, r.Key[0].String())
	}
	assert.Equal(t, []string{"c", "a", "b"}, got)
}

func TestCount_MissingColumn(t *testing.T) {
	tbl := table.Empty([]string{"type"})
	_, err := Count(tbl, "country")
	require.Error(t, err)

	var mc *domain.MissingColumnError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, "country", mc.Column)
}

func TestTopN_Scenario(t *testing.T) {
	c := countryCounts()
	top, err := TopN(c, 10)
	require.NoError(t, err)

	require.Len(t, top.Rows, 11)
	last := top.Rows[10]
	assert.Equal(t, constants.OthersLabel, last.Key[0].String())
	// US, IN, GB, FR and six singletons are named; 14 singletons fold
	assert.Equal(t, 14, last.Count)
	assert.Equal(t, c.Total(), top.Total())
	assert.Equal(t, "US", top.Rows[0].Key[0].String())
	assert.Equal(t, "FR", top.Rows[2].Key[0].String(), "tie at 5 resolves alphabetically")
}

func TestTopN_PreservesTotalForAnyN(t *testing.T) {
	c := countryCounts()
	for n := 0; n <= len(c.Rows)+2; n++ {
		top, err := TopN(c, n)
		require.NoError(t, err)
		assert.Equal(t, c.Total(), top.Total(), "n=%d", n)
	}
}

func TestTopN_NoOthersWhenTailEmpty(t *testing.T) {
	c := countryCounts()
	top, err := TopN(c, len(c.Rows))
	require.NoError(t, err)
	for _, r := range top.Rows {
		assert.NotEqual(t, constants.OthersLabel, r.Key[0].String())
	}

	zero, err := TopN(c, 0)
	require.NoError(t, err)
	require.Len(t, zero.Rows, 1)
	assert.Equal(t, c.Total(), zero.Rows[0].Count)

	_, err = TopN(c, -1)
	assert.Error(t, err)
}

func TestTopN_MultiKeyOthers(t *testing.T) {
	c := &Counts{Keys: []string{"country", "type"}, Rows: []CountRow{
		{Key: []table.Value{str("US"), str("Movie")}, Count: 3},
		{Key: []table.Value{str("IN"), str("Movie")}, Count: 2},
		{Key: []table.Value{str("GB"), str("Movie")}, Count: 1},
	}}
	top, err := TopN(c, 1)
	require.NoError(t, err)
	require.Len(t, top.Rows, 2)
	assert.Equal(t, constants.OthersLabel, top.Rows[1].Key[0].String())
	assert.True(t, top.Rows[1].Key[1].IsNull())
}

func TestTopPerGroup_TieBreaksAlphabetically(t *testing.T) {
	c := &Counts{Keys: []string{"country", "genre"}, Rows: []CountRow{
		{Key: []table.Value{str("India"), str("Dramas")}, Count: 4},
		{Key: []table.Value{str("India"), str("Comedies")}, Count: 4},
		{Key: []table.Value{str("Spain"), str("Thrillers")}, Count: 2},
		{Key: []table.Value{str("Spain"), str("Dramas")}, Count: 1},
	}}
	top, err := TopPerGroup(c, "genre", "country")
	require.NoError(t, err)

	require.Len(t, top.Rows, 2)
	assert.Equal(t, []table.Value{str("India"), str("Comedies")}, top.Rows[0].Key)
	assert.Equal(t, []table.Value{str("Spain"), str("Thrillers")}, top.Rows[1].Key)
	require.Len(t, top.Tied, 1)
	assert.Equal(t, str("India"), top.Tied[0][0])
	assert.ErrorIs(t, top.Ambiguous(), domain.ErrAmbiguousTie)

	// order of input rows does not change the pick
	c.Rows[0], c.Rows[1] = c.Rows[1], c.Rows[0]
	again, err := TopPerGroup(c, "genre", "country")
	require.NoError(t, err)
	assert.Equal(t, top.Rows, again.Rows)
}

func TestTopPerGroup_MissingKey(t *testing.T) {
	_, err := TopPerGroup(countryCounts(), "genre", "country")
	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}

func TestMode(t *testing.T) {
	tbl := table.MustNew([]string{"country", "rating"}, [][]table.Value{
		{str("US"), str("TV-MA")},
		{str("US"), str("TV-MA")},
		{str("US"), str("PG")},
		{str("IN"), str("TV-14")},
		{str("IN"), str("TV-MA")},
	})
	m, err := Mode(tbl, "rating", "country")
	require.NoError(t, err)

	got := map[string]string{}
	for _, r := range m.Rows {
		got[r.Key[0].String()] = r.Key[1].String()
	}
	assert.Equal(t, map[string]string{"US": "TV-MA", "IN": "TV-14"}, got)
	assert.NoError(t, (&Counts{}).Ambiguous())
}

func TestNUnique(t *testing.T) {
	tbl := table.MustNew([]string{"year", "country"}, [][]table.Value{
		{num(2020), str("US")},
		{num(2020), str("US")},
		{num(2020), str("IN")},
		{num(2021), str("US")},
		{num(2021), table.Null()},
	})
	c, err := NUnique(tbl, "country", "year")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Lookup(num(2020)))
	assert.Equal(t, 1, c.Lookup(num(2021)))

	_, err = NUnique(tbl, "genre", "year")
	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}

func TestPivot(t *testing.T) {
	c := &Counts{Keys: []string{"year", "type"}, Rows: []CountRow{
		{Key: []table.Value{num(2020), str("Movie")}, Count: 3},
		{Key: []table.Value{num(2019), str("TV Show")}, Count: 2},
		{Key: []table.Value{num(2020), str("TV Show")}, Count: 1},
	}}
	p, err := Pivot(c, "year", "type")
	require.NoError(t, err)

	assert.Equal(t, []string{"year", "Movie", "TV Show"}, p.Columns())
	require.Equal(t, 2, p.Len())
	assert.Equal(t, num(2019), p.Value(0, "year"))
	assert.Equal(t, num(0), p.Value(0, "Movie"), "missing cells are zero")
	assert.Equal(t, num(2), p.Value(0, "TV Show"))
	assert.Equal(t, num(3), p.Value(1, "Movie"))

	_, err = Pivot(c, "year", "genre")
	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}

func TestPercent_SumsTo100PerGroup(t *testing.T) {
	c := &Counts{Keys: []string{"type", "country"}, Rows: []CountRow{
		{Key: []table.Value{str("Movie"), str("US")}, Count: 3},
		{Key: []table.Value{str("Movie"), str("IN")}, Count: 1},
		{Key: []table.Value{str("Movie"), str("GB")}, Count: 2},
		{Key: []table.Value{str("TV Show"), str("US")}, Count: 7},
	}}
	shares, err := Percent(c, "type")
	require.NoError(t, err)

	sums := map[string]float64{}
	for _, r := range shares.Rows {
		require.NotNil(t, r.Percent)
		sums[r.Key[0].String()] += *r.Percent
	}
	assert.InDelta(t, 100, sums["Movie"], 1e-9)
	assert.InDelta(t, 100, sums["TV Show"], 1e-9)
	assert.InDelta(t, 50, *shares.Rows[0].Percent, 1e-9)

	whole, err := Percent(c)
	require.NoError(t, err)
	total := 0.0
	for _, r := range whole.Rows {
		total += *r.Percent
	}
	assert.InDelta(t, 100, total, 1e-9)
}

func TestPercent_ZeroTotalIsNull(t *testing.T) {
	c := &Counts{Keys: []string{"type"}, Rows: []CountRow{
		{Key: []table.Value{str("Movie")}, Count: 0},
	}}
	shares, err := Percent(c)
	require.NoError(t, err)
	assert.Nil(t, shares.Rows[0].Percent)
	assert.True(t, shares.Table().Value(0, PercentColumn).IsNull())
}

func TestCountsTable(t *testing.T) {
	tbl := countryCounts().Table()
	assert.Equal(t, []string{"country", CountColumn}, tbl.Columns())
	assert.Equal(t, 24, tbl.Len())
}
