package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/domain"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

func yearlyCounts() *Counts {
	return &Counts{Keys: []string{"year", "type"}, Rows: []CountRow{
		{Key: []table.Value{num(2018), str("Movie")}, Count: 4},
		{Key: []table.Value{num(2019), str("Movie")}, Count: 7},
		{Key: []table.Value{num(2020), str("Movie")}, Count: 5},
		{Key: []table.Value{num(2019), str("TV Show")}, Count: 2},
		{Key: []table.Value{num(2020), str("TV Show")}, Count: 6},
	}}
}

func floats(vals []*float64) []any {
	out := make([]any, len(vals))
	for k, v := range vals {
		if v == nil {
			out[k] = nil
			continue
		}
		out[k] = *v
	}
	return out
}

func TestSeriesOf(t *testing.T) {
	series, err := SeriesOf(yearlyCounts(), "year", "type")
	require.NoError(t, err)

	assert.Equal(t, []int{2018, 2019, 2020}, series.Index)
	movies, ok := series.Line("Movie")
	require.True(t, ok)
	assert.Equal(t, []any{4.0, 7.0, 5.0}, floats(movies))
	shows, _ := series.Line("TV Show")
	assert.Equal(t, []any{0.0, 2.0, 6.0}, floats(shows), "absent cells are zero")

	_, err = SeriesOf(yearlyCounts(), "year", "genre")
	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}

func TestYoYDelta_KeysAndDifferences(t *testing.T) {
	series, err := SeriesOf(yearlyCounts(), "year", "type")
	require.NoError(t, err)
	delta := YoYDelta(series)

	assert.Equal(t, series.Index, delta.Index)
	require.Len(t, delta.Lines, len(series.Lines))
	for k, line := range delta.Lines {
		assert.Equal(t, series.Lines[k].Name, line.Name)
		require.Len(t, line.Values, len(series.Index))
		for y := 1; y < len(series.Index); y++ {
			want := *series.Lines[k].Values[y] - *series.Lines[k].Values[y-1]
			assert.Equal(t, want, *line.Values[y])
		}
		assert.Equal(t, 0.0, *line.Values[0], "leading year")
	}
}

func TestPctChange(t *testing.T) {
	series, err := SeriesOf(yearlyCounts(), "year", "type")
	require.NoError(t, err)
	growth := PctChange(series)

	movies, _ := growth.Line("Movie")
	assert.Nil(t, movies[0])
	assert.InDelta(t, 75.0, *movies[1], 1e-9)
	assert.InDelta(t, -100.0*2/7, *movies[2], 1e-9)

	shows, _ := growth.Line("TV Show")
	assert.Nil(t, shows[1], "previous value of zero")
	assert.InDelta(t, 200.0, *shows[2], 1e-9)
}

func TestRollingMean(t *testing.T) {
	base := &Series{Index: []int{1, 2, 3, 4, 5}, Lines: []Line{
		{Name: "x", Values: ptrs([]float64{1, 2, 3, 4, 5})},
	}}

	odd, err := RollingMean(base, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{1.5, 2.0, 3.0, 4.0, 4.5}, floats(odd.Lines[0].Values))

	even, err := RollingMean(base, 2)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 1.5, 2.5, 3.5, 4.5}, floats(even.Lines[0].Values))

	one, err := RollingMean(base, 1)
	require.NoError(t, err)
	assert.Equal(t, floats(base.Lines[0].Values), floats(one.Lines[0].Values))

	_, err = RollingMean(base, 0)
	assert.Error(t, err)
}

func TestRollingMean_SkipsUndefined(t *testing.T) {
	base := &Series{Index: []int{1, 2, 3}, Lines: []Line{
		{Name: "x", Values: []*float64{ptr(2), nil, ptr(4)}},
	}}
	out, err := RollingMean(base, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{2.0, 3.0, 4.0}, floats(out.Lines[0].Values))
}

func TestFillYears(t *testing.T) {
	base := &Series{Index: []int{2018, 2021}, Lines: []Line{
		{Name: "x", Values: ptrs([]float64{3, 5})},
	}}
	out := FillYears(base, 2017, 2020)
	assert.Equal(t, []int{2017, 2018, 2019, 2020}, out.Index)
	assert.Equal(t, []any{0.0, 3.0, 0.0, 0.0}, floats(out.Lines[0].Values))
}

func TestSince(t *testing.T) {
	series, err := SeriesOf(yearlyCounts(), "year", "type")
	require.NoError(t, err)
	recent := series.Since(2019)
	assert.Equal(t, []int{2019, 2020}, recent.Index)
	movies, _ := recent.Line("Movie")
	assert.Equal(t, []any{7.0, 5.0}, floats(movies))
}

func TestMinMaxNormalize(t *testing.T) {
	out := MinMaxNormalize([]float64{10, 20, 30})
	assert.InDelta(t, 0, out[0], 1e-6)
	assert.InDelta(t, 0.5, out[1], 1e-6)
	assert.Less(t, out[2], 1.0)

	flat := MinMaxNormalize([]float64{4, 4})
	assert.Equal(t, []float64{0, 0}, flat)
	assert.Nil(t, MinMaxNormalize(nil))
}

func TestMean(t *testing.T) {
	tbl := table.MustNew([]string{"year", "type", "lag"}, [][]table.Value{
		{num(2020), str("Movie"), num(100)},
		{num(2020), str("Movie"), num(300)},
		{num(2020), str("TV Show"), table.Null()},
		{num(2021), str("Movie"), num(50)},
	})
	m, err := Mean(tbl, "lag", "year", "type")
	require.NoError(t, err)

	require.Len(t, m.Rows, 2, "groups without values are omitted")
	assert.Equal(t, 200.0, m.Rows[0].Value)
	assert.Equal(t, 2, m.Rows[0].N)
	assert.Equal(t, num(2021), m.Rows[1].Key[0])

	top := m.SortByValue()
	assert.Equal(t, 50.0, top.Rows[1].Value)

	_, err = Mean(tbl, "score", "year")
	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}

func TestTables_CategoryNamedLikeFixedColumn(t *testing.T) {
	c := &Counts{Keys: []string{"year", "type"}, Rows: []CountRow{
		{Key: []table.Value{num(2019), str("year")}, Count: 3},
		{Key: []table.Value{num(2020), str("Movie")}, Count: 1},
	}}
	series, err := SeriesOf(c, "year", "type")
	require.NoError(t, err)

	var tbl *table.Table
	require.NotPanics(t, func() { tbl = YoYDelta(series).Table() })
	assert.Equal(t, []string{"year", "year_2", "Movie"}, tbl.Columns())
	assert.Equal(t, table.IntValue(2019), tbl.Value(0, "year"))

	counts := &Counts{Keys: []string{"count"}, Rows: []CountRow{{Key: []table.Value{str("x")}, Count: 2}}}
	require.NotPanics(t, func() { tbl = counts.Table() })
	assert.Equal(t, []string{"count", "count_2"}, tbl.Columns())
}

func TestSeasonAdjustedVolume_LongRunningShow(t *testing.T) {
	tbl := table.MustNew(
		[]string{constants.ColType, constants.ColReleaseYear, constants.ColSeasonCount},
		[][]table.Value{
			{str("TV Show"), num(1990), num(1_000_000_000)},
		})
	vol, err := SeasonAdjustedVolume(tbl, 2019, 2020)
	require.NoError(t, err)
	shows, _ := vol.Line(constants.TypeTVShow)
	assert.Equal(t, []any{1.0, 1.0}, floats(shows))
}

func TestSeasonAdjustedVolume(t *testing.T) {
	tbl := table.MustNew(
		[]string{constants.ColType, constants.ColReleaseYear, constants.ColSeasonCount},
		[][]table.Value{
			{str("Movie"), num(2019), table.Null()},
			{str("Movie"), num(2020), table.Null()},
			{str("TV Show"), num(2019), num(3)},
			{str("TV Show"), num(2020), table.Null()},
		})

	from, to, ok := YearRange(tbl, constants.ColReleaseYear)
	require.True(t, ok)
	assert.Equal(t, 2019, from)
	assert.Equal(t, 2020, to)

	vol, err := SeasonAdjustedVolume(tbl, from, to)
	require.NoError(t, err)
	assert.Equal(t, []int{2019, 2020}, vol.Index)
	movies, _ := vol.Line(constants.TypeMovie)
	assert.Equal(t, []any{1.0, 1.0}, floats(movies))
	shows, _ := vol.Line(constants.TypeTVShow)
	// third season falls past the range and the show without seasons is left out
	assert.Equal(t, []any{1.0, 1.0}, floats(shows))

	_, err = SeasonAdjustedVolume(table.Empty([]string{constants.ColType}), 2000, 2001)
	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}

func TestSeriesTable(t *testing.T) {
	series, err := SeriesOf(yearlyCounts(), "year", "")
	require.NoError(t, err)
	tbl := series.Table()
	assert.Equal(t, []string{YearColumn, CountColumn}, tbl.Columns())
	assert.Equal(t, table.FloatValue(4), tbl.Value(0, CountColumn))
	assert.Equal(t, table.FloatValue(9), tbl.Value(1, CountColumn))
	assert.Equal(t, table.FloatValue(11), tbl.Value(2, CountColumn))
}

func TestShareOfTotal(t *testing.T) {
	series, err := SeriesOf(yearlyCounts(), "year", "type")
	require.NoError(t, err)
	series.Index = append(series.Index, 2021)
	for i := range series.Lines {
		series.Lines[i].Values = append(series.Lines[i].Values, ptr(0))
	}

	shares := ShareOfTotal(series)
	movies, _ := shares.Line("Movie")
	shows, _ := shares.Line("TV Show")

	assert.Equal(t, []any{100.0, 7.0 / 9 * 100, 5.0 / 11 * 100, nil}, floats(movies))
	assert.Equal(t, []any{0.0, 2.0 / 9 * 100, 6.0 / 11 * 100, nil}, floats(shows))
}
