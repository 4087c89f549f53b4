package explode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/netflix-insights/internal/domain"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"comma space", "India, Spain", []string{"India", "Spain"}},
		{"bare comma", "India,Spain", []string{"India", "Spain"}},
		{"drops empties", ", India,, ,Spain,", []string{"India", "Spain"}},
		{"keeps duplicates", "Drama, Drama", []string{"Drama", "Drama"}},
		{"blank", "   ", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.raw))
		})
	}
}

func titles(t *testing.T) *table.Table {
	t.Helper()
	return table.MustNew([]string{"title", "country", "type", "listed_in"}, [][]table.Value{
		{table.StringValue("A"), table.StringValue("India, Spain"), table.StringValue("Movie"), table.StringValue("Dramas, Comedies")},
		{table.StringValue("B"), table.Null(), table.StringValue("Movie"), table.StringValue("Dramas")},
	})
}

func TestExplode_IndiaSpainScenario(t *testing.T) {
	out, err := Explode(titles(t), "country")
	require.NoError(t, err)

	require.Equal(t, 2, out.Len())
	assert.Equal(t, "A", out.Value(0, "title").String())
	assert.Equal(t, "India", out.Value(0, "country").String())
	assert.Equal(t, "A", out.Value(1, "title").String())
	assert.Equal(t, "Spain", out.Value(1, "country").String())
	assert.Equal(t, "Movie", out.Value(1, "type").String(), "other columns copied verbatim")
}

func TestExplode_NullDoesNotVanishFromOtherAggregates(t *testing.T) {
	base := titles(t)
	_, err := Explode(base, "country")
	require.NoError(t, err)

	assert.Equal(t, 2, base.Len(), "input table is unchanged")
	assert.Equal(t, "B", base.Value(1, "title").String())
}

func TestExplode_MissingColumn(t *testing.T) {
	_, err := Explode(titles(t), "cast")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}

func TestExplode_EmptyStringYieldsNothing(t *testing.T) {
	tbl := table.MustNew([]string{"title", "cast"}, [][]table.Value{
		{table.StringValue("X"), table.StringValue(" , ")},
	})
	out, err := Explode(tbl, "cast")
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestExplodeAll_CrossProduct(t *testing.T) {
	out, err := ExplodeAll(titles(t), "country", "listed_in")
	require.NoError(t, err)

	require.Equal(t, 4, out.Len(), "2 countries x 2 genres for A, nothing for B")
	pairs := map[string]bool{}
	out.Each(func(r table.Row) {
		pairs[r.Get("country").String()+"|"+r.Get("listed_in").String()] = true
	})
	assert.Equal(t, map[string]bool{
		"India|Dramas": true, "India|Comedies": true,
		"Spain|Dramas": true, "Spain|Comedies": true,
	}, pairs)
}

func TestExplodeAll_PropagatesMissingColumn(t *testing.T) {
	_, err := ExplodeAll(titles(t), "country", "genre")
	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}
