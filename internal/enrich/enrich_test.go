package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/domain"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

func TestFoldKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Amélie", "amelie"},
		{"Blood & Water", "blood water"},
		{"  Kirsten   Johnson ", "kirsten johnson"},
		{"Pokémon: The Movie!", "pokemon the movie"},
		{"Ｎａｒｃｏｓ", "narcos"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FoldKey(tt.in))
		})
	}
}

func TestJoinScores(t *testing.T) {
	catalog := table.MustNew([]string{constants.ColTitle}, [][]table.Value{
		{table.StringValue("Amélie")},
		{table.StringValue("Unknown Film")},
		{table.Null()},
		{table.StringValue("narcos")},
	})
	ratings := table.MustNew([]string{constants.ColName, constants.ColScore}, [][]table.Value{
		{table.StringValue("Amelie"), table.FloatValue(8.3)},
		{table.StringValue("Narcos"), table.FloatValue(8.0)},
		{table.StringValue("NARCOS"), table.FloatValue(9.0)},
	})

	out, err := JoinScores(catalog, ratings, constants.ColTitle)
	require.NoError(t, err)
	require.Equal(t, 4, out.Len(), "left join keeps every row")

	assert.Equal(t, table.FloatValue(8.3), out.Value(0, constants.ColScore))
	assert.True(t, out.Value(1, constants.ColScore).IsNull())
	assert.True(t, out.Value(2, constants.ColScore).IsNull())
	assert.Equal(t, table.FloatValue(8.5), out.Value(3, constants.ColScore), "duplicate keys are averaged")
}

func TestJoinScores_MissingColumns(t *testing.T) {
	catalog := table.Empty([]string{constants.ColTitle})
	ratings := table.Empty([]string{constants.ColName, constants.ColScore})

	_, err := JoinScores(catalog, ratings, constants.ColCast)
	assert.ErrorIs(t, err, domain.ErrMissingColumn)

	_, err = JoinScores(catalog, table.Empty([]string{constants.ColName}), constants.ColTitle)
	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}
