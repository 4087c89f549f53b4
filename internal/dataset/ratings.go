package dataset

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/domain"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

// RatingsColumns is the schema of a ratings table.
var RatingsColumns = []string{constants.ColName, constants.ColScore}

var (
	nameColumns  = []string{constants.ColTitle, constants.ColName, constants.ColCast, "primarytitle"}
	scoreColumns = []string{constants.ColScore, "averagerating", "score", constants.ColRating}
)

// LoadRatings reads an enrichment CSV holding one name column and one numeric
// score column, picked by the first matching header. Rows whose score does not
// parse are skipped and counted as malformed. A missing or unusable file
// yields an empty ratings table and an unavailable Status.
func LoadRatings(path string) (*table.Table, Status) {
	st := Status{Source: domain.LoadSourceLocal, Location: path, Columns: RatingsColumns}
	fail := func(err error) (*table.Table, Status) {
		st.Source = domain.LoadSourceNone
		st.Err = fmt.Errorf("%w: ratings %s: %w", domain.ErrDataUnavailable, path, err)
		st.Error = st.Err.Error()
		return table.Empty(RatingsColumns), st
	}

	f, err := os.Open(path)
	if err != nil {
		return fail(err)
	}
	defer f.Close()

	p, err := ParseCSV(f)
	if err != nil {
		return fail(err)
	}
	nameCol, ok := firstPresent(p.Table, nameColumns)
	if !ok {
		return fail(&domain.MissingColumnError{Op: "load ratings", Column: strings.Join(nameColumns, "|")})
	}
	scoreCol, ok := firstPresent(p.Table, scoreColumns)
	if !ok {
		return fail(&domain.MissingColumnError{Op: "load ratings", Column: strings.Join(scoreColumns, "|")})
	}

	b := table.NewBuilder(RatingsColumns)
	p.Table.Each(func(r table.Row) {
		name, ok := r.Get(nameCol).AsString()
		if !ok {
			return
		}
		raw, _ := r.Get(scoreCol).AsString()
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			st.Malformed++
			return
		}
		b.Append([]table.Value{table.StringValue(name), table.FloatValue(score)})
	})
	t, err := b.Build()
	if err != nil {
		return fail(err)
	}
	st.Rows = t.Len()
	st.Available = true
	return t, st
}

func firstPresent(t *table.Table, candidates []string) (string, bool) {
	for _, c := range candidates {
		if t.HasColumn(c) {
			return c, true
		}
	}
	return "", false
}
