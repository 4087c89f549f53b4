// Package enrich attaches external scores to catalog rows.
package enrich

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

// FoldKey reduces a name to a matching key.
// "Amélie" -> "amelie".
// "Blood & Water" -> "blood water".
// "  Kirsten   Johnson " -> "kirsten johnson".
func FoldKey(s string) string {
	// decompose so accents become separate marks
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.Is(unicode.Mn, r):
			return -1
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			return ' '
		}
		return unicode.ToLower(r)
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// JoinScores left-joins ratings onto t by folded key. Every row of t is kept;
// rows without a match get a null imdb_score. Several ratings rows folding to
// the same key are averaged.
func JoinScores(t, ratings *table.Table, keyColumn string) (*table.Table, error) {
	if err := t.Require("join scores", keyColumn); err != nil {
		return nil, err
	}
	if err := ratings.Require("join scores", constants.ColName, constants.ColScore); err != nil {
		return nil, err
	}

	scores := index(ratings)
	return t.WithColumn(constants.ColScore, func(r table.Row) table.Value {
		name, ok := r.Get(keyColumn).AsString()
		if !ok {
			return table.Null()
		}
		if s, ok := scores[FoldKey(name)]; ok {
			return table.FloatValue(s)
		}
		return table.Null()
	}), nil
}

func index(ratings *table.Table) map[string]float64 {
	type acc struct {
		sum float64
		n   int
	}
	sums := make(map[string]*acc, ratings.Len())
	ratings.Each(func(r table.Row) {
		name, ok := r.Get(constants.ColName).AsString()
		if !ok {
			return
		}
		score, ok := r.Get(constants.ColScore).AsFloat()
		if !ok {
			return
		}
		key := FoldKey(name)
		if key == "" {
			return
		}
		a := sums[key]
		if a == nil {
			a = &acc{}
			sums[key] = a
		}
		a.sum += score
		a.n++
	})

	out := make(map[string]float64, len(sums))
	for k, a := range sums {
		out[k] = a.sum / float64(a.n)
	}
	return out
}
