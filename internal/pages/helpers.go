package pages

import (
	"strings"

	"github.com/cesargomez89/netflix-insights/internal/aggregate"
	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/derive"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

func tableResult(t *table.Table, err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	return Result{Table: t}, nil
}

// ofType keeps rows of one content type.
func ofType(t *table.Table, typ string) (*table.Table, error) {
	if err := t.Require("type filter", constants.ColType); err != nil {
		return nil, err
	}
	return t.Filter(func(r table.Row) bool {
		s, ok := r.Get(constants.ColType).AsString()
		return ok && s == typ
	}), nil
}

// keyIn keeps rows whose column value is one of vals.
func keyIn(t *table.Table, column string, vals []table.Value) *table.Table {
	return t.Filter(func(r table.Row) bool {
		v := r.Get(column)
		for _, want := range vals {
			if v.Equal(want) {
				return true
			}
		}
		return false
	})
}

// seasonLabels swaps quarter codes for month initials (Q1 -> JFM).
func seasonLabels(t *table.Table) *table.Table {
	if !t.HasColumn(constants.ColSeason) {
		return t
	}
	return t.WithColumn(constants.ColSeason, func(r table.Row) table.Value {
		v := r.Get(constants.ColSeason)
		s, ok := v.AsString()
		if !ok {
			return v
		}
		if label := derive.Season(s).Label(); label != "" {
			return table.StringValue(label)
		}
		return v
	})
}

func renameLine(s *aggregate.Series, from, to string) *aggregate.Series {
	for i := range s.Lines {
		if s.Lines[i].Name == from {
			s.Lines[i].Name = to
		}
	}
	return s
}

func tieNotes(c *aggregate.Counts) []string {
	if err := c.Ambiguous(); err != nil {
		return []string{err.Error()}
	}
	return nil
}

func sameFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
