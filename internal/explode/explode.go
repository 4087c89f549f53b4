// Package explode turns delimiter-joined multi-value columns into one row per value.
package explode

import (
	"strings"

	"github.com/cesargomez89/netflix-insights/internal/table"
)

const delimiter = ","

// Split breaks a raw multi-value string on commas, trims each token and drops
// empty ones. Duplicate tokens are kept.
func Split(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, delimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Explode emits one row per token of column. Rows whose value is null or has
// no tokens produce nothing. Every other cell is copied verbatim.
func Explode(t *table.Table, column string) (*table.Table, error) {
	if err := t.Require("explode", column); err != nil {
		return nil, err
	}

	cols := t.Columns()
	pos := 0
	for i, c := range cols {
		if c == column {
			pos = i
			break
		}
	}

	b := table.NewBuilder(cols)
	t.Each(func(r table.Row) {
		v := r.Get(column)
		if v.IsNull() {
			return
		}
		raw, ok := v.AsString()
		if !ok {
			b.Append(r.Cells())
			return
		}
		for _, tok := range Split(raw) {
			cells := r.Cells()
			cells[pos] = table.StringValue(tok)
			b.Append(cells)
		}
	})
	return b.Build()
}

// ExplodeAll explodes each column in turn, producing the cross product of
// values per title.
func ExplodeAll(t *table.Table, columns ...string) (*table.Table, error) {
	out := t
	for _, c := range columns {
		var err error
		if out, err = Explode(out, c); err != nil {
			return nil, err
		}
	}
	return out, nil
}
