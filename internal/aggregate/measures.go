package aggregate

import (
	"slices"

	"github.com/cesargomez89/netflix-insights/internal/table"
)

// MeanColumn names the measure column of tables rendered from Measures.
const MeanColumn = "mean"

type MeasureRow struct {
	Key   []table.Value `json:"key"`
	Value float64       `json:"value"`
	N     int           `json:"n"`
}

// Measures holds one numeric summary per key tuple, ordered by key.
type Measures struct {
	Keys []string     `json:"keys"`
	Rows []MeasureRow `json:"rows"`
}

// Mean averages valueColumn per key tuple. Null or non-numeric values and
// null keys are ignored; groups with no numeric value are omitted.
func Mean(t *table.Table, valueColumn string, keys ...string) (*Measures, error) {
	if err := t.Require("mean", append([]string{valueColumn}, keys...)...); err != nil {
		return nil, err
	}

	type acc struct {
		key []table.Value
		sum float64
		n   int
	}
	index := make(map[string]*acc)
	var order []*acc
	t.Each(func(r table.Row) {
		key, ok := keyOf(r, keys)
		if !ok {
			return
		}
		f, ok := r.Get(valueColumn).AsFloat()
		if !ok {
			return
		}
		id := encode(key)
		a, ok := index[id]
		if !ok {
			a = &acc{key: key}
			index[id] = a
			order = append(order, a)
		}
		a.sum += f
		a.n++
	})

	out := &Measures{Keys: slices.Clone(keys), Rows: make([]MeasureRow, 0, len(order))}
	for _, a := range order {
		out.Rows = append(out.Rows, MeasureRow{Key: a.key, Value: a.sum / float64(a.n), N: a.n})
	}
	slices.SortFunc(out.Rows, func(a, b MeasureRow) int { return table.CompareKeys(a.Key, b.Key) })
	return out, nil
}

// Table renders keys followed by the "mean" column.
func (m *Measures) Table() *table.Table {
	cols := append(slices.Clone(m.Keys), MeanColumn)
	rows := make([][]table.Value, len(m.Rows))
	for i, r := range m.Rows {
		rows[i] = append(slices.Clone(r.Key), table.FloatValue(r.Value))
	}
	return table.MustNew(table.UniqueColumns(cols), rows)
}

// SortByValue orders rows by value descending, keys ascending on ties.
func (m *Measures) SortByValue() *Measures {
	rows := slices.Clone(m.Rows)
	slices.SortStableFunc(rows, func(a, b MeasureRow) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		}
		return table.CompareKeys(a.Key, b.Key)
	})
	return &Measures{Keys: slices.Clone(m.Keys), Rows: rows}
}
