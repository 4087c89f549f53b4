package aggregate

import (
	"slices"

	"github.com/cesargomez89/netflix-insights/internal/table"
)

// PercentColumn names the share column of tables rendered from Shares.
const PercentColumn = "percent"

type ShareRow struct {
	Key     []table.Value `json:"key"`
	Count   int           `json:"count"`
	Percent *float64      `json:"percent"`
}

// Shares is Counts with each row's percentage of its group total.
type Shares struct {
	Keys []string   `json:"keys"`
	Rows []ShareRow `json:"rows"`
}

// Percent computes each row's share (0..100) of the total of the rows that
// agree on groupKeys. With no group keys the whole table is one group. A
// group whose total is zero gets null percentages.
func Percent(c *Counts, groupKeys ...string) (*Shares, error) {
	gidx, err := c.keyIndex("percent", groupKeys...)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int)
	for _, r := range c.Rows {
		totals[encode(project(r.Key, gidx))] += r.Count
	}

	out := &Shares{Keys: slices.Clone(c.Keys), Rows: make([]ShareRow, len(c.Rows))}
	for i, r := range c.Rows {
		row := ShareRow{Key: r.Key, Count: r.Count}
		if total := totals[encode(project(r.Key, gidx))]; total != 0 {
			p := 100 * float64(r.Count) / float64(total)
			row.Percent = &p
		}
		out.Rows[i] = row
	}
	return out, nil
}

// Table renders keys, count and percent columns.
func (s *Shares) Table() *table.Table {
	cols := append(slices.Clone(s.Keys), CountColumn, PercentColumn)
	rows := make([][]table.Value, len(s.Rows))
	for i, r := range s.Rows {
		pct := table.Null()
		if r.Percent != nil {
			pct = table.FloatValue(*r.Percent)
		}
		rows[i] = append(slices.Clone(r.Key), table.IntValue(r.Count), pct)
	}
	return table.MustNew(table.UniqueColumns(cols), rows)
}
