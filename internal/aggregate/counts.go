// Package aggregate turns exploded and derived title tables into chart-ready
// summaries: counts, pivots, top-N with an Others bucket, shares and yearly
// series. No operation modifies its input.
package aggregate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/domain"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

// CountColumn names the measure column of tables rendered from Counts.
const CountColumn = "count"

type CountRow struct {
	Key   []table.Value `json:"key"`
	Count int           `json:"count"`
}

// Counts is a grouped row count, ordered by count descending then key ascending.
type Counts struct {
	Keys []string   `json:"keys"`
	Rows []CountRow `json:"rows"`
	// Tied lists the groups where TopPerGroup had to break a tie.
	Tied [][]table.Value `json:"tied,omitempty"`
}

// Count groups t by keys and counts rows per key tuple. Rows with a null key
// are skipped.
func Count(t *table.Table, keys ...string) (*Counts, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("count: at least one key is required")
	}
	if err := t.Require("count", keys...); err != nil {
		return nil, err
	}

	acc := newGroups(keys)
	t.Each(func(r table.Row) {
		key, ok := keyOf(r, keys)
		if !ok {
			return
		}
		acc.add(key, 1)
	})
	return acc.counts(), nil
}

// NUnique counts distinct non-null values of column per key tuple.
func NUnique(t *table.Table, column string, keys ...string) (*Counts, error) {
	if err := t.Require("nunique", append([]string{column}, keys...)...); err != nil {
		return nil, err
	}

	acc := newGroups(keys)
	seen := make(map[string]struct{})
	t.Each(func(r table.Row) {
		key, ok := keyOf(r, keys)
		if !ok {
			return
		}
		v := r.Get(column)
		if v.IsNull() {
			return
		}
		id := encode(key) + "\x1e" + encode([]table.Value{v})
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		acc.add(key, 1)
	})
	return acc.counts(), nil
}

// Total sums every row's count.
func (c *Counts) Total() int {
	n := 0
	for _, r := range c.Rows {
		n += r.Count
	}
	return n
}

// Lookup returns the count for a key tuple, or 0.
func (c *Counts) Lookup(key ...table.Value) int {
	for _, r := range c.Rows {
		if table.CompareKeys(r.Key, key) == 0 {
			return r.Count
		}
	}
	return 0
}

// Table renders the counts with one column per key followed by "count".
// Clashing names are suffixed.
func (c *Counts) Table() *table.Table {
	cols := append(slices.Clone(c.Keys), CountColumn)
	rows := make([][]table.Value, len(c.Rows))
	for i, r := range c.Rows {
		rows[i] = append(slices.Clone(r.Key), table.IntValue(r.Count))
	}
	return table.MustNew(table.UniqueColumns(cols), rows)
}

func (c *Counts) keyIndex(op string, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		j := slices.Index(c.Keys, n)
		if j < 0 {
			return nil, &domain.MissingColumnError{Op: op, Column: n}
		}
		idx[i] = j
	}
	return idx, nil
}

// TopN keeps the n largest rows and folds the rest into one Others row whose
// count is the tail sum. No Others row is added when nothing is folded. The
// total count is preserved for every n >= 0.
func TopN(c *Counts, n int) (*Counts, error) {
	if n < 0 {
		return nil, fmt.Errorf("top n: n must be non-negative, got %d", n)
	}
	rows := sortedRows(c.Rows)
	if n >= len(rows) {
		return &Counts{Keys: slices.Clone(c.Keys), Rows: rows}, nil
	}

	tail := 0
	for _, r := range rows[n:] {
		tail += r.Count
	}
	// trailing keys of a multi-key Others row stay null
	others := make([]table.Value, len(c.Keys))
	if len(others) > 0 {
		others[0] = table.StringValue(constants.OthersLabel)
	}

	out := append(rows[:n:n], CountRow{Key: others, Count: tail})
	return &Counts{Keys: slices.Clone(c.Keys), Rows: out}, nil
}

// Top returns the first n rows without an Others bucket.
func Top(c *Counts, n int) *Counts {
	rows := sortedRows(c.Rows)
	if n >= 0 && n < len(rows) {
		rows = rows[:n]
	}
	return &Counts{Keys: slices.Clone(c.Keys), Rows: rows}
}

// TopPerGroup selects, for each distinct tuple of groupKeys, the row with the
// highest count. Equal counts resolve to the smallest valueKey; such groups
// are listed in Tied.
func TopPerGroup(c *Counts, valueKey string, groupKeys ...string) (*Counts, error) {
	gidx, err := c.keyIndex("top per group", groupKeys...)
	if err != nil {
		return nil, err
	}
	vidx, err := c.keyIndex("top per group", valueKey)
	if err != nil {
		return nil, err
	}
	v := vidx[0]

	type pick struct {
		row  CountRow
		tied bool
	}
	best := make(map[string]*pick)
	var order []string
	for _, r := range c.Rows {
		g := project(r.Key, gidx)
		id := encode(g)
		cur, ok := best[id]
		if !ok {
			best[id] = &pick{row: r}
			order = append(order, id)
			continue
		}
		switch {
		case r.Count > cur.row.Count:
			cur.row, cur.tied = r, false
		case r.Count == cur.row.Count:
			cur.tied = true
			if table.Compare(r.Key[v], cur.row.Key[v]) < 0 {
				cur.row = r
			}
		}
	}

	keys := append(slices.Clone(groupKeys), valueKey)
	out := &Counts{Keys: keys}
	for _, id := range order {
		p := best[id]
		key := append(project(p.row.Key, gidx), p.row.Key[v])
		out.Rows = append(out.Rows, CountRow{Key: key, Count: p.row.Count})
		if p.tied {
			out.Tied = append(out.Tied, project(p.row.Key, gidx))
		}
	}
	out.Rows = sortedRows(out.Rows)
	return out, nil
}

// Ambiguous reports the tie-broken groups as an ErrAmbiguousTie, or nil.
func (c *Counts) Ambiguous() error {
	if len(c.Tied) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d group(s) resolved alphabetically", domain.ErrAmbiguousTie, len(c.Tied))
}

// Mode returns the most frequent value of column per key tuple, ties
// resolved alphabetically.
func Mode(t *table.Table, column string, keys ...string) (*Counts, error) {
	c, err := Count(t, append(slices.Clone(keys), column)...)
	if err != nil {
		return nil, err
	}
	return TopPerGroup(c, column, keys...)
}

// Pivot spreads colKey into columns, one row per rowKey value. Missing cells
// are 0. Rows and columns are sorted ascending.
func Pivot(c *Counts, rowKey, colKey string) (*table.Table, error) {
	idx, err := c.keyIndex("pivot", rowKey, colKey)
	if err != nil {
		return nil, err
	}
	ri, ci := idx[0], idx[1]

	var rowVals, colVals []table.Value
	cells := make(map[string]int)
	for _, r := range c.Rows {
		rowVals = appendUnique(rowVals, r.Key[ri])
		colVals = appendUnique(colVals, r.Key[ci])
		cells[encode([]table.Value{r.Key[ri], r.Key[ci]})] += r.Count
	}
	slices.SortFunc(rowVals, table.Compare)
	slices.SortFunc(colVals, table.Compare)

	cols := []string{rowKey}
	for _, v := range colVals {
		cols = append(cols, v.String())
	}
	rows := make([][]table.Value, len(rowVals))
	for i, rv := range rowVals {
		row := []table.Value{rv}
		for _, cv := range colVals {
			row = append(row, table.IntValue(cells[encode([]table.Value{rv, cv})]))
		}
		rows[i] = row
	}
	return table.New(cols, rows)
}

// Filter keeps the rows whose key matches keep.
func (c *Counts) Filter(keep func(CountRow) bool) *Counts {
	out := &Counts{Keys: slices.Clone(c.Keys)}
	for _, r := range c.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Values returns the distinct values of one key in row order.
func (c *Counts) Values(key string) ([]table.Value, error) {
	idx, err := c.keyIndex("values", key)
	if err != nil {
		return nil, err
	}
	var out []table.Value
	for _, r := range c.Rows {
		out = appendUnique(out, r.Key[idx[0]])
	}
	return out, nil
}

type groups struct {
	keys  []string
	index map[string]int
	rows  []CountRow
}

func newGroups(keys []string) *groups {
	return &groups{keys: keys, index: make(map[string]int)}
}

func (g *groups) add(key []table.Value, n int) {
	id := encode(key)
	if i, ok := g.index[id]; ok {
		g.rows[i].Count += n
		return
	}
	g.index[id] = len(g.rows)
	g.rows = append(g.rows, CountRow{Key: key, Count: n})
}

func (g *groups) counts() *Counts {
	return &Counts{Keys: slices.Clone(g.keys), Rows: sortedRows(g.rows)}
}

func sortedRows(rows []CountRow) []CountRow {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b CountRow) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return table.CompareKeys(a.Key, b.Key)
	})
	return out
}

func keyOf(r table.Row, keys []string) ([]table.Value, bool) {
	key := make([]table.Value, len(keys))
	for i, k := range keys {
		v := r.Get(k)
		if v.IsNull() {
			return nil, false
		}
		key[i] = v
	}
	return key, true
}

func project(key []table.Value, idx []int) []table.Value {
	out := make([]table.Value, len(idx))
	for i, j := range idx {
		out[i] = key[j]
	}
	return out
}

func encode(key []table.Value) string {
	var b strings.Builder
	for i, v := range key {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		fmt.Fprintf(&b, "%d:%s", v.Kind(), v.String())
	}
	return b.String()
}

func appendUnique(vals []table.Value, v table.Value) []table.Value {
	for _, x := range vals {
		if x.Equal(v) {
			return vals
		}
	}
	return append(vals, v)
}
