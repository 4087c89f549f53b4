// Package table provides an immutable, column-named table of nullable typed
// cells. Every transformation returns a new table; rows are never modified
// after construction, so tables may share row storage safely.
package table

import (
	"fmt"
	"slices"

	"github.com/cesargomez89/netflix-insights/internal/domain"
)

type Table struct {
	index   map[string]int
	columns []string
	rows    [][]Value
}

// New builds a table, checking that column names are unique and every row
// has one cell per column.
func New(columns []string, rows [][]Value) (*Table, error) {
	index, err := buildIndex(columns)
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(r), len(columns))
		}
	}
	return &Table{index: index, columns: slices.Clone(columns), rows: rows}, nil
}

// MustNew is New for statically known inputs.
func MustNew(columns []string, rows [][]Value) *Table {
	t, err := New(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// UniqueColumns returns names with each repeat suffixed "_2", "_3" and so
// on, skipping suffixed names that are already taken. The first occurrence
// keeps its name.
func UniqueColumns(names []string) []string {
	taken := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		for n, base := 2, name; taken[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		taken[name] = true
		out[i] = name
	}
	return out
}

// Empty returns a zero-row table with the given schema.
func Empty(columns []string) *Table {
	return MustNew(columns, nil)
}

func buildIndex(columns []string) (map[string]int, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}
	return index, nil
}

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Columns() []string { return slices.Clone(t.columns) }

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Require returns a MissingColumnError for the first absent column.
func (t *Table) Require(op string, columns ...string) error {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return &domain.MissingColumnError{Op: op, Column: c}
		}
	}
	return nil
}

func (t *Table) Row(i int) Row {
	return Row{t: t, cells: t.rows[i]}
}

// Value returns the cell at row i, or null if the column does not exist.
func (t *Table) Value(i int, column string) Value {
	return t.Row(i).Get(column)
}

// Each calls fn for every row in order.
func (t *Table) Each(fn func(Row)) {
	for _, cells := range t.rows {
		fn(Row{t: t, cells: cells})
	}
}

// Filter returns the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := make([][]Value, 0, len(t.rows))
	for _, cells := range t.rows {
		if keep(Row{t: t, cells: cells}) {
			out = append(out, cells)
		}
	}
	return &Table{index: t.index, columns: t.columns, rows: out}
}

// WithColumn returns a copy of t with column set to fn(row) for every row.
// An existing column of the same name is replaced in place.
func (t *Table) WithColumn(column string, fn func(Row) Value) *Table {
	return t.WithColumns([]string{column}, func(r Row) []Value { return []Value{fn(r)} })
}

// WithColumns sets several columns at once; fn must return one value per column.
func (t *Table) WithColumns(columns []string, fn func(Row) []Value) *Table {
	newCols := slices.Clone(t.columns)
	pos := make([]int, len(columns))
	for i, c := range columns {
		if j, ok := t.index[c]; ok {
			pos[i] = j
			continue
		}
		pos[i] = len(newCols)
		newCols = append(newCols, c)
	}
	index, err := buildIndex(newCols)
	if err != nil {
		panic(err)
	}

	rows := make([][]Value, len(t.rows))
	for i, cells := range t.rows {
		next := make([]Value, len(newCols))
		copy(next, cells)
		vals := fn(Row{t: t, cells: cells})
		for k, p := range pos {
			if k < len(vals) {
				next[p] = vals[k]
			}
		}
		rows[i] = next
	}
	return &Table{index: index, columns: newCols, rows: rows}
}

// Select projects the named columns in the given order.
func (t *Table) Select(columns ...string) (*Table, error) {
	if err := t.Require("select", columns...); err != nil {
		return nil, err
	}
	rows := make([][]Value, len(t.rows))
	for i, cells := range t.rows {
		next := make([]Value, len(columns))
		for k, c := range columns {
			next[k] = cells[t.index[c]]
		}
		rows[i] = next
	}
	return New(columns, rows)
}

// Head returns at most n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n >= len(t.rows) {
		return t
	}
	return &Table{index: t.index, columns: t.columns, rows: t.rows[:n]}
}

// Slice returns rows [from, to), clamped to the table.
func (t *Table) Slice(from, to int) *Table {
	from = max(0, min(from, len(t.rows)))
	to = max(from, min(to, len(t.rows)))
	return &Table{index: t.index, columns: t.columns, rows: t.rows[from:to]}
}

// Distinct returns the sorted distinct non-null values of a column.
func (t *Table) Distinct(column string) ([]Value, error) {
	if err := t.Require("distinct", column); err != nil {
		return nil, err
	}
	idx := t.index[column]
	seen := make(map[Value]struct{})
	var out []Value
	for _, cells := range t.rows {
		v := cells[idx]
		if v.IsNull() {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.SortFunc(out, Compare)
	return out, nil
}

// Records renders rows as column-name maps, for JSON output.
func (t *Table) Records() []map[string]Value {
	out := make([]map[string]Value, len(t.rows))
	for i, cells := range t.rows {
		rec := make(map[string]Value, len(t.columns))
		for j, c := range t.columns {
			rec[c] = cells[j]
		}
		out[i] = rec
	}
	return out
}

// Row is a read-only view of one table row.
type Row struct {
	t     *Table
	cells []Value
}

func (r Row) Get(column string) Value {
	if i, ok := r.t.index[column]; ok {
		return r.cells[i]
	}
	return Value{}
}

// Cells returns a copy of the row's cells in column order.
func (r Row) Cells() []Value { return slices.Clone(r.cells) }

// Builder accumulates rows for a fixed schema.
type Builder struct {
	columns []string
	rows    [][]Value
}

func NewBuilder(columns []string) *Builder {
	return &Builder{columns: slices.Clone(columns)}
}

// Append adds a row. The slice is retained and must not be modified afterwards.
func (b *Builder) Append(cells []Value) {
	b.rows = append(b.rows, cells)
}

func (b *Builder) Len() int { return len(b.rows) }

func (b *Builder) Build() (*Table, error) {
	return New(b.columns, b.rows)
}
