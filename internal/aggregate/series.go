package aggregate

import (
	"fmt"
	"slices"

	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/domain"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

// YearColumn names the index column of tables rendered from a Series.
const YearColumn = "year"

// Line is one category of a Series. Values align with Series.Index; a nil
// entry is undefined.
type Line struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// Series is a year by category matrix with nullable cells.
type Series struct {
	Index []int  `json:"index"`
	Lines []Line `json:"lines"`
}

// SeriesOf reshapes counts keyed by an integer year (and optionally a
// category) into a Series. The index is the sorted union of years; a category
// with no count in a year gets 0 there. With an empty categoryKey the single
// line is named "count".
func SeriesOf(c *Counts, yearKey, categoryKey string) (*Series, error) {
	names := []string{yearKey}
	if categoryKey != "" {
		names = append(names, categoryKey)
	}
	idx, err := c.keyIndex("series", names...)
	if err != nil {
		return nil, err
	}

	var years []int
	var cats []string
	cells := make(map[string]map[int]int)
	for _, r := range c.Rows {
		y, ok := r.Key[idx[0]].AsInt()
		if !ok {
			return nil, &domain.MalformedValueError{Column: yearKey, Value: r.Key[idx[0]].String()}
		}
		cat := CountColumn
		if categoryKey != "" {
			cat = r.Key[idx[1]].String()
		}
		if _, ok := cells[cat]; !ok {
			cells[cat] = make(map[int]int)
			cats = append(cats, cat)
		}
		if !slices.Contains(years, y) {
			years = append(years, y)
		}
		cells[cat][y] += r.Count
	}
	slices.Sort(years)

	s := &Series{Index: years}
	for _, cat := range cats {
		vals := make([]*float64, len(years))
		for i, y := range years {
			vals[i] = ptr(float64(cells[cat][y]))
		}
		s.Lines = append(s.Lines, Line{Name: cat, Values: vals})
	}
	return s, nil
}

// Line returns the values of the named line.
func (s *Series) Line(name string) ([]*float64, bool) {
	for _, l := range s.Lines {
		if l.Name == name {
			return l.Values, true
		}
	}
	return nil, false
}

// Select keeps the named lines in the given order, skipping unknown names.
func (s *Series) Select(names ...string) *Series {
	out := &Series{Index: slices.Clone(s.Index)}
	for _, n := range names {
		if vals, ok := s.Line(n); ok {
			out.Lines = append(out.Lines, Line{Name: n, Values: slices.Clone(vals)})
		}
	}
	return out
}

// Since drops index positions before year.
func (s *Series) Since(year int) *Series {
	start, _ := slices.BinarySearch(s.Index, year)
	out := &Series{Index: slices.Clone(s.Index[start:])}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, Line{Name: l.Name, Values: slices.Clone(l.Values[start:])})
	}
	return out
}

// Table renders the series with a year column and one column per line. A
// line named like an earlier column gets a numeric suffix.
func (s *Series) Table() *table.Table {
	cols := []string{YearColumn}
	for _, l := range s.Lines {
		cols = append(cols, l.Name)
	}
	rows := make([][]table.Value, len(s.Index))
	for i, y := range s.Index {
		row := []table.Value{table.IntValue(y)}
		for _, l := range s.Lines {
			if v := l.Values[i]; v != nil {
				row = append(row, table.FloatValue(*v))
			} else {
				row = append(row, table.Null())
			}
		}
		rows[i] = row
	}
	return table.MustNew(table.UniqueColumns(cols), rows)
}

func (s *Series) mapLines(fn func([]*float64) []*float64) *Series {
	out := &Series{Index: slices.Clone(s.Index)}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, Line{Name: l.Name, Values: fn(l.Values)})
	}
	return out
}

// YoYDelta takes first differences along the index per line. The leading
// position is 0. A difference touching an undefined cell is undefined.
func YoYDelta(s *Series) *Series {
	return s.mapLines(func(vals []*float64) []*float64 {
		out := make([]*float64, len(vals))
		for i := range vals {
			switch {
			case i == 0:
				out[i] = ptr(0)
			case vals[i] != nil && vals[i-1] != nil:
				out[i] = ptr(*vals[i] - *vals[i-1])
			}
		}
		return out
	})
}

// PctChange is the percentage change from the previous position. It is
// undefined at the leading position and wherever the previous value is 0.
func PctChange(s *Series) *Series {
	return s.mapLines(func(vals []*float64) []*float64 {
		out := make([]*float64, len(vals))
		for i := 1; i < len(vals); i++ {
			prev, cur := vals[i-1], vals[i]
			if prev == nil || cur == nil || *prev == 0 {
				continue
			}
			out[i] = ptr((*cur - *prev) / *prev * 100)
		}
		return out
	})
}

// RollingMean is a centered moving average over window positions. Edges and
// undefined cells shrink the window; a position with no defined neighbour is
// undefined. An even window reaches one position further back than forward.
func RollingMean(s *Series, window int) (*Series, error) {
	if window < 1 {
		return nil, fmt.Errorf("rolling mean: window must be at least 1, got %d", window)
	}
	ahead := (window - 1) / 2
	behind := window - 1 - ahead
	return s.mapLines(func(vals []*float64) []*float64 {
		out := make([]*float64, len(vals))
		for i := range vals {
			sum, n := 0.0, 0
			for j := max(0, i-behind); j <= min(len(vals)-1, i+ahead); j++ {
				if vals[j] != nil {
					sum += *vals[j]
					n++
				}
			}
			if n > 0 {
				out[i] = ptr(sum / float64(n))
			}
		}
		return out
	}), nil
}

// FillYears reindexes s to the contiguous years from..to. Years missing from
// s are 0; years outside the range are dropped.
func FillYears(s *Series, from, to int) *Series {
	var years []int
	for y := from; y <= to; y++ {
		years = append(years, y)
	}
	pos := make(map[int]int, len(s.Index))
	for i, y := range s.Index {
		pos[y] = i
	}
	out := &Series{Index: years}
	for _, l := range s.Lines {
		vals := make([]*float64, len(years))
		for i, y := range years {
			if j, ok := pos[y]; ok {
				vals[i] = l.Values[j]
			} else {
				vals[i] = ptr(0)
			}
		}
		out.Lines = append(out.Lines, Line{Name: l.Name, Values: vals})
	}
	return out
}

// MinMaxNormalize scales values into [0, 1). A small epsilon keeps a constant
// input from dividing by zero.
func MinMaxNormalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	lo, hi := slices.Min(values), slices.Max(values)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - lo) / (hi - lo + 1e-6)
	}
	return out
}

// YearRange returns the smallest and largest integer value of column.
func YearRange(t *table.Table, column string) (from, to int, ok bool) {
	t.Each(func(r table.Row) {
		y, isInt := r.Get(column).AsInt()
		if !isInt {
			return
		}
		if !ok {
			from, to, ok = y, y, true
			return
		}
		from, to = min(from, y), max(to, y)
	})
	return from, to, ok
}

// SeasonAdjustedVolume counts releases per year over from..to with each TV
// season as its own release: a show with N seasons released in year Y adds 1
// to each of Y..Y+N-1, a movie adds 1 to its release year. Shows without a
// season count are left out. Lines are "Movie" and "TV Show".
func SeasonAdjustedVolume(t *table.Table, from, to int) (*Series, error) {
	if err := t.Require("season adjusted volume",
		constants.ColType, constants.ColReleaseYear, constants.ColSeasonCount); err != nil {
		return nil, err
	}
	if to < from {
		return &Series{}, nil
	}

	n := to - from + 1
	movies := make([]float64, n)
	shows := make([]float64, n)
	t.Each(func(r table.Row) {
		y, ok := r.Get(constants.ColReleaseYear).AsInt()
		if !ok {
			return
		}
		typ, _ := r.Get(constants.ColType).AsString()
		switch domain.ContentType(typ) {
		case domain.ContentTypeMovie:
			if y >= from && y <= to {
				movies[y-from]++
			}
		case domain.ContentTypeTVShow:
			seasons, ok := r.Get(constants.ColSeasonCount).AsInt()
			if !ok {
				return
			}
			last := min(y+seasons-1, to)
			for yy := max(y, from); yy <= last; yy++ {
				shows[yy-from]++
			}
		}
	})

	s := &Series{}
	for i := range n {
		s.Index = append(s.Index, from+i)
	}
	s.Lines = []Line{
		{Name: constants.TypeMovie, Values: ptrs(movies)},
		{Name: constants.TypeTVShow, Values: ptrs(shows)},
	}
	return s, nil
}

func ptr(f float64) *float64 { return &f }

func ptrs(fs []float64) []*float64 {
	out := make([]*float64, len(fs))
	for i, f := range fs {
		out[i] = ptr(f)
	}
	return out
}

// ShareOfTotal converts every line into its percentage (0..100) of the sum of
// all lines at the same position. A position whose total is 0 is undefined,
// as is any cell that was undefined.
func ShareOfTotal(s *Series) *Series {
	totals := make([]float64, len(s.Index))
	for _, l := range s.Lines {
		for i, v := range l.Values {
			if v != nil {
				totals[i] += *v
			}
		}
	}
	return s.mapLines(func(vals []*float64) []*float64 {
		out := make([]*float64, len(vals))
		for i, v := range vals {
			if v != nil && totals[i] != 0 {
				out[i] = ptr(*v / totals[i] * 100)
			}
		}
		return out
	})
}
