// Package filter narrows the catalog for the content explorer.
package filter

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/domain"
	"github.com/cesargomez89/netflix-insights/internal/explode"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

// Criteria holds one selection per explorer widget. Empty or "All" disables
// a criterion.
type Criteria struct {
	Type     string `json:"type,omitempty"`
	Rating   string `json:"rating,omitempty"`
	Year     string `json:"year,omitempty"`
	Title    string `json:"title,omitempty"`
	Cast     string `json:"cast,omitempty"`
	Director string `json:"director,omitempty"`
}

func active(s string) bool {
	return s != "" && s != constants.FilterAll
}

// Active reports whether any criterion is set.
func (c Criteria) Active() bool {
	return active(c.Type) || active(c.Rating) || active(c.Year) ||
		active(c.Title) || active(c.Cast) || active(c.Director)
}

// YearColumn picks the column the year widget filters on: release_year when
// present, otherwise year_added. Empty when neither exists.
func YearColumn(t *table.Table) string {
	switch {
	case t.HasColumn(constants.ColReleaseYear):
		return constants.ColReleaseYear
	case t.HasColumn(constants.ColYearAdded):
		return constants.ColYearAdded
	}
	return ""
}

// Apply keeps the rows matching every active criterion. Type, rating and
// title match exactly; cast and director match a case-insensitive substring.
// An active criterion on an absent column is a MissingColumnError, and a year
// that is not an integer is a MalformedValueError.
func Apply(t *table.Table, c Criteria) (*table.Table, error) {
	var preds []func(table.Row) bool

	exact := func(column, want string) error {
		if !active(want) {
			return nil
		}
		if err := t.Require("filter", column); err != nil {
			return err
		}
		preds = append(preds, func(r table.Row) bool {
			s, ok := r.Get(column).AsString()
			return ok && s == want
		})
		return nil
	}
	contains := func(column, want string) {
		needle := strings.ToLower(want)
		preds = append(preds, func(r table.Row) bool {
			s, ok := r.Get(column).AsString()
			return ok && strings.Contains(strings.ToLower(s), needle)
		})
	}

	if err := exact(constants.ColType, c.Type); err != nil {
		return nil, err
	}
	if err := exact(constants.ColRating, c.Rating); err != nil {
		return nil, err
	}
	if err := exact(constants.ColTitle, c.Title); err != nil {
		return nil, err
	}
	if active(c.Year) {
		col := YearColumn(t)
		if col == "" {
			return nil, t.Require("filter", constants.ColReleaseYear)
		}
		y, err := strconv.Atoi(strings.TrimSpace(c.Year))
		if err != nil {
			return nil, &domain.MalformedValueError{Column: col, Value: c.Year, Err: err}
		}
		preds = append(preds, func(r table.Row) bool {
			got, ok := r.Get(col).AsInt()
			return ok && got == y
		})
	}
	if active(c.Cast) {
		if err := t.Require("filter", constants.ColCast); err != nil {
			return nil, err
		}
		contains(constants.ColCast, c.Cast)
	}
	if active(c.Director) {
		if err := t.Require("filter", constants.ColDirector); err != nil {
			return nil, err
		}
		contains(constants.ColDirector, c.Director)
	}

	if len(preds) == 0 {
		return t, nil
	}
	return t.Filter(func(r table.Row) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}), nil
}

// Options lists the choices offered by each widget.
type Options struct {
	Types     []string `json:"types"`
	Ratings   []string `json:"ratings"`
	Years     []int    `json:"years"`
	Titles    []string `json:"titles"`
	Cast      []string `json:"cast"`
	Directors []string `json:"directors"`
}

// OptionsOf collects sorted distinct values per widget. Cast names are split
// out of the joined column. Years are newest first. Absent columns give empty
// lists.
func OptionsOf(t *table.Table) Options {
	opts := Options{
		Types:     distinct(t, constants.ColType, false),
		Ratings:   distinct(t, constants.ColRating, false),
		Titles:    distinct(t, constants.ColTitle, false),
		Cast:      distinct(t, constants.ColCast, true),
		Directors: distinct(t, constants.ColDirector, false),
		Years:     []int{},
	}
	if col := YearColumn(t); col != "" {
		seen := map[int]bool{}
		t.Each(func(r table.Row) {
			if y, ok := r.Get(col).AsInt(); ok && !seen[y] {
				seen[y] = true
				opts.Years = append(opts.Years, y)
			}
		})
		slices.SortFunc(opts.Years, func(a, b int) int { return cmp.Compare(b, a) })
	}
	return opts
}

func distinct(t *table.Table, column string, split bool) []string {
	out := []string{}
	if !t.HasColumn(column) {
		return out
	}
	seen := map[string]bool{}
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	t.Each(func(r table.Row) {
		s, ok := r.Get(column).AsString()
		if !ok {
			return
		}
		if !split {
			add(s)
			return
		}
		for _, name := range explode.Split(s) {
			add(name)
		}
	})
	slices.Sort(out)
	return out
}
