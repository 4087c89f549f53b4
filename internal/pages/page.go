// Package pages turns catalog aggregates into named dashboard pages. Each page
// is a theme plus an ordered list of chart builders; a chart that cannot be
// computed is rendered as a placeholder so the rest of the page still shows.
package pages

import (
	"errors"
	"fmt"

	"github.com/cesargomez89/netflix-insights/internal/catalog"
	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/domain"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

// ErrUnknownPage is returned for a page name that is not registered.
var ErrUnknownPage = errors.New("unknown page")

type Kind string

const (
	KindPie        Kind = "pie"
	KindBar        Kind = "bar"
	KindGroupedBar Kind = "grouped_bar"
	KindLine       Kind = "line"
	KindMap        Kind = "map"
	KindTable      Kind = "table"
)

// Theme is the presentation hint attached to a page.
type Theme struct {
	Palette    []string `json:"palette"`
	Font       string   `json:"font,omitempty"`
	Background string   `json:"background,omitempty"`
	Layout     string   `json:"layout"`
}

// Params are the per-request knobs shared by every chart on a page. Zero
// values fall back to the catalog settings.
type Params struct {
	TopN   int `json:"top_n"`
	Window int `json:"window"`
}

func (p Params) resolve(s catalog.Settings) Params {
	if p.TopN <= 0 {
		p.TopN = s.TopN
	}
	if p.TopN <= 0 {
		p.TopN = constants.DefaultTopN
	}
	p.TopN = min(p.TopN, constants.MaxTopN)
	if p.Window <= 0 {
		p.Window = s.RollingWindow
	}
	if p.Window <= 0 {
		p.Window = constants.DefaultRollingWindow
	}
	p.Window = min(p.Window, constants.MaxRollingWindow)
	return p
}

func (p Params) key() string {
	return fmt.Sprintf("top=%d,window=%d", p.TopN, p.Window)
}

// Result is what a chart builder produces.
type Result struct {
	Table *table.Table
	Notes []string
}

// BuildFunc computes one chart from a catalog.
type BuildFunc func(c *catalog.Catalog, p Params) (Result, error)

// ChartSpec names a chart and how to compute it.
type ChartSpec struct {
	ID    string
	Title string
	Kind  Kind
	Build BuildFunc
}

// Page is a named, themed list of charts.
type Page struct {
	Name   string
	Title  string
	Theme  Theme
	Charts []ChartSpec
}

// Chart is a computed chart, or a placeholder when Placeholder is set.
type Chart struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Kind        Kind            `json:"kind"`
	Columns     []string        `json:"columns"`
	Rows        [][]table.Value `json:"rows"`
	Notes       []string        `json:"notes,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// Rendered is a page with every chart computed.
type Rendered struct {
	Name    string  `json:"name"`
	Title   string  `json:"title"`
	Theme   Theme   `json:"theme"`
	Params  Params  `json:"params"`
	Version string  `json:"version"`
	Charts  []Chart `json:"charts"`
}

// Placeholders reports how many charts could not be computed.
func (r *Rendered) Placeholders() int {
	n := 0
	for _, c := range r.Charts {
		if c.Placeholder != "" {
			n++
		}
	}
	return n
}

// Build runs every chart of page against c. It never fails: an unavailable
// catalog turns every chart into a placeholder, and a failing builder turns
// only its own chart into one.
func Build(page Page, c *catalog.Catalog, params Params) *Rendered {
	var settings catalog.Settings
	if c != nil {
		settings = c.Settings
	}
	p := params.resolve(settings)
	out := &Rendered{
		Name:    page.Name,
		Title:   page.Title,
		Theme:   page.Theme,
		Params:  p,
		Version: c.Version(),
		Charts:  make([]Chart, 0, len(page.Charts)),
	}
	for _, spec := range page.Charts {
		out.Charts = append(out.Charts, buildChart(spec, c, p))
	}
	return out
}

func buildChart(spec ChartSpec, c *catalog.Catalog, p Params) Chart {
	chart := Chart{ID: spec.ID, Title: spec.Title, Kind: spec.Kind, Columns: []string{}, Rows: [][]table.Value{}}
	if !c.Available() {
		return placeholder(chart, domain.ErrDataUnavailable)
	}
	res, err := spec.Build(c, p)
	if err != nil {
		return placeholder(chart, err)
	}
	if res.Table == nil {
		return placeholder(chart, domain.ErrDataUnavailable)
	}
	chart.Columns = res.Table.Columns()
	res.Table.Each(func(r table.Row) {
		chart.Rows = append(chart.Rows, r.Cells())
	})
	chart.Notes = res.Notes
	return chart
}

func placeholder(chart Chart, err error) Chart {
	chart.Error = err.Error()
	var mc *domain.MissingColumnError
	switch {
	case errors.As(err, &mc):
		chart.Placeholder = fmt.Sprintf("Not available: the data has no %q column", mc.Column)
	case errors.Is(err, domain.ErrDataUnavailable):
		chart.Placeholder = "No data available"
	default:
		chart.Placeholder = "This chart could not be computed"
	}
	return chart
}
