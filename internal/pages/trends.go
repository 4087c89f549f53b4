package pages

import (
	"slices"

	"github.com/cesargomez89/netflix-insights/internal/aggregate"
	"github.com/cesargomez89/netflix-insights/internal/catalog"
	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/explode"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

const rollingMeanLine = "rolling_mean"

func trendsPage() Page {
	return Page{
		Name:  "trends",
		Title: "Trend Intelligence",
		Theme: Theme{
			Palette:    []string{"#E50914", "#F6602E", "#B00610", "#8B0000", "#FF5C5C", "#FF7F7F", "#FF9999"},
			Font:       "Times New Roman",
			Background: "#F0F0F0",
			Layout:     "two-column",
		},
		Charts: []ChartSpec{
			{ID: "season-by-type", Title: "Titles Added per Season, Movies vs TV Shows", Kind: KindGroupedBar, Build: seasonByType},
			{ID: "season-top-genres", Title: "Seasonal Additions by Top Genres", Kind: KindGroupedBar, Build: seasonTopGenres},
			{ID: "growth", Title: "Netflix Content Growth Over Years", Kind: KindLine, Build: growth},
			{ID: "unique-countries", Title: "Unique Countries per Release Year", Kind: KindLine, Build: uniqueCountries},
			{ID: "avg-lag", Title: "Average Release-to-Addition Lag", Kind: KindLine, Build: averageLag},
			{ID: "additions-delta", Title: "Year-over-Year Change in Additions", Kind: KindBar, Build: additionsDelta},
			{ID: "type-share", Title: "Movie vs TV Show Share by Release Year", Kind: KindLine, Build: typeShare},
			{ID: "type-growth", Title: "Release Growth Rate by Type", Kind: KindLine, Build: typeGrowth},
			{ID: "season-volume", Title: "Season-Adjusted Release Volume", Kind: KindBar, Build: seasonVolume},
		},
	}
}

// addedTitles keeps titles with a known addition date outside the partial
// final year.
func addedTitles(c *catalog.Catalog) (*table.Table, error) {
	d := c.Derived
	if err := d.Require("trends", constants.ColYearAdded); err != nil {
		return nil, err
	}
	return d.Filter(func(r table.Row) bool {
		y, ok := r.Get(constants.ColYearAdded).AsInt()
		return ok && y != constants.PartialYearAdded
	}), nil
}

func seasonByType(c *catalog.Catalog, _ Params) (Result, error) {
	t, err := addedTitles(c)
	if err != nil {
		return Result{}, err
	}
	counts, err := aggregate.Count(t, constants.ColSeason, constants.ColType)
	if err != nil {
		return Result{}, err
	}
	pivot, err := aggregate.Pivot(counts, constants.ColSeason, constants.ColType)
	if err != nil {
		return Result{}, err
	}
	return Result{Table: seasonLabels(pivot)}, nil
}

func seasonTopGenres(c *catalog.Catalog, _ Params) (Result, error) {
	t, err := addedTitles(c)
	if err != nil {
		return Result{}, err
	}
	genres, err := explode.Explode(t, constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	totals, err := aggregate.Count(genres, constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	top, err := aggregate.Top(totals, constants.SeasonTopGenres).Values(constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	counts, err := aggregate.Count(keyIn(genres, constants.ColListedIn, top), constants.ColSeason, constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	pivot, err := aggregate.Pivot(counts, constants.ColSeason, constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	return Result{Table: seasonLabels(pivot)}, nil
}

// growth is titles per release year with a centered rolling mean beside it.
func growth(c *catalog.Catalog, p Params) (Result, error) {
	t, err := addedTitles(c)
	if err != nil {
		return Result{}, err
	}
	counts, err := aggregate.Count(t, constants.ColReleaseYear)
	if err != nil {
		return Result{}, err
	}
	s, err := aggregate.SeriesOf(counts, constants.ColReleaseYear, "")
	if err != nil {
		return Result{}, err
	}
	s = s.Since(constants.GrowthSinceYear)
	if len(s.Lines) == 0 {
		return Result{Table: s.Table()}, nil
	}
	smooth, err := aggregate.RollingMean(s, p.Window)
	if err != nil {
		return Result{}, err
	}
	s.Lines = append(s.Lines, aggregate.Line{Name: rollingMeanLine, Values: smooth.Lines[0].Values})
	return Result{Table: s.Table()}, nil
}

func uniqueCountries(c *catalog.Catalog, _ Params) (Result, error) {
	t, err := addedTitles(c)
	if err != nil {
		return Result{}, err
	}
	counts, err := aggregate.NUnique(t, constants.ColCountry, constants.ColReleaseYear)
	if err != nil {
		return Result{}, err
	}
	s, err := aggregate.SeriesOf(counts, constants.ColReleaseYear, "")
	if err != nil {
		return Result{}, err
	}
	return Result{Table: renameLine(s.Since(constants.GrowthSinceYear), aggregate.CountColumn, "unique_countries").Table()}, nil
}

func averageLag(c *catalog.Catalog, _ Params) (Result, error) {
	t, err := addedTitles(c)
	if err != nil {
		return Result{}, err
	}
	m, err := aggregate.Mean(t, constants.ColLagDays, constants.ColYearAdded, constants.ColType)
	if err != nil {
		return Result{}, err
	}
	return Result{Table: m.Table()}, nil
}

func additionsDelta(c *catalog.Catalog, _ Params) (Result, error) {
	t, err := addedTitles(c)
	if err != nil {
		return Result{}, err
	}
	counts, err := aggregate.Count(t, constants.ColYearAdded, constants.ColType)
	if err != nil {
		return Result{}, err
	}
	s, err := aggregate.SeriesOf(counts, constants.ColYearAdded, constants.ColType)
	if err != nil {
		return Result{}, err
	}
	return Result{Table: aggregate.YoYDelta(s).Table()}, nil
}

func releasesByType(c *catalog.Catalog) (*aggregate.Series, error) {
	counts, err := aggregate.Count(c.Derived, constants.ColReleaseYear, constants.ColType)
	if err != nil {
		return nil, err
	}
	s, err := aggregate.SeriesOf(counts, constants.ColReleaseYear, constants.ColType)
	if err != nil {
		return nil, err
	}
	return s.Select(constants.TypeMovie, constants.TypeTVShow), nil
}

func typeShare(c *catalog.Catalog, _ Params) (Result, error) {
	s, err := releasesByType(c)
	if err != nil {
		return Result{}, err
	}
	return Result{Table: aggregate.ShareOfTotal(s).Since(constants.TypeShareSinceYear).Table()}, nil
}

func typeGrowth(c *catalog.Catalog, _ Params) (Result, error) {
	s, err := releasesByType(c)
	if err != nil {
		return Result{}, err
	}
	return Result{Table: aggregate.PctChange(s).Since(constants.TypeGrowthSinceYear).Table()}, nil
}

// seasonVolume counts every TV season as a release and adds min-max
// normalized lines so both types share a scale.
func seasonVolume(c *catalog.Catalog, _ Params) (Result, error) {
	d := c.Derived
	from, to, ok := aggregate.YearRange(d, constants.ColReleaseYear)
	if !ok {
		// no release years at all: an empty range still checks the columns
		from, to = 1, 0
	}
	s, err := aggregate.SeasonAdjustedVolume(d, from, to)
	if err != nil {
		return Result{}, err
	}
	s = s.Since(constants.VolumeSinceYear)
	for _, l := range slices.Clone(s.Lines) {
		raw := make([]float64, len(l.Values))
		for i, v := range l.Values {
			raw[i] = *v
		}
		norm := aggregate.MinMaxNormalize(raw)
		vals := make([]*float64, len(norm))
		for i := range norm {
			vals[i] = &norm[i]
		}
		s.Lines = append(s.Lines, aggregate.Line{Name: l.Name + " normalized", Values: vals})
	}
	return Result{Table: s.Table()}, nil
}
