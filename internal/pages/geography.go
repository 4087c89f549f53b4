package pages

import (
	"strings"

	"github.com/cesargomez89/netflix-insights/internal/aggregate"
	"github.com/cesargomez89/netflix-insights/internal/catalog"
	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/explode"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

func geographyPage() Page {
	return Page{
		Name:  "geography",
		Title: "Geographic Insights",
		Theme: Theme{
			Palette: []string{
				"#E50914", "#B20710", "#800000", "#A52A2A", "#CD853F",
				"#D2B48C", "#F5DEB3", "#DEB887", "#BC8F8F", "#A9A9A9", "#696969",
			},
			Background: "#0C0C0C",
			Layout:     "cards",
		},
		Charts: []ChartSpec{
			{ID: "country-top", Title: "Top Country Contribution", Kind: KindPie, Build: countryTop},
			{ID: "movie-country-share", Title: "Movies: % of Titles per Country", Kind: KindMap, Build: countryShareOf(constants.TypeMovie)},
			{ID: "tv-country-share", Title: "TV Shows: % of Titles per Country", Kind: KindMap, Build: countryShareOf(constants.TypeTVShow)},
			{ID: "country-top-genre", Title: "Top Genre per Country by Type", Kind: KindMap, Build: countryTopGenre},
			{ID: "international-top", Title: "Top International Countries", Kind: KindBar, Build: internationalTop},
			{ID: "international-by-type", Title: "Country vs Content Type", Kind: KindGroupedBar, Build: internationalByType},
			{ID: "origin-by-year", Title: "Growth Over Time, Domestic vs International", Kind: KindLine, Build: originByYear},
			{ID: "rating-by-origin", Title: "Rating Distribution by Origin", Kind: KindGroupedBar, Build: ratingByOrigin},
		},
	}
}

func countryTop(c *catalog.Catalog, p Params) (Result, error) {
	countries, err := explode.Explode(c.Derived, constants.ColCountry)
	if err != nil {
		return Result{}, err
	}
	counts, err := aggregate.Count(countries, constants.ColCountry)
	if err != nil {
		return Result{}, err
	}
	top, err := aggregate.TopN(counts, p.TopN)
	if err != nil {
		return Result{}, err
	}
	shares, err := aggregate.Percent(top)
	if err != nil {
		return Result{}, err
	}
	return Result{Table: shares.Table()}, nil
}

func countryShareOf(typ string) BuildFunc {
	return func(c *catalog.Catalog, _ Params) (Result, error) {
		t, err := ofType(c.Derived, typ)
		if err != nil {
			return Result{}, err
		}
		countries, err := explode.Explode(t, constants.ColCountry)
		if err != nil {
			return Result{}, err
		}
		counts, err := aggregate.Count(countries, constants.ColCountry)
		if err != nil {
			return Result{}, err
		}
		shares, err := aggregate.Percent(counts)
		if err != nil {
			return Result{}, err
		}
		return Result{Table: shares.Table()}, nil
	}
}

// countryTopGenre picks the most frequent genre per country and type.
func countryTopGenre(c *catalog.Catalog, _ Params) (Result, error) {
	ex, err := explode.ExplodeAll(c.Derived, constants.ColCountry, constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	counts, err := aggregate.Count(ex, constants.ColType, constants.ColCountry, constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	top, err := aggregate.TopPerGroup(counts, constants.ColListedIn, constants.ColType, constants.ColCountry)
	if err != nil {
		return Result{}, err
	}
	return Result{Table: top.Table(), Notes: tieNotes(top)}, nil
}

// abroad keeps rows whose country is known and not "unknown".
func abroad(t *table.Table) (*table.Table, error) {
	if err := t.Require("origin", constants.ColCountry); err != nil {
		return nil, err
	}
	return t.Filter(func(r table.Row) bool {
		s, ok := r.Get(constants.ColCountry).AsString()
		return ok && !sameFold(s, "unknown")
	}), nil
}

func internationalTop(c *catalog.Catalog, p Params) (Result, error) {
	home := c.Settings.HomeCountry
	t, err := abroad(c.Derived)
	if err != nil {
		return Result{}, err
	}
	countries, err := explode.Explode(t, constants.ColCountry)
	if err != nil {
		return Result{}, err
	}
	countries = countries.Filter(func(r table.Row) bool {
		s, _ := r.Get(constants.ColCountry).AsString()
		return !sameFold(s, home)
	})
	counts, err := aggregate.Count(countries, constants.ColCountry)
	if err != nil {
		return Result{}, err
	}
	return Result{Table: aggregate.Top(counts, p.TopN).Table()}, nil
}

// internationalByType splits the leading non-home primary countries by type.
func internationalByType(c *catalog.Catalog, p Params) (Result, error) {
	home := strings.ToLower(c.Settings.HomeCountry)
	t, err := abroad(c.Derived)
	if err != nil {
		return Result{}, err
	}
	if err := t.Require("international by type", constants.ColPrimaryCountry); err != nil {
		return Result{}, err
	}
	t = t.Filter(func(r table.Row) bool {
		s, ok := r.Get(constants.ColPrimaryCountry).AsString()
		return ok && (home == "" || !strings.Contains(strings.ToLower(s), home))
	})
	totals, err := aggregate.Count(t, constants.ColPrimaryCountry)
	if err != nil {
		return Result{}, err
	}
	top, err := aggregate.Top(totals, p.TopN).Values(constants.ColPrimaryCountry)
	if err != nil {
		return Result{}, err
	}
	counts, err := aggregate.Count(keyIn(t, constants.ColPrimaryCountry, top), constants.ColPrimaryCountry, constants.ColType)
	if err != nil {
		return Result{}, err
	}
	return tableResult(aggregate.Pivot(counts, constants.ColPrimaryCountry, constants.ColType))
}

func originByYear(c *catalog.Catalog, _ Params) (Result, error) {
	t, err := abroad(c.Derived)
	if err != nil {
		return Result{}, err
	}
	counts, err := aggregate.Count(t, constants.ColYearAdded, constants.ColContentOrigin)
	if err != nil {
		return Result{}, err
	}
	s, err := aggregate.SeriesOf(counts, constants.ColYearAdded, constants.ColContentOrigin)
	if err != nil {
		return Result{}, err
	}
	return Result{Table: s.Table()}, nil
}

func ratingByOrigin(c *catalog.Catalog, _ Params) (Result, error) {
	t, err := abroad(c.Derived)
	if err != nil {
		return Result{}, err
	}
	counts, err := aggregate.Count(t, constants.ColRating, constants.ColContentOrigin)
	if err != nil {
		return Result{}, err
	}
	return tableResult(aggregate.Pivot(counts, constants.ColRating, constants.ColContentOrigin))
}
