package pages

import (
	"github.com/cesargomez89/netflix-insights/internal/aggregate"
	"github.com/cesargomez89/netflix-insights/internal/catalog"
	"github.com/cesargomez89/netflix-insights/internal/constants"
)

func overviewPage() Page {
	return Page{
		Name:  "overview",
		Title: "Executive Overview",
		Theme: Theme{
			Palette:    []string{"#66C2A5", "#FC8D62", "#8DA0CB", "#E78AC3", "#A6D854", "#FFD92F", "#E5C494", "#B3B3B3"},
			Background: "#F8F8F8",
			Layout:     "wide",
		},
		Charts: []ChartSpec{
			{ID: "type-split", Title: "Distribution of Movies vs TV Shows", Kind: KindPie, Build: typeSplit},
			{ID: "releases-by-year", Title: "Year-on-Year Content Production", Kind: KindGroupedBar, Build: releasesByYear},
		},
	}
}

func typeSplit(c *catalog.Catalog, _ Params) (Result, error) {
	counts, err := aggregate.Count(c.Base, constants.ColType)
	if err != nil {
		return Result{}, err
	}
	shares, err := aggregate.Percent(counts)
	if err != nil {
		return Result{}, err
	}
	return Result{Table: shares.Table()}, nil
}

func releasesByYear(c *catalog.Catalog, _ Params) (Result, error) {
	counts, err := aggregate.Count(c.Derived, constants.ColReleaseYear, constants.ColType)
	if err != nil {
		return Result{}, err
	}
	return tableResult(aggregate.Pivot(counts, constants.ColReleaseYear, constants.ColType))
}
