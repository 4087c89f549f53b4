package pages

import (
	"fmt"

	"github.com/cesargomez89/netflix-insights/internal/aggregate"
	"github.com/cesargomez89/netflix-insights/internal/catalog"
	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/domain"
	"github.com/cesargomez89/netflix-insights/internal/enrich"
	"github.com/cesargomez89/netflix-insights/internal/explode"
)

func talentPage() Page {
	return Page{
		Name:  "talent",
		Title: "Creator & Talent Hub",
		Theme: Theme{
			Palette:    []string{"#E50914", "#B3B3B3", "#FFFFFF"},
			Background: "#000000",
			Layout:     "two-column",
		},
		Charts: []ChartSpec{
			{ID: "top-directors", Title: "Most Prolific Directors", Kind: KindBar, Build: mostFrequent(constants.ColDirector)},
			{ID: "top-cast", Title: "Most Frequent Cast Members", Kind: KindBar, Build: mostFrequent(constants.ColCast)},
			{ID: "director-scores", Title: "Average IMDb Score by Director", Kind: KindBar, Build: meanScore(constants.ColDirector)},
			{ID: "cast-scores", Title: "Average IMDb Score by Cast Member", Kind: KindBar, Build: meanScore(constants.ColCast)},
			{ID: "movie-length", Title: "Average Movie Length by Decade", Kind: KindBar, Build: movieLength},
		},
	}
}

func mostFrequent(column string) BuildFunc {
	return func(c *catalog.Catalog, p Params) (Result, error) {
		ex, err := explode.Explode(c.Derived, column)
		if err != nil {
			return Result{}, err
		}
		counts, err := aggregate.Count(ex, column)
		if err != nil {
			return Result{}, err
		}
		return Result{Table: aggregate.Top(counts, p.TopN).Table()}, nil
	}
}

// meanScore joins external ratings by title and averages them per person.
func meanScore(column string) BuildFunc {
	return func(c *catalog.Catalog, p Params) (Result, error) {
		if !c.HasRatings() {
			return Result{}, fmt.Errorf("%w: no ratings loaded", domain.ErrDataUnavailable)
		}
		scored, err := enrich.JoinScores(c.Derived, c.Ratings, constants.ColTitle)
		if err != nil {
			return Result{}, err
		}
		ex, err := explode.Explode(scored, column)
		if err != nil {
			return Result{}, err
		}
		m, err := aggregate.Mean(ex, constants.ColScore, column)
		if err != nil {
			return Result{}, err
		}
		return Result{Table: m.SortByValue().Table().Head(p.TopN)}, nil
	}
}

func movieLength(c *catalog.Catalog, _ Params) (Result, error) {
	movies, err := ofType(c.Derived, constants.TypeMovie)
	if err != nil {
		return Result{}, err
	}
	m, err := aggregate.Mean(movies, constants.ColDurationMinutes, constants.ColDecade)
	if err != nil {
		return Result{}, err
	}
	return Result{Table: m.Table()}, nil
}
