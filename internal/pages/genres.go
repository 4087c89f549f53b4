package pages

import (
	"github.com/cesargomez89/netflix-insights/internal/aggregate"
	"github.com/cesargomez89/netflix-insights/internal/catalog"
	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/explode"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

const (
	colLabel      = "label"
	colRatingMode = "dominant_rating"
)

func genresPage() Page {
	return Page{
		Name:  "genres",
		Title: "Genre and Category Intelligence",
		Theme: Theme{
			Palette:    []string{"#B00610", "#E50914", "#FF6F61", "#FF8A80", "#FFB3B3"},
			Background: "#111111",
			Layout:     "cards",
		},
		Charts: []ChartSpec{
			{ID: "country-genre", Title: "Top Genre per Country and Their Dominant Rating", Kind: KindBar, Build: countryGenre},
			{ID: "genre-trends", Title: "Titles Added per Year, Top Genres", Kind: KindLine, Build: genreTrends},
			{ID: "genre-rating", Title: "Genre vs Rating Spread", Kind: KindTable, Build: genreRating},
			{ID: "decade-by-type", Title: "Releases by Decade", Kind: KindGroupedBar, Build: decadeByType},
		},
	}
}

// countryGenre ranks each country's leading genre and attaches the rating
// most common among that country's titles in that genre.
func countryGenre(c *catalog.Catalog, _ Params) (Result, error) {
	d := c.Derived
	if err := d.Require("country genre", constants.ColRating); err != nil {
		return Result{}, err
	}
	rated := d.Filter(func(r table.Row) bool { return !r.Get(constants.ColRating).IsNull() })
	ex, err := explode.ExplodeAll(rated, constants.ColCountry, constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	counts, err := aggregate.Count(ex, constants.ColCountry, constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	top, err := aggregate.TopPerGroup(counts, constants.ColListedIn, constants.ColCountry)
	if err != nil {
		return Result{}, err
	}
	modes, err := aggregate.Mode(ex, constants.ColRating, constants.ColCountry, constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	rating := make(map[[2]string]table.Value, len(modes.Rows))
	for _, r := range modes.Rows {
		rating[[2]string{r.Key[0].String(), r.Key[1].String()}] = r.Key[2]
	}

	b := table.NewBuilder([]string{constants.ColCountry, constants.ColListedIn, colLabel, aggregate.CountColumn, colRatingMode})
	for _, r := range aggregate.Top(top, constants.CountryGenreTopN).Rows {
		country, genre := r.Key[0].String(), r.Key[1].String()
		b.Append([]table.Value{
			r.Key[0], r.Key[1],
			table.StringValue(country + " - " + genre),
			table.IntValue(r.Count),
			rating[[2]string{country, genre}],
		})
	}
	t, err := b.Build()
	if err != nil {
		return Result{}, err
	}
	return Result{Table: t, Notes: append(tieNotes(top), tieNotes(modes)...)}, nil
}

// genreTrends counts distinct titles per year for the leading genres, over a
// contiguous range of addition years.
func genreTrends(c *catalog.Catalog, _ Params) (Result, error) {
	d := c.Derived
	idCol := constants.ColShowID
	if !d.HasColumn(idCol) {
		idCol = constants.ColTitle
	}
	ex, err := explode.Explode(d, constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	totals, err := aggregate.NUnique(ex, idCol, constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	top, err := aggregate.Top(totals, constants.GenreTrendTopN).Values(constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	yearly, err := aggregate.NUnique(keyIn(ex, constants.ColListedIn, top), idCol, constants.ColYearAdded, constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	s, err := aggregate.SeriesOf(yearly, constants.ColYearAdded, constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	if len(s.Index) > 0 {
		s = aggregate.FillYears(s, s.Index[0], s.Index[len(s.Index)-1])
	}
	names := make([]string, len(top))
	for i, v := range top {
		names[i] = v.String()
	}
	return Result{Table: s.Select(names...).Table()}, nil
}

func genreRating(c *catalog.Catalog, p Params) (Result, error) {
	ex, err := explode.Explode(c.Derived, constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	totals, err := aggregate.Count(ex, constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	top, err := aggregate.Top(totals, p.TopN).Values(constants.ColListedIn)
	if err != nil {
		return Result{}, err
	}
	counts, err := aggregate.Count(keyIn(ex, constants.ColListedIn, top), constants.ColListedIn, constants.ColRating)
	if err != nil {
		return Result{}, err
	}
	return tableResult(aggregate.Pivot(counts, constants.ColListedIn, constants.ColRating))
}

func decadeByType(c *catalog.Catalog, _ Params) (Result, error) {
	counts, err := aggregate.Count(c.Derived, constants.ColDecade, constants.ColType)
	if err != nil {
		return Result{}, err
	}
	return tableResult(aggregate.Pivot(counts, constants.ColDecade, constants.ColType))
}
