package dataset

import (
	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/derive"
	"github.com/cesargomez89/netflix-insights/internal/domain"
	"github.com/cesargomez89/netflix-insights/internal/explode"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

// Titles converts table rows into typed records. Absent columns leave the
// corresponding field empty.
func Titles(t *table.Table) []domain.Title {
	out := make([]domain.Title, 0, t.Len())
	t.Each(func(r table.Row) {
		out = append(out, TitleOf(r))
	})
	return out
}

// TitleOf converts a single row.
func TitleOf(r table.Row) domain.Title {
	str := func(col string) string {
		s, _ := r.Get(col).AsString()
		return s
	}
	title := domain.Title{
		ShowID:      str(constants.ColShowID),
		Title:       str(constants.ColTitle),
		Type:        domain.ContentType(str(constants.ColType)),
		Director:    str(constants.ColDirector),
		Cast:        explode.Split(str(constants.ColCast)),
		Countries:   explode.Split(str(constants.ColCountry)),
		Genres:      explode.Split(str(constants.ColListedIn)),
		Rating:      str(constants.ColRating),
		Duration:    str(constants.ColDuration),
		Description: str(constants.ColDescription),
	}
	if y, ok := r.Get(constants.ColReleaseYear).AsInt(); ok {
		title.ReleaseYear = y
	}
	if at, ok := r.Get(constants.ColDateAddedAt).AsTime(); ok {
		title.DateAdded = &at
	} else if raw := str(constants.ColDateAdded); raw != "" {
		if at, err := derive.ParseDateAdded(raw); err == nil {
			title.DateAdded = &at
		}
	}
	return title
}
