package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/cesargomez89/netflix-insights/internal/filter"
	"github.com/cesargomez89/netflix-insights/internal/pages"
	"github.com/cesargomez89/netflix-insights/internal/search"
)

const (
	DefaultPageSize   = 50
	DefaultTopResults = 10
)

// PageQuery holds the chart knobs of /api/pages/{name}.
type PageQuery struct {
	Top    int `query:"top" validate:"omitempty,min=1,max=100"`
	Window int `query:"window" validate:"omitempty,min=1,max=25"`
}

func (q PageQuery) Params() pages.Params {
	return pages.Params{TopN: q.Top, Window: q.Window}
}

// TitlesQuery holds the explorer widgets of /api/titles.
type TitlesQuery struct {
	Type     string `query:"type" validate:"max=50"`
	Rating   string `query:"rating" validate:"max=50"`
	Year     string `query:"year" validate:"filteryear"`
	Title    string `query:"title" validate:"max=200"`
	Cast     string `query:"cast" validate:"max=200"`
	Director string `query:"director" validate:"max=200"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=500"`
}

func (q TitlesQuery) Criteria() filter.Criteria {
	return filter.Criteria{
		Type:     q.Type,
		Rating:   q.Rating,
		Year:     q.Year,
		Title:    q.Title,
		Cast:     q.Cast,
		Director: q.Director,
	}
}

type SearchQuery struct {
	Q     string `query:"q" validate:"required,max=200"`
	Type  string `query:"type" validate:"omitempty,oneof=Movie 'TV Show'"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=50"`
}

func (q SearchQuery) Params() search.Params {
	return search.Params{Query: q.Q, Type: q.Type, Limit: q.Limit}
}

type TopQuery struct {
	Column string `query:"column" validate:"required,max=100"`
	N      int    `query:"n" validate:"omitempty,min=1,max=100"`
}

// queryReader collects integer parse failures while reading values.
type queryReader struct {
	values url.Values
	errs   ValidationErrors
}

func (r *queryReader) str(key string) string {
	return strings.TrimSpace(r.values.Get(key))
}

func (r *queryReader) num(key string) int {
	raw := r.str(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		r.errs = append(r.errs, ValidationError{Field: key, Message: "must be a whole number"})
		return 0
	}
	return n
}

func (r *queryReader) finish(v *Validator, q any) error {
	if len(r.errs) > 0 {
		return r.errs
	}
	return v.Validate(q)
}

func ParsePageQuery(v *Validator, values url.Values) (PageQuery, error) {
	r := &queryReader{values: values}
	q := PageQuery{Top: r.num("top"), Window: r.num("window")}
	return q, r.finish(v, q)
}

func ParseTitlesQuery(v *Validator, values url.Values) (TitlesQuery, error) {
	r := &queryReader{values: values}
	q := TitlesQuery{
		Type:     r.str("type"),
		Rating:   r.str("rating"),
		Year:     r.str("year"),
		Title:    r.str("title"),
		Cast:     r.str("cast"),
		Director: r.str("director"),
		Page:     r.num("page"),
		Limit:    r.num("limit"),
	}
	return q, r.finish(v, q)
}

func ParseSearchQuery(v *Validator, values url.Values) (SearchQuery, error) {
	r := &queryReader{values: values}
	q := SearchQuery{Q: r.str("q"), Type: r.str("type"), Limit: r.num("limit")}
	return q, r.finish(v, q)
}

func ParseTopQuery(v *Validator, values url.Values) (TopQuery, error) {
	r := &queryReader{values: values}
	q := TopQuery{Column: r.str("column"), N: r.num("n")}
	if q.N == 0 && len(r.errs) == 0 {
		q.N = DefaultTopResults
	}
	return q, r.finish(v, q)
}
