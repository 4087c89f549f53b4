package derive

import (
	"errors"
	"time"

	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/domain"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

// Report counts cells that failed to parse and derivations that could not
// run because their input column was absent.
type Report struct {
	Malformed map[string]int `json:"malformed,omitempty"`
	Skipped   []string       `json:"skipped,omitempty"`
}

func (r *Report) malformed(column string) {
	if r == nil {
		return
	}
	if r.Malformed == nil {
		r.Malformed = make(map[string]int)
	}
	r.Malformed[column]++
}

// TotalMalformed sums malformed cells across columns.
func (r *Report) TotalMalformed() int {
	n := 0
	for _, c := range r.Malformed {
		n += c
	}
	return n
}

// WithDateParts parses date_added into date_added_at, year_added and month_added.
func WithDateParts(t *table.Table, rep *Report) (*table.Table, error) {
	if err := t.Require("date parts", constants.ColDateAdded); err != nil {
		return nil, err
	}
	cols := []string{constants.ColDateAddedAt, constants.ColYearAdded, constants.ColMonthAdded}
	return t.WithColumns(cols, func(r table.Row) []table.Value {
		v := r.Get(constants.ColDateAdded)
		at, ok := v.AsTime()
		if !ok {
			raw, isStr := v.AsString()
			if !isStr {
				return []table.Value{table.Null(), table.Null(), table.Null()}
			}
			parsed, err := ParseDateAdded(raw)
			if err != nil {
				rep.malformed(constants.ColDateAdded)
				return []table.Value{table.Null(), table.Null(), table.Null()}
			}
			at = parsed
		}
		return []table.Value{table.TimeValue(at), table.IntValue(at.Year()), table.IntValue(int(at.Month()))}
	}), nil
}

// WithSeason buckets month_added into a quarter.
func WithSeason(t *table.Table) (*table.Table, error) {
	if err := t.Require("season", constants.ColMonthAdded); err != nil {
		return nil, err
	}
	return t.WithColumn(constants.ColSeason, func(r table.Row) table.Value {
		m, ok := r.Get(constants.ColMonthAdded).AsInt()
		if !ok {
			return table.Null()
		}
		s, ok := SeasonBucket(m)
		if !ok {
			return table.Null()
		}
		return table.StringValue(string(s))
	}), nil
}

// WithLagDays adds lag_days under the given plausibility policy.
func WithLagDays(t *table.Table, p LagPolicy) (*table.Table, error) {
	if err := t.Require("lag days", constants.ColDateAddedAt, constants.ColReleaseYear); err != nil {
		return nil, err
	}
	return t.WithColumn(constants.ColLagDays, func(r table.Row) table.Value {
		var added *time.Time
		if at, ok := r.Get(constants.ColDateAddedAt).AsTime(); ok {
			added = &at
		}
		var year *int
		if y, ok := r.Get(constants.ColReleaseYear).AsInt(); ok {
			year = &y
		}
		days, ok := LagDays(added, year, p)
		if !ok {
			return table.Null()
		}
		return table.IntValue(days)
	}), nil
}

// WithPrimaryCountry adds the first listed country of each title.
func WithPrimaryCountry(t *table.Table) (*table.Table, error) {
	if err := t.Require("primary country", constants.ColCountry); err != nil {
		return nil, err
	}
	return t.WithColumn(constants.ColPrimaryCountry, func(r table.Row) table.Value {
		raw, ok := r.Get(constants.ColCountry).AsString()
		if !ok {
			return table.Null()
		}
		c, ok := PrimaryCountry(raw)
		if !ok {
			return table.Null()
		}
		return table.StringValue(c)
	}), nil
}

// WithContentOrigin classifies primary_country against the home market.
func WithContentOrigin(t *table.Table, home string) (*table.Table, error) {
	if err := t.Require("content origin", constants.ColPrimaryCountry); err != nil {
		return nil, err
	}
	return t.WithColumn(constants.ColContentOrigin, func(r table.Row) table.Value {
		c, _ := r.Get(constants.ColPrimaryCountry).AsString()
		o, ok := ContentOrigin(c, home)
		if !ok {
			return table.Null()
		}
		return table.StringValue(string(o))
	}), nil
}

func WithDecade(t *table.Table) (*table.Table, error) {
	if err := t.Require("decade", constants.ColReleaseYear); err != nil {
		return nil, err
	}
	return t.WithColumn(constants.ColDecade, func(r table.Row) table.Value {
		y, ok := r.Get(constants.ColReleaseYear).AsInt()
		if !ok {
			return table.Null()
		}
		return table.StringValue(Decade(y))
	}), nil
}

// WithDuration splits duration into duration_minutes (movies) and
// season_count (shows).
func WithDuration(t *table.Table, rep *Report) (*table.Table, error) {
	if err := t.Require("duration", constants.ColDuration); err != nil {
		return nil, err
	}
	cols := []string{constants.ColDurationMinutes, constants.ColSeasonCount}
	return t.WithColumns(cols, func(r table.Row) []table.Value {
		raw, ok := r.Get(constants.ColDuration).AsString()
		if !ok {
			return []table.Value{table.Null(), table.Null()}
		}
		minutes, seasons, err := ParseDuration(raw)
		if err != nil {
			rep.malformed(constants.ColDuration)
			return []table.Value{table.Null(), table.Null()}
		}
		if seasons > 0 {
			return []table.Value{table.Null(), table.IntValue(seasons)}
		}
		return []table.Value{table.IntValue(minutes), table.Null()}
	}), nil
}

// Config parameterizes Pipeline.
type Config struct {
	HomeCountry string
	Lag         LagPolicy
}

// Pipeline applies every derivation in dependency order. A derivation whose
// input column is absent is skipped and recorded; its output column is then
// absent too, so downstream aggregates report MissingColumn.
func Pipeline(t *table.Table, cfg Config) (*table.Table, Report) {
	var rep Report
	steps := []struct {
		name string
		fn   func(*table.Table) (*table.Table, error)
	}{
		{constants.ColDateAddedAt, func(t *table.Table) (*table.Table, error) { return WithDateParts(t, &rep) }},
		{constants.ColSeason, WithSeason},
		{constants.ColLagDays, func(t *table.Table) (*table.Table, error) { return WithLagDays(t, cfg.Lag) }},
		{constants.ColPrimaryCountry, WithPrimaryCountry},
		{constants.ColContentOrigin, func(t *table.Table) (*table.Table, error) { return WithContentOrigin(t, cfg.HomeCountry) }},
		{constants.ColDecade, WithDecade},
		{constants.ColDurationMinutes, func(t *table.Table) (*table.Table, error) { return WithDuration(t, &rep) }},
	}

	out := t
	for _, s := range steps {
		next, err := s.fn(out)
		if err != nil {
			if errors.Is(err, domain.ErrMissingColumn) {
				rep.Skipped = append(rep.Skipped, s.name)
			}
			continue
		}
		out = next
	}
	return out, rep
}
