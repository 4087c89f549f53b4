// Package derive computes secondary title attributes from primary ones.
// Missing or unparsable inputs yield an undefined result, never a default.
package derive

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cesargomez89/netflix-insights/internal/domain"
	"github.com/cesargomez89/netflix-insights/internal/explode"
)

type Season string

const (
	SeasonQ1 Season = "Q1"
	SeasonQ2 Season = "Q2"
	SeasonQ3 Season = "Q3"
	SeasonQ4 Season = "Q4"
)

// Seasons lists the buckets in calendar order.
var Seasons = []Season{SeasonQ1, SeasonQ2, SeasonQ3, SeasonQ4}

// Label returns the month-initial name used on charts.
func (s Season) Label() string {
	switch s {
	case SeasonQ1:
		return "JFM"
	case SeasonQ2:
		return "AMJ"
	case SeasonQ3:
		return "JAS"
	case SeasonQ4:
		return "OND"
	}
	return ""
}

// SeasonBucket maps a calendar month to its quarter. It is defined for every
// month 1..12 and undefined otherwise.
func SeasonBucket(month int) (Season, bool) {
	if month < 1 || month > 12 {
		return "", false
	}
	return Seasons[(month-1)/3], true
}

// LagPolicy bounds plausible release-to-addition lags.
type LagPolicy struct {
	Enabled bool
	MinDays int
	MaxDays int
}

// LagDays returns the days between dateAdded and January 1 of releaseYear.
// The result is undefined when either input is missing or, with the policy
// enabled, when it falls outside [MinDays, MaxDays].
func LagDays(dateAdded *time.Time, releaseYear *int, p LagPolicy) (int, bool) {
	if dateAdded == nil || releaseYear == nil {
		return 0, false
	}
	added := time.Date(dateAdded.Year(), dateAdded.Month(), dateAdded.Day(), 0, 0, 0, 0, time.UTC)
	release := time.Date(*releaseYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := int(added.Sub(release).Hours() / 24)
	if p.Enabled && (days < p.MinDays || days > p.MaxDays) {
		return 0, false
	}
	return days, true
}

type Origin string

const (
	OriginDomestic      Origin = "Domestic"
	OriginInternational Origin = "International"
)

// ContentOrigin classifies a title by its primary country. An empty country
// is undefined and must not be coerced into either bucket.
func ContentOrigin(primaryCountry, home string) (Origin, bool) {
	if primaryCountry == "" {
		return "", false
	}
	if primaryCountry == home {
		return OriginDomestic, true
	}
	return OriginInternational, true
}

// PrimaryCountry returns the first token of a raw multi-value country string.
func PrimaryCountry(raw string) (string, bool) {
	tokens := explode.Split(raw)
	if len(tokens) == 0 {
		return "", false
	}
	return tokens[0], true
}

// Decade labels a year by its decade, e.g. 2017 -> "2010s".
func Decade(year int) string {
	return strconv.Itoa(year-((year%10)+10)%10) + "s"
}

var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
	"2 January 2006",
}

// ParseDateAdded parses the catalog's date_added formats into a UTC date.
func ParseDateAdded(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &domain.MalformedValueError{Column: "date_added", Value: raw}
}

var durationRe = regexp.MustCompile(`^(\d+)\s*(min|mins|minutes|season|seasons)$`)

// ParseDuration reads "90 min" or "2 Seasons". Exactly one of minutes and
// seasons is non-zero on success.
func ParseDuration(raw string) (minutes, seasons int, err error) {
	m := durationRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(raw)))
	if m == nil {
		return 0, 0, &domain.MalformedValueError{Column: "duration", Value: raw}
	}
	n, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return 0, 0, &domain.MalformedValueError{Column: "duration", Value: raw, Err: convErr}
	}
	if strings.HasPrefix(m[2], "min") {
		return n, 0, nil
	}
	if n == 0 {
		return 0, 0, &domain.MalformedValueError{Column: "duration", Value: raw, Err: errors.New("zero seasons")}
	}
	return 0, n, nil
}
