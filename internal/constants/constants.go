// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort            = "8080"
	DefaultDBPath          = "netflix-insights.db"
	DefaultDatasetPath     = "netflix_titles.csv"
	DefaultDatasetCacheTTL = 24 * time.Hour
	DefaultHomeCountry     = "United States"
	DefaultLagMinDays      = 0
	DefaultLagMaxDays      = 5000
	DefaultTopN            = 10
	DefaultRollingWindow   = 5
	DefaultHTTPTimeout     = 2 * time.Minute
	DefaultRequestInterval = 500 * time.Millisecond
	DefaultRetryCount      = 3
	DefaultRetryBase       = 1 * time.Second
	DefaultChartCacheSize  = 256
	DefaultChartCacheTTL   = 10 * time.Minute
	MinRefreshInterval     = time.Minute
)

// Source columns of the catalog CSV, after name normalization.
const (
	ColShowID      = "show_id"
	ColType        = "type"
	ColTitle       = "title"
	ColDirector    = "director"
	ColCast        = "cast"
	ColCountry     = "country"
	ColDateAdded   = "date_added"
	ColReleaseYear = "release_year"
	ColRating      = "rating"
	ColDuration    = "duration"
	ColListedIn    = "listed_in"
	ColDescription = "description"
)

// Derived columns
const (
	ColDateAddedAt     = "date_added_at"
	ColYearAdded       = "year_added"
	ColMonthAdded      = "month_added"
	ColSeason          = "season"
	ColLagDays         = "lag_days"
	ColPrimaryCountry  = "primary_country"
	ColContentOrigin   = "content_origin"
	ColDecade          = "decade"
	ColDurationMinutes = "duration_minutes"
	ColSeasonCount     = "season_count"
	ColScore           = "imdb_score"
	ColName            = "name"
)

// Content types as they appear in the dataset
const (
	TypeMovie  = "Movie"
	TypeTVShow = "TV Show"
)

// Labels
const (
	OthersLabel = "Others"
	FilterAll   = "All"
)

// Storage
const (
	DefaultExportTemplate = "{{.Page}}/{{.Index}}-{{.Chart}}"
	DirPermissions        = 0o755
	FilePermissions       = 0o644
)

// UI/UX
const (
	MaxSearchResults = 50
	MaxTitleResults  = 500
	MaxTopN          = 100
	MaxRollingWindow = 25
)

// Accepted release_year bounds
const (
	MinReleaseYear = 1880
	MaxReleaseYear = 2100
)

// Chart windows
const (
	// the snapshot stops part way through this year of additions
	PartialYearAdded    = 2021
	GrowthSinceYear     = 2008
	TypeShareSinceYear  = 1997
	TypeGrowthSinceYear = 2000
	VolumeSinceYear     = 2000
	SeasonTopGenres     = 6
	GenreTrendTopN      = 5
	CountryGenreTopN    = 15
)
