// Package catalog holds the loaded title tables as one read-only handle.
package catalog

import (
	"time"

	"github.com/cesargomez89/netflix-insights/internal/dataset"
	"github.com/cesargomez89/netflix-insights/internal/derive"
	"github.com/cesargomez89/netflix-insights/internal/search"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

// Settings are the analysis parameters the catalog was derived with.
type Settings struct {
	HomeCountry   string           `json:"home_country"`
	Lag           derive.LagPolicy `json:"lag"`
	TopN          int              `json:"top_n"`
	RollingWindow int              `json:"rolling_window"`
}

// Catalog is an immutable snapshot of one load. Tables are shared and must
// not be modified; every transformation returns a new table.
type Catalog struct {
	LoadedAt      time.Time      `json:"loaded_at"`
	Base          *table.Table   `json:"-"`
	Derived       *table.Table   `json:"-"`
	Ratings       *table.Table   `json:"-"`
	Index         *search.Index  `json:"-"`
	Status        dataset.Status `json:"status"`
	RatingsStatus dataset.Status `json:"ratings_status"`
	Report        derive.Report  `json:"report"`
	Settings      Settings       `json:"settings"`
}

// Available reports whether the base table came from a real source.
func (c *Catalog) Available() bool {
	return c != nil && c.Status.Available
}

// HasRatings reports whether score enrichment is possible.
func (c *Catalog) HasRatings() bool {
	return c != nil && c.RatingsStatus.Available && c.Ratings != nil && c.Ratings.Len() > 0
}

// Version identifies the load, for cache keys.
func (c *Catalog) Version() string {
	if c == nil {
		return ""
	}
	return c.Status.ID
}
