package domain

import (
	"time"
)

type ContentType string

const (
	ContentTypeMovie  ContentType = "Movie"
	ContentTypeTVShow ContentType = "TV Show"
)

// Valid reports whether the content type is one of the known catalog types.
func (c ContentType) Valid() bool {
	return c == ContentTypeMovie || c == ContentTypeTVShow
}

type LoadSource string

const (
	LoadSourceLocal  LoadSource = "local"
	LoadSourceCache  LoadSource = "cache"
	LoadSourceRemote LoadSource = "remote"
	LoadSourceNone   LoadSource = "none"
)

// Title is the typed view of one catalog row.
type Title struct { //nolint:govet // field ordering prioritizes readability over memory alignment
	ShowID      string      `json:"show_id"`
	Title       string      `json:"title"`
	Type        ContentType `json:"type"`
	Director    string      `json:"director,omitempty"`
	Cast        []string    `json:"cast,omitempty"`
	Countries   []string    `json:"countries,omitempty"`
	Genres      []string    `json:"genres,omitempty"`
	DateAdded   *time.Time  `json:"date_added,omitempty"`
	ReleaseYear int         `json:"release_year"`
	Rating      string      `json:"rating,omitempty"`
	Duration    string      `json:"duration,omitempty"`
	Description string      `json:"description,omitempty"`
}

// Load records one attempt to obtain the base table.
type Load struct {
	LoadedAt  time.Time   `json:"loaded_at" db:"loaded_at"`
	Error     *string     `json:"error,omitempty" db:"error"`
	ID        string      `json:"id" db:"id"`
	Source    LoadSource  `json:"source" db:"source"`
	Location  string      `json:"location" db:"location"`
	Columns   StringSlice `json:"columns,omitempty" db:"columns"`
	Checksum  string      `json:"checksum,omitempty" db:"checksum"`
	Rows      int         `json:"rows" db:"row_count"`
	Malformed int         `json:"malformed" db:"malformed"`
	Available bool        `json:"available" db:"available"`
}
