package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cesargomez89/netflix-insights/internal/storage"
)

// Download is a cached copy of a remote dataset.
type Download struct {
	FetchedAt time.Time    `db:"fetched_at"`
	ExpiresAt sql.NullTime `db:"expires_at"`
	URL       string       `db:"url"`
	Checksum  string       `db:"checksum"`
	Data      []byte       `db:"data"`
}

// Intact reports whether Data still hashes to the checksum taken at fetch time.
func (d *Download) Intact() bool {
	return d.Checksum == storage.HashBytes(d.Data)
}

// GetDownload returns the cached copy of url, or nil when there is none or
// it has expired. Expired copies are pruned on read.
func (db *DB) GetDownload(url string) (*Download, error) {
	var d Download
	err := db.Get(&d, "SELECT url, data, checksum, fetched_at, expires_at FROM downloads WHERE url = ?", url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if d.ExpiresAt.Valid && time.Now().After(d.ExpiresAt.Time) {
		_, _ = db.Exec("DELETE FROM downloads WHERE url = ?", url)
		return nil, nil
	}
	return &d, nil
}

// saveDownload replaces the cached copy of url. A non-positive ttl never expires.
func saveDownload(e sqlx.Execer, url string, data []byte, ttl time.Duration) error {
	now := time.Now().UTC()
	var expiresAt *time.Time
	if ttl > 0 {
		t := now.Add(ttl)
		expiresAt = &t
	}

	_, err := e.Exec(`
		INSERT INTO downloads (url, data, checksum, fetched_at, expires_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			data = excluded.data,
			checksum = excluded.checksum,
			fetched_at = excluded.fetched_at,
			expires_at = excluded.expires_at
	`, url, data, storage.HashBytes(data), now, expiresAt)
	return err
}

// ClearDownloads drops every cached download and reports how many there were.
func (db *DB) ClearDownloads() (int64, error) {
	res, err := db.Exec("DELETE FROM downloads")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (db *DB) pruneExpiredDownloads() error {
	_, err := db.Exec("DELETE FROM downloads WHERE expires_at IS NOT NULL AND expires_at < ?", time.Now().UTC())
	return err
}
