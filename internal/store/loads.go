package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cesargomez89/netflix-insights/internal/domain"
)

const loadColumns = `id, source, location, row_count, malformed, available, columns, checksum, error, loaded_at`

// RecordLoad appends a load to the log, assigning an id and timestamp when unset.
func (db *DB) RecordLoad(load *domain.Load) error {
	return recordLoad(db, load)
}

// RecordRemoteLoad caches the downloaded bytes and logs the load atomically.
func (db *DB) RecordRemoteLoad(ctx context.Context, url string, data []byte, ttl time.Duration, load *domain.Load) error {
	return db.RunInTx(ctx, func(tx *sqlx.Tx) error {
		if err := saveDownload(tx, url, data, ttl); err != nil {
			return err
		}
		return recordLoad(tx, load)
	})
}

func recordLoad(e sqlx.Ext, load *domain.Load) error {
	if load.ID == "" {
		load.ID = uuid.NewString()
	}
	if load.LoadedAt.IsZero() {
		load.LoadedAt = time.Now().UTC()
	}
	query := `INSERT INTO loads (` + loadColumns + `)
		VALUES (:id, :source, :location, :row_count, :malformed, :available, :columns, :checksum, :error, :loaded_at)`
	_, err := sqlx.NamedExec(e, query, load)
	return err
}

// ListLoads returns the most recent loads first.
func (db *DB) ListLoads(limit int) ([]*domain.Load, error) {
	query := `SELECT ` + loadColumns + ` FROM loads ORDER BY loaded_at DESC LIMIT ?`

	var loads []*domain.Load
	err := db.Select(&loads, query, limit)
	return loads, err
}
