package store

const Schema = `
CREATE TABLE IF NOT EXISTS downloads (
	url TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	checksum TEXT NOT NULL,
	fetched_at DATETIME NOT NULL,
	expires_at DATETIME
);

CREATE TABLE IF NOT EXISTS loads (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	row_count INTEGER NOT NULL DEFAULT 0,
	malformed INTEGER NOT NULL DEFAULT 0,
	available BOOLEAN NOT NULL,
	columns TEXT,  -- JSON array
	checksum TEXT NOT NULL DEFAULT '',
	error TEXT,
	loaded_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_loads_loaded_at ON loads(loaded_at);
`
