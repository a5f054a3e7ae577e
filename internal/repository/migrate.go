package repository

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id            TEXT PRIMARY KEY,
		run_id        TEXT NOT NULL,
		source_path   TEXT NOT NULL,
		content_hash  TEXT NOT NULL,
		status        TEXT NOT NULL,
		method        TEXT NOT NULL DEFAULT '',
		rows_written  INTEGER NOT NULL DEFAULT 0,
		output_path   TEXT NOT NULL DEFAULT '',
		error_message TEXT,
		started_at    TEXT NOT NULL,
		finished_at   TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS documents_hash_status_idx ON documents (content_hash, status)`,
	`CREATE TABLE IF NOT EXISTS assets (
		id            TEXT PRIMARY KEY,
		document_id   TEXT NOT NULL REFERENCES documents (id),
		model_number  TEXT NOT NULL,
		serial_number TEXT NOT NULL,
		item_name     TEXT NOT NULL,
		model         TEXT NOT NULL,
		category      TEXT NOT NULL,
		unit_price    TEXT NOT NULL,
		purchase_date TEXT NOT NULL,
		order_number  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS assets_serial_idx ON assets (serial_number)`,
}

// Migrate creates the ledger tables when they do not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := db.SQL.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
