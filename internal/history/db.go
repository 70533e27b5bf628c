// Package history persists pipeline run outcomes so the control panel can
// list past runs without re-reading export files.
package history

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite run-history database.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the history database at the given path.
func Open(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return &DB{db}, nil
}

// Migrate creates the history schema when it does not exist yet.
func (db *DB) Migrate() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    status TEXT NOT NULL CHECK(status IN ('completed', 'failed')),
    error TEXT,
    records INTEGER NOT NULL,
    description_success INTEGER NOT NULL DEFAULT 0,
    description_failed INTEGER NOT NULL DEFAULT 0,
    description_skipped INTEGER NOT NULL DEFAULT 0,
    faq_count INTEGER NOT NULL DEFAULT 0,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

CREATE TABLE IF NOT EXISTS run_records (
    run_id TEXT NOT NULL,
    record_id TEXT NOT NULL,
    description_status TEXT NOT NULL,
    summary_status TEXT NOT NULL,
    sentence_status TEXT NOT NULL,
    faqs INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, record_id),
    FOREIGN KEY (run_id) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_run_records_run ON run_records(run_id);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate history schema: %w", err)
	}
	return nil
}
