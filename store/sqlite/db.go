// Package sqlite implements the types.Store interface on an embedded
// SQLite database.
//
// Each event namespace is fully independent: all rows carry the namespace
// and SaveState replaces the namespace's rows in one transaction. The
// driver is pure Go (modernc.org/sqlite), so the store works without cgo.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database and prepares the schema.
//
// Parameters:
//   - dataSourceName: SQLite DSN, e.g. a file path or ":memory:"
//
// Returns:
//   - *DB: Ready-to-use store
//   - error: Open, pragma, or migration failure
func Open(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single pooled connection keeps pragmas effective and makes
	// ":memory:" databases stable across calls.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &DB{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying database.
func (s *DB) Close() error {
	return s.db.Close()
}

func (s *DB) migrate() error {
	schema := `
CREATE TABLE IF NOT EXISTS state_meta (
    namespace TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    group_seq INTEGER NOT NULL,
    participant_seq INTEGER NOT NULL,
    saved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS participants (
    namespace TEXT NOT NULL,
    id TEXT NOT NULL,
    preferences TEXT NOT NULL,
    capacity INTEGER NOT NULL,
    required_tags TEXT NOT NULL,
    deadline TEXT NOT NULL,
    registered_seq INTEGER NOT NULL,
    status INTEGER NOT NULL,
    PRIMARY KEY (namespace, id),
    FOREIGN KEY (namespace) REFERENCES state_meta(namespace) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS resources (
    namespace TEXT NOT NULL,
    id TEXT NOT NULL,
    capacity INTEGER NOT NULL,
    tags TEXT NOT NULL,
    overcommitted INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (namespace, id),
    FOREIGN KEY (namespace) REFERENCES state_meta(namespace) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS groups (
    namespace TEXT NOT NULL,
    id TEXT NOT NULL,
    resource TEXT NOT NULL,
    admin TEXT NOT NULL,
    join_code TEXT NOT NULL,
    state INTEGER NOT NULL,
    PRIMARY KEY (namespace, id),
    FOREIGN KEY (namespace) REFERENCES state_meta(namespace) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS group_members (
    namespace TEXT NOT NULL,
    group_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (namespace, group_id, participant_id),
    FOREIGN KEY (namespace, group_id) REFERENCES groups(namespace, id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_group_members_participant ON group_members(namespace, participant_id);
`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
