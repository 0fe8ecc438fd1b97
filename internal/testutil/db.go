// Package testutil provides test doubles and database helpers shared by
// package tests: a scripted network fetcher and an in-memory state
// database with builders for seeding it.
package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/require"
)

// Schema mirrors the production state database: pinned host fingerprints
// and saved view snapshots.
const Schema = `
CREATE TABLE known_hosts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	host TEXT NOT NULL UNIQUE,
	fingerprint BLOB NOT NULL,
	first_seen_at INTEGER NOT NULL,
	valid_until INTEGER,
	updated_at INTEGER NOT NULL
);

CREATE TABLE saved_views (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	state TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// NewTestDB creates an in-memory SQLite database with the full schema.
// The caller is responsible for closing the database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	_, err = db.Exec(Schema)
	require.NoError(t, err)
	return db
}
