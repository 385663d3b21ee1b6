// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside the binary as a single
// file. No separate database server to install, configure, or manage. That
// fits this application's shape: one process, single-document operations,
// the database mediating any cross-request conflict.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"

	// BLANK IMPORT:
	// `_ "modernc.org/sqlite"` is a side-effect-only import: the package's
	// init() registers itself with database/sql as the driver named
	// "sqlite", which is what makes sql.Open("sqlite", ...) work below.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces (UserRepository, CampsiteRepository, FavoriteRepository) on a
// single receiver — one connection pool, one migration pass, one Close.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/nucampsite.db" → file-based, persistent
//   - ":memory:"           → in-memory, lost on close (used by the tests)
//
// sql.Open doesn't actually connect — it creates a pool manager. Ping forces
// an immediate connection so a bad path fails here, not on the first query.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in flight — without
	// it SQLite locks the whole file per write, which stalls a web server.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. We need them ON so that
	// deleting a campsite cascades to its comments and favorites rows.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Defer it wherever New is
// called so the WAL is flushed and the file lock released on shutdown.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every start; a migration tool is out of scope for this service.
func (db *DB) migrate() error {
	// Users. facebook_id is nullable — NULL means "no linked Facebook
	// account", and SQLite's UNIQUE treats NULLs as distinct, so any number
	// of local-only users coexist with the constraint.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			admin         INTEGER NOT NULL DEFAULT 0,
			facebook_id   TEXT UNIQUE,
			firstname     TEXT NOT NULL DEFAULT '',
			lastname      TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// Campsites. cost is fixed-point cents (INTEGER), never a float.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS campsites (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL,
			image       TEXT NOT NULL,
			elevation   INTEGER NOT NULL DEFAULT 0,
			cost        INTEGER NOT NULL DEFAULT 0 CHECK (cost >= 0),
			featured    INTEGER NOT NULL DEFAULT 0,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating campsites table: %w", err)
	}

	// Comments belong to a campsite (CASCADE — a comment has no life outside
	// its parent). author_id is deliberately NOT a foreign key: it's a weak
	// reference resolved at read time, matching the fact that nothing ever
	// deletes users and nothing maintains the reference if one vanished.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS comments (
			id          TEXT PRIMARY KEY,
			campsite_id TEXT NOT NULL REFERENCES campsites(id) ON DELETE CASCADE,
			author_id   TEXT NOT NULL,
			rating      INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			text        TEXT NOT NULL,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_comments_campsite_id ON comments(campsite_id);
	`)
	if err != nil {
		return fmt.Errorf("creating comments table: %w", err)
	}

	// Favorites. One row per (user, campsite); the composite primary key IS
	// the set semantics — a duplicate insert conflicts instead of doubling.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS favorites (
			user_id     TEXT NOT NULL REFERENCES users(id),
			campsite_id TEXT NOT NULL REFERENCES campsites(id) ON DELETE CASCADE,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, campsite_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating favorites table: %w", err)
	}

	return nil
}
