// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a
// C compiler installed and cross-compilation becomes painful.
// modernc.org/sqlite is a pure Go translation of the SQLite C code — no C
// compiler needed, works everywhere Go works.
//
// UNIQUENESS AS THE CONCURRENCY MECHANISM:
// The users table carries UNIQUE constraints on email and api_token. We
// never pre-check either — an insert or update that violates one fails
// atomically inside the statement, and the error is translated to a
// conflict the service layer knows how to handle. Pre-checking would just
// reintroduce the race the constraint exists to close.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/sakif/blog-api/internal/apperror"
)

// DB wraps a sql.DB connection pool and hands out the per-entity stores.
//
// WHY SUB-STORES INSTEAD OF METHODS ON DB?
// All three repository interfaces declare Create/GetByID-style methods, so
// a single receiver can't implement them all. Each store shares the same
// underlying pool; DB just owns the lifecycle (open, migrate, close).
type DB struct {
	conn *sql.DB
}

// Users returns the UserRepository implementation.
func (db *DB) Users() *UserStore { return &UserStore{conn: db.conn} }

// Posts returns the PostRepository implementation.
func (db *DB) Posts() *PostStore { return &PostStore{conn: db.conn} }

// Comments returns the CommentRepository implementation.
func (db *DB) Comments() *CommentStore { return &CommentStore{conn: db.conn} }

// New opens (or creates) the SQLite database at dbPath and runs the schema
// migration.
//
// dbPath examples:
//   - "data/blog.db"  → file-based database (persistent)
//   - ":memory:"      → in-memory database (great for tests, lost on close)
func New(dbPath string) (*DB, error) {
	// Pragmas go in the DSN so they apply to EVERY pooled connection,
	// not just the one a PRAGMA statement happens to run on:
	//   - journal_mode(WAL): concurrent reads while a write is in
	//     progress — essential for a web server
	//   - foreign_keys(1): OFF by default in SQLite; the comments table
	//     relies on ON DELETE CASCADE when its parent post is deleted
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Each pooled connection to ":memory:" would get its OWN empty
	// database. Pinning the pool to a single connection keeps every query
	// in tests pointed at the same in-memory instance.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// Ping forces an immediate connection so a bad path or permissions
	// issue surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent — safe to run on every startup.
//
// The schema mirrors the entity model exactly:
//   - users.email UNIQUE       → one account per address
//   - users.api_token UNIQUE   → one user per live token (nullable: a user
//     who has never logged in has no credential)
//   - posts.user_id            → owner, set once at creation
//   - comments ON DELETE CASCADE → deleting a post removes its comments
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			name            TEXT NOT NULL,
			lastname        TEXT NOT NULL,
			email           TEXT NOT NULL UNIQUE,
			password_hash   TEXT NOT NULL,
			api_token       TEXT UNIQUE,
			token_issued_at DATETIME,
			created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			title      TEXT NOT NULL,
			content    TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id);
		CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating posts table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS comments (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			post_id    INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			content    TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id);
	`)
	if err != nil {
		return fmt.Errorf("creating comments table: %w", err)
	}

	return nil
}

// translateConstraint converts a SQLite uniqueness violation into a domain
// conflict error, leaving every other error untouched.
//
// modernc.org/sqlite reports constraint violations with the standard
// SQLite message "UNIQUE constraint failed: <table>.<column>"; matching on
// the message avoids coupling to the driver's error type.
func translateConstraint(err error, resource string) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return apperror.Conflict(resource)
	}
	return err
}
