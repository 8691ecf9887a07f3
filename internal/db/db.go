// Package db stores rendered diagrams as SQLite artifacts.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	conn *sql.DB
	Path string
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS renders (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	node_count INTEGER NOT NULL,
	edge_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS nodes (
	render_id TEXT NOT NULL REFERENCES renders(id) ON DELETE CASCADE,
	id        TEXT NOT NULL,
	position  INTEGER NOT NULL,
	x         REAL NOT NULL,
	y         REAL NOT NULL,
	PRIMARY KEY (render_id, id)
);
CREATE TABLE IF NOT EXISTS edges (
	render_id TEXT NOT NULL REFERENCES renders(id) ON DELETE CASCADE,
	source_id TEXT NOT NULL,
	target_id TEXT NOT NULL,
	position  INTEGER NOT NULL,
	PRIMARY KEY (render_id, source_id, target_id),
	FOREIGN KEY (render_id, source_id) REFERENCES nodes(render_id, id),
	FOREIGN KEY (render_id, target_id) REFERENCES nodes(render_id, id)
);
`

// OpenDB opens a SQLite database with WAL mode and foreign keys enabled
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps :memory: databases and pragmas consistent
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return &DB{conn: conn, Path: path}, nil
}

// Migrate creates the diagram tables if they do not exist yet.
func (d *DB) Migrate() error {
	if _, err := d.conn.Exec(schemaSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.conn.Close()
}

// Conn returns the underlying sql.DB for custom queries
func (d *DB) Conn() *sql.DB {
	return d.conn
}
