// Package sqlite persists the processed sales table into an embedded SQLite
// database and answers schema questions about it. It holds one shared
// *sql.DB; database/sql pools connections underneath, so the handle is safe
// for concurrent readers.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const (
	// SalesTable is the table the pipeline writes and the query layer reads.
	SalesTable = "sales"
)

// Store wraps a shared SQLite handle for the sales database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the SQLite database at path, creating the file if it does not
// exist, and verifies the connection.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("Open: opening %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("Open: pinging %s: %w", path, err)
	}

	return &Store{db: db, path: path}, nil
}

// DB exposes the underlying handle for read queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database handle. It should be called when the store is
// no longer needed to release resources.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
