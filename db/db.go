package db

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/mattn/go-sqlite3"
)

const dbDriver = "sqlite3"

// Sentinel errors returned by the gateway.
var (
	ErrNotFound  = errors.New("db: not found")
	ErrDuplicate = errors.New("db: row already exists")
)

// Store is the persistence gateway. It exclusively owns all rows; there
// is no caching between calls, every operation re-reads from SQLite.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at path, creating it and its tables
// if necessary.
func Open(path string) (*Store, error) {
	conn, err := sql.Open(dbDriver, path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer, and an in-memory database exists
	// per connection; one pooled connection covers both.
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	s := &Store{db: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	slog.Info("database initialized", "path", path)
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// isConstraintErr reports whether err is a UNIQUE or similar constraint
// violation from the sqlite driver.
func isConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
