package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// timeFormat is the layout used for every timestamp column.
const timeFormat = time.RFC3339

// Store is the SQLite-backed record store. All operations are synchronous
// and assume a single writer; uniqueness constraints on book, translation,
// and user names are the backstop against duplicate-row races.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path, enables foreign keys, and
// applies the schema. The parent directory is created if needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("db path is required")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Reset drops every table and recreates the schema. All data is lost.
func (s *Store) Reset() error {
	for _, ddl := range dropDDL {
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return s.createSchema()
}

func (s *Store) createSchema() error {
	for _, ddl := range schemaDDL {
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// newID generates an opaque short entity ID.
func newID() string {
	return uuid.NewString()[:8]
}

// now returns the current UTC time formatted for storage.
func now() string {
	return time.Now().UTC().Format(timeFormat)
}

// parseTime parses a stored timestamp. Zero time on empty input.
func parseTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timeFormat, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", v, err)
	}
	return t, nil
}
