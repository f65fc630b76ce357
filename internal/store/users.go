package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/concord/pkg/types"
)

// CreateUser inserts a new user. Returns the new user ID. Duplicate names
// violate the uniqueness constraint and propagate as an error.
func (s *Store) CreateUser(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("user name: %w", types.ErrInvalidData)
	}
	id := newID()
	_, err := s.db.Exec(
		"INSERT INTO users (id, name, created_at) VALUES (?, ?, ?)",
		id, name, now(),
	)
	if err != nil {
		return "", fmt.Errorf("creating user %q: %w", name, err)
	}
	return id, nil
}

// EnsureUser returns the ID of the user with the given name, creating the
// row if it does not exist. The uniqueness constraint on users.name does
// the de-duplication, not the lookup sequence.
func (s *Store) EnsureUser(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("user name: %w", types.ErrInvalidData)
	}
	_, err := s.db.Exec(
		"INSERT INTO users (id, name, created_at) VALUES (?, ?, ?) ON CONFLICT(name) DO NOTHING",
		newID(), name, now(),
	)
	if err != nil {
		return "", fmt.Errorf("ensuring user %q: %w", name, err)
	}

	var id string
	err = s.db.QueryRow("SELECT id FROM users WHERE name = ?", name).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("looking up user %q: %w", name, err)
	}
	return id, nil
}

// UserByID returns the user with the given ID, or nil if absent.
func (s *Store) UserByID(id string) (*types.User, error) {
	if id == "" {
		return nil, nil
	}
	return s.scanUser(s.db.QueryRow(
		"SELECT id, name, created_at FROM users WHERE id = ?", id,
	))
}

// UserByName returns the user with the given name, or nil if absent.
func (s *Store) UserByName(name string) (*types.User, error) {
	if name == "" {
		return nil, nil
	}
	return s.scanUser(s.db.QueryRow(
		"SELECT id, name, created_at FROM users WHERE name = ?", name,
	))
}

// ListUsers returns up to 100 users, newest first.
func (s *Store) ListUsers() ([]types.User, error) {
	rows, err := s.db.Query(
		"SELECT id, name, created_at FROM users ORDER BY created_at DESC, rowid DESC LIMIT 100",
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []types.User
	for rows.Next() {
		var u types.User
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		if u.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) scanUser(row *sql.Row) (*types.User, error) {
	var u types.User
	var createdAt string
	err := row.Scan(&u.ID, &u.Name, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &u, nil
}
