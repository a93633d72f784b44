// Package space manages user-defined reminder categories ("spaces").
package space

import (
	"database/sql"
	"fmt"
	"time"
)

// Space is a user-defined category a reminder can belong to.
type Space struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Store provides space persistence on a shared SQLite connection. The
// spaces table is created by the reminder store's schema setup.
type Store struct {
	db *sql.DB
}

// NewStore wraps an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Add creates a new space and returns it with the assigned ID.
func (s *Store) Add(name string) (*Space, error) {
	if name == "" {
		return nil, fmt.Errorf("space name is required")
	}

	now := time.Now().UTC()
	result, err := s.db.Exec(`
		INSERT INTO spaces (name, created_at) VALUES (?, ?)
	`, name, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to insert space: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted ID: %w", err)
	}

	return &Space{ID: id, Name: name, CreatedAt: now}, nil
}

// List returns all spaces ordered by name.
func (s *Store) List() ([]Space, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at FROM spaces ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list spaces: %w", err)
	}
	defer rows.Close()

	var spaces []Space
	for rows.Next() {
		var sp Space
		var createdAt string
		if err := rows.Scan(&sp.ID, &sp.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan space: %w", err)
		}
		sp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		spaces = append(spaces, sp)
	}
	return spaces, rows.Err()
}

// GetByID returns one space.
func (s *Store) GetByID(id int64) (*Space, error) {
	row := s.db.QueryRow(`SELECT id, name, created_at FROM spaces WHERE id = ?`, id)

	var sp Space
	var createdAt string
	if err := row.Scan(&sp.ID, &sp.Name, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("space %d not found", id)
		}
		return nil, fmt.Errorf("failed to get space: %w", err)
	}
	sp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &sp, nil
}

// Rename changes a space's name.
func (s *Store) Rename(id int64, name string) error {
	if name == "" {
		return fmt.Errorf("space name is required")
	}

	result, err := s.db.Exec(`UPDATE spaces SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename space: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("space %d not found", id)
	}
	return nil
}

// Delete removes a space. Reminders in it are kept; their space_id is
// nulled by the foreign key.
func (s *Store) Delete(id int64) error {
	result, err := s.db.Exec(`DELETE FROM spaces WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete space: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("space %d not found", id)
	}
	return nil
}
