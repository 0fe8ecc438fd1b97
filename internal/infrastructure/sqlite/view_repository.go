package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ViewNotFoundError reports that no saved view exists under a name.
type ViewNotFoundError struct {
	Name string
}

func (e *ViewNotFoundError) Error() string {
	return fmt.Sprintf("no saved view %q", e.Name)
}

// ViewRepository stores serialized view snapshots so a session can resume
// where it left off.
type ViewRepository struct {
	db *sql.DB
}

// NewViewRepository creates a view repository over an open database.
func NewViewRepository(db *sql.DB) *ViewRepository {
	return &ViewRepository{db: db}
}

// Save inserts or replaces the snapshot stored under name.
func (r *ViewRepository) Save(name, state string) error {
	_, err := r.db.Exec(
		`INSERT INTO saved_views (name, state, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			state = excluded.state,
			updated_at = excluded.updated_at`,
		name, state, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save view: %w", err)
	}
	return nil
}

// Load returns the snapshot stored under name. Returns ViewNotFoundError
// when none exists.
func (r *ViewRepository) Load(name string) (string, error) {
	row := r.db.QueryRow(`SELECT state FROM saved_views WHERE name = ?`, name)
	var state string
	err := row.Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &ViewNotFoundError{Name: name}
	}
	if err != nil {
		return "", fmt.Errorf("failed to load view: %w", err)
	}
	return state, nil
}

// Delete removes the snapshot stored under name.
func (r *ViewRepository) Delete(name string) error {
	if _, err := r.db.Exec(`DELETE FROM saved_views WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete view: %w", err)
	}
	return nil
}

// Names lists stored snapshot names, most recently updated first.
func (r *ViewRepository) Names() ([]string, error) {
	rows, err := r.db.Query(`SELECT name FROM saved_views ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan view name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate views: %w", err)
	}
	return names, nil
}
