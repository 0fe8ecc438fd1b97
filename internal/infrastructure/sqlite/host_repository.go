package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/gemview/internal/trust"
)

const hostColumns = `id, host, fingerprint, first_seen_at, valid_until, updated_at`

// hostRepository implements trust.PinRepository using SQLite.
type hostRepository struct {
	db *sql.DB
}

// NewHostRepository creates a pin repository over an open database.
func NewHostRepository(db *sql.DB) trust.PinRepository {
	return &hostRepository{db: db}
}

var _ trust.PinRepository = (*hostRepository)(nil)

func scanKnownHost(scanner interface{ Scan(...any) error }) (*KnownHostModel, error) {
	var model KnownHostModel
	err := scanner.Scan(
		&model.ID, &model.Host, &model.Fingerprint,
		&model.FirstSeenAt, &model.ValidUntil, &model.UpdatedAt,
	)
	return &model, err
}

// Get retrieves the pin for a host. Returns PinNotFoundError when the host
// has never been seen.
func (r *hostRepository) Get(host string) (trust.Pin, error) {
	row := r.db.QueryRow(
		`SELECT `+hostColumns+` FROM known_hosts WHERE host = ?`, host,
	)
	model, err := scanKnownHost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return trust.Pin{}, &trust.PinNotFoundError{Host: host}
	}
	if err != nil {
		return trust.Pin{}, fmt.Errorf("failed to find pin for host: %w", err)
	}
	return model.toPin(), nil
}

// Put inserts or replaces the pin for a host.
func (r *hostRepository) Put(pin trust.Pin) error {
	model := toKnownHostModel(pin)
	_, err := r.db.Exec(
		`INSERT INTO known_hosts (host, fingerprint, first_seen_at, valid_until, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(host) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			valid_until = excluded.valid_until,
			updated_at = excluded.updated_at`,
		model.Host, model.Fingerprint, model.FirstSeenAt, model.ValidUntil, model.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store pin: %w", err)
	}
	return nil
}

// Delete removes the pin for a host. Deleting an unknown host is not an
// error.
func (r *hostRepository) Delete(host string) error {
	if _, err := r.db.Exec(`DELETE FROM known_hosts WHERE host = ?`, host); err != nil {
		return fmt.Errorf("failed to delete pin: %w", err)
	}
	return nil
}

// All lists every pin, most recently updated first.
func (r *hostRepository) All() ([]trust.Pin, error) {
	rows, err := r.db.Query(
		`SELECT ` + hostColumns + ` FROM known_hosts ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pins: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var pins []trust.Pin
	for rows.Next() {
		model, err := scanKnownHost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pin: %w", err)
		}
		pins = append(pins, model.toPin())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pins: %w", err)
	}
	return pins, nil
}

// Touch updates only the updated_at column for a host, marking it as
// recently verified without rewriting the fingerprint.
func (r *hostRepository) Touch(host string, at time.Time) error {
	if _, err := r.db.Exec(
		`UPDATE known_hosts SET updated_at = ? WHERE host = ?`, at.Unix(), host,
	); err != nil {
		return fmt.Errorf("failed to touch pin: %w", err)
	}
	return nil
}
