package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// hostData holds one known-host row to be inserted.
type hostData struct {
	host        string
	fingerprint []byte
	firstSeen   time.Time
	validUntil  *time.Time
	updated     time.Time
}

// viewData holds one saved-view row to be inserted.
type viewData struct {
	name  string
	state string
}

// Builder accumulates test data and inserts it in one pass.
type Builder struct {
	t     *testing.T
	db    *sql.DB
	hosts []hostData
	views []viewData
}

// NewBuilder creates a builder for the given test database.
func NewBuilder(t *testing.T, db *sql.DB) *Builder {
	t.Helper()
	return &Builder{t: t, db: db}
}

// WithHost adds a pinned host with optional configuration.
func (b *Builder) WithHost(host string, opts ...HostOption) *Builder {
	h := defaultHost(host)
	for _, opt := range opts {
		opt(&h)
	}
	b.hosts = append(b.hosts, h)
	return b
}

// WithSavedView adds a saved view snapshot.
func (b *Builder) WithSavedView(name, state string) *Builder {
	b.views = append(b.views, viewData{name: name, state: state})
	return b
}

// Build inserts the accumulated rows.
func (b *Builder) Build() {
	b.t.Helper()
	for _, h := range b.hosts {
		var validUntil *int64
		if h.validUntil != nil {
			v := h.validUntil.Unix()
			validUntil = &v
		}
		_, err := b.db.Exec(
			`INSERT INTO known_hosts (host, fingerprint, first_seen_at, valid_until, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			h.host, h.fingerprint, h.firstSeen.Unix(), validUntil, h.updated.Unix(),
		)
		require.NoError(b.t, err)
	}
	for _, v := range b.views {
		_, err := b.db.Exec(
			`INSERT INTO saved_views (name, state, updated_at) VALUES (?, ?, ?)`,
			v.name, v.state, time.Now().Unix(),
		)
		require.NoError(b.t, err)
	}
}
