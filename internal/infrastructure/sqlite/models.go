package sqlite

import (
	"time"

	"github.com/zjrosen/gemview/internal/trust"
)

// KnownHostModel represents the database row for the known_hosts table.
// Fields map directly to SQL columns with Unix timestamps for time values.
type KnownHostModel struct {
	ID          int64
	Host        string
	Fingerprint []byte
	FirstSeenAt int64
	ValidUntil  *int64 // nullable
	UpdatedAt   int64
}

// toKnownHostModel converts a trust Pin to a database row.
func toKnownHostModel(p trust.Pin) *KnownHostModel {
	m := &KnownHostModel{
		Host:        p.Host,
		Fingerprint: p.Fingerprint,
		FirstSeenAt: p.FirstSeen.Unix(),
		UpdatedAt:   p.Updated.Unix(),
	}
	if !p.ValidUntil.IsZero() {
		validUntil := p.ValidUntil.Unix()
		m.ValidUntil = &validUntil
	}
	return m
}

// toPin converts a database row to a trust Pin.
func (m *KnownHostModel) toPin() trust.Pin {
	p := trust.Pin{
		Host:        m.Host,
		Fingerprint: m.Fingerprint,
		FirstSeen:   time.Unix(m.FirstSeenAt, 0),
		Updated:     time.Unix(m.UpdatedAt, 0),
	}
	if m.ValidUntil != nil {
		p.ValidUntil = time.Unix(*m.ValidUntil, 0)
	}
	return p
}

// SavedViewModel represents the database row for the saved_views table.
type SavedViewModel struct {
	ID        int64
	Name      string
	State     string
	UpdatedAt int64
}
