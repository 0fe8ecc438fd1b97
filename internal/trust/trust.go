// Package trust implements trust-on-first-use certificate pinning. The
// first certificate seen for a host is pinned; later responses from that
// host must present the same fingerprint until the user explicitly accepts
// a new one.
package trust

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/gemview/internal/cachemanager"
	"github.com/zjrosen/gemview/internal/log"
)

// pinCacheTTL bounds how long a pin lookup is served from memory before
// re-reading the repository.
const pinCacheTTL = 15 * time.Minute

// Pin is the stored trust anchor for one host.
type Pin struct {
	Host        string
	Fingerprint []byte
	FirstSeen   time.Time
	ValidUntil  time.Time
	Updated     time.Time
}

// PinNotFoundError reports that no pin exists for a host.
type PinNotFoundError struct {
	Host string
}

func (e *PinNotFoundError) Error() string {
	return fmt.Sprintf("no pin for host %q", e.Host)
}

// PinRepository persists pins.
type PinRepository interface {
	Get(host string) (Pin, error)
	Put(pin Pin) error
	Delete(host string) error
	All() ([]Pin, error)
}

// Store answers trust queries, caching repository reads.
type Store struct {
	repo  PinRepository
	cache *cachemanager.InMemoryCacheManager[string, Pin]
	rtc   *cachemanager.ReadThroughCache[string, Pin, string]
}

// NewStore creates a store over the given repository.
func NewStore(repo PinRepository) *Store {
	cache := cachemanager.NewInMemoryCacheManager[string, Pin](
		"trust-pins", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	return &Store{
		repo:  repo,
		cache: cache,
		rtc: cachemanager.NewReadThroughCache[string, Pin, string](
			cache,
			func(_ context.Context, host string) (Pin, error) {
				return repo.Get(host)
			},
			false,
		),
	}
}

// Verify checks a fingerprint against the pin for host. An unknown host is
// pinned on the spot and trusted; a known host is trusted only when the
// fingerprint matches its pin.
func (s *Store) Verify(host string, fingerprint []byte, validUntil time.Time) bool {
	if host == "" || len(fingerprint) == 0 {
		return false
	}

	pin, err := s.rtc.Get(context.Background(), host, host, pinCacheTTL)
	var notFound *PinNotFoundError
	switch {
	case errors.As(err, &notFound):
		now := time.Now()
		pin = Pin{
			Host:        host,
			Fingerprint: append([]byte(nil), fingerprint...),
			FirstSeen:   now,
			ValidUntil:  validUntil,
			Updated:     now,
		}
		if err := s.repo.Put(pin); err != nil {
			log.ErrorErr(log.CatDB, "storing first-use pin failed", err, "host", host)
			return false
		}
		s.cache.Set(context.Background(), host, pin, pinCacheTTL)
		log.Info(log.CatNet, "pinned new host", "host", host)
		return true

	case err != nil:
		log.ErrorErr(log.CatDB, "pin lookup failed", err, "host", host)
		return false
	}

	return bytes.Equal(pin.Fingerprint, fingerprint)
}

// Accept replaces the pin for host with a new fingerprint, after the user
// has confirmed a certificate change.
func (s *Store) Accept(host string, fingerprint []byte, validUntil time.Time) error {
	now := time.Now()
	pin := Pin{
		Host:        host,
		Fingerprint: append([]byte(nil), fingerprint...),
		FirstSeen:   now,
		ValidUntil:  validUntil,
		Updated:     now,
	}
	if existing, err := s.repo.Get(host); err == nil {
		pin.FirstSeen = existing.FirstSeen
	}
	if err := s.repo.Put(pin); err != nil {
		return fmt.Errorf("replacing pin: %w", err)
	}
	s.cache.Set(context.Background(), host, pin, pinCacheTTL)
	return nil
}

// Forget removes the pin for host.
func (s *Store) Forget(host string) error {
	if err := s.repo.Delete(host); err != nil {
		return fmt.Errorf("deleting pin: %w", err)
	}
	return s.cache.Delete(context.Background(), host)
}

// Pins lists all stored pins.
func (s *Store) Pins() ([]Pin, error) {
	return s.repo.All()
}
