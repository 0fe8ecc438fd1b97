package trust_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/gemview/internal/trust"
)

// memRepo is an in-memory PinRepository that counts reads, so tests can
// observe whether a lookup hit the cache or the repository.
type memRepo struct {
	mu   sync.Mutex
	pins map[string]trust.Pin
	gets int
}

func newMemRepo() *memRepo {
	return &memRepo{pins: make(map[string]trust.Pin)}
}

func (r *memRepo) Get(host string) (trust.Pin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	pin, ok := r.pins[host]
	if !ok {
		return trust.Pin{}, &trust.PinNotFoundError{Host: host}
	}
	return pin, nil
}

func (r *memRepo) Put(pin trust.Pin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.pins[pin.Host]; ok {
		pin.FirstSeen = existing.FirstSeen
	}
	r.pins[pin.Host] = pin
	return nil
}

func (r *memRepo) Delete(host string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pins, host)
	return nil
}

func (r *memRepo) All() ([]trust.Pin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pins := make([]trust.Pin, 0, len(r.pins))
	for _, pin := range r.pins {
		pins = append(pins, pin)
	}
	return pins, nil
}

func (r *memRepo) getCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gets
}

func TestStore_PinsOnFirstUse(t *testing.T) {
	repo := newMemRepo()
	store := trust.NewStore(repo)

	fp := []byte{0xde, 0xad, 0xbe, 0xef}
	require.True(t, store.Verify("example.org", fp, time.Now().Add(time.Hour)))

	pin, err := repo.Get("example.org")
	require.NoError(t, err)
	require.Equal(t, fp, pin.Fingerprint)
	require.False(t, pin.FirstSeen.IsZero())
}

func TestStore_MatchingFingerprintTrusted(t *testing.T) {
	repo := newMemRepo()
	store := trust.NewStore(repo)
	fp := []byte{1, 2, 3}

	require.True(t, store.Verify("example.org", fp, time.Time{}))
	require.True(t, store.Verify("example.org", fp, time.Time{}))
}

func TestStore_ChangedFingerprintRejected(t *testing.T) {
	repo := newMemRepo()
	store := trust.NewStore(repo)

	require.True(t, store.Verify("example.org", []byte{1, 2, 3}, time.Time{}))
	require.False(t, store.Verify("example.org", []byte{4, 5, 6}, time.Time{}))
}

func TestStore_RejectsEmptyInput(t *testing.T) {
	store := trust.NewStore(newMemRepo())

	require.False(t, store.Verify("", []byte{1}, time.Time{}))
	require.False(t, store.Verify("example.org", nil, time.Time{}))
}

func TestStore_VerifyCachesLookups(t *testing.T) {
	repo := newMemRepo()
	store := trust.NewStore(repo)
	fp := []byte{1, 2, 3}

	require.True(t, store.Verify("example.org", fp, time.Time{}))
	before := repo.getCount()
	for range 5 {
		require.True(t, store.Verify("example.org", fp, time.Time{}))
	}
	require.Equal(t, before, repo.getCount())
}

func TestStore_AcceptReplacesPin(t *testing.T) {
	repo := newMemRepo()
	store := trust.NewStore(repo)

	require.True(t, store.Verify("example.org", []byte{1}, time.Time{}))
	first, err := repo.Get("example.org")
	require.NoError(t, err)

	newFP := []byte{9, 9, 9}
	require.NoError(t, store.Accept("example.org", newFP, time.Now().Add(time.Hour)))
	require.True(t, store.Verify("example.org", newFP, time.Time{}))
	require.False(t, store.Verify("example.org", []byte{1}, time.Time{}))

	replaced, err := repo.Get("example.org")
	require.NoError(t, err)
	require.True(t, replaced.FirstSeen.Equal(first.FirstSeen))
}

func TestStore_ForgetAllowsRepin(t *testing.T) {
	repo := newMemRepo()
	store := trust.NewStore(repo)

	require.True(t, store.Verify("example.org", []byte{1}, time.Time{}))
	require.NoError(t, store.Forget("example.org"))

	// A different fingerprint is accepted again as first use.
	require.True(t, store.Verify("example.org", []byte{2}, time.Time{}))
}

func TestStore_Pins(t *testing.T) {
	repo := newMemRepo()
	store := trust.NewStore(repo)

	require.True(t, store.Verify("a.example", []byte{1}, time.Time{}))
	require.True(t, store.Verify("b.example", []byte{2}, time.Time{}))

	pins, err := store.Pins()
	require.NoError(t, err)
	require.Len(t, pins, 2)
}
