// Package history tracks the navigation stack of a document view: the
// ordered URLs visited, the scroll position left behind at each, and a
// TTL-bounded cache of responses for instant back/forward navigation.
package history

import (
	"context"
	"time"

	"github.com/zjrosen/gemview/internal/cachemanager"
	"github.com/zjrosen/gemview/internal/gemini"
	"github.com/zjrosen/gemview/internal/log"
)

// DefaultCacheTTL bounds how long a cached response stays usable for
// back/forward navigation.
const DefaultCacheTTL = 30 * time.Minute

// Entry is one visited URL and the normalized scroll position the user
// left it at (0 is top, 1 is bottom).
type Entry struct {
	URL         string  `yaml:"url"`
	NormScrollY float64 `yaml:"scroll,omitempty"`
}

// History is the navigation stack. Not safe for concurrent use; the
// session owns it.
type History struct {
	entries []Entry
	pos     int

	cache cachemanager.CacheManager[string, *gemini.Response]
	ttl   time.Duration
}

// New creates an empty history backed by the given response cache.
func New(cache cachemanager.CacheManager[string, *gemini.Response]) *History {
	return &History{
		pos:   -1,
		cache: cache,
		ttl:   DefaultCacheTTL,
	}
}

// NewWithTTL creates a history with a custom response cache TTL.
func NewWithTTL(cache cachemanager.CacheManager[string, *gemini.Response], ttl time.Duration) *History {
	h := New(cache)
	h.ttl = ttl
	return h
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Current returns the entry under the cursor.
func (h *History) Current() (Entry, bool) {
	if h.pos < 0 || h.pos >= len(h.entries) {
		return Entry{}, false
	}
	return h.entries[h.pos], true
}

// Entries returns a copy of the stack, oldest first.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Add pushes a newly visited URL, truncating any forward entries. Visiting
// the URL already under the cursor is a no-op.
func (h *History) Add(url string) {
	if cur, ok := h.Current(); ok && cur.URL == url {
		return
	}
	h.entries = append(h.entries[:h.pos+1], Entry{URL: url})
	h.pos = len(h.entries) - 1
}

// Replace rewrites the URL under the cursor, used when a redirect settles
// on a different address than the one requested.
func (h *History) Replace(url string) {
	if h.pos < 0 {
		h.Add(url)
		return
	}
	h.entries[h.pos].URL = url
}

// CanGoBack reports whether Back would move.
func (h *History) CanGoBack() bool {
	return h.pos > 0
}

// CanGoForward reports whether Forward would move.
func (h *History) CanGoForward() bool {
	return h.pos >= 0 && h.pos < len(h.entries)-1
}

// Back moves the cursor toward older entries and returns the entry moved
// to.
func (h *History) Back() (Entry, bool) {
	if !h.CanGoBack() {
		return Entry{}, false
	}
	h.pos--
	return h.entries[h.pos], true
}

// Forward moves the cursor toward newer entries and returns the entry
// moved to.
func (h *History) Forward() (Entry, bool) {
	if !h.CanGoForward() {
		return Entry{}, false
	}
	h.pos++
	return h.entries[h.pos], true
}

// SetScroll records the scroll position of the entry under the cursor.
func (h *History) SetScroll(norm float64) {
	if h.pos < 0 || h.pos >= len(h.entries) {
		return
	}
	if norm < 0 {
		norm = 0
	}
	h.entries[h.pos].NormScrollY = norm
}

// StoreCachedResponse retains a finished response for later back/forward
// navigation to url.
func (h *History) StoreCachedResponse(url string, resp *gemini.Response) {
	if h.cache == nil || resp == nil {
		return
	}
	h.cache.Set(context.Background(), url, resp.Clone(), h.ttl)
	log.Debug(log.CatHistory, "cached response", "url", url, "bytes", len(resp.Body))
}

// CachedResponse returns a previously stored response for url, refreshing
// its TTL on the way out.
func (h *History) CachedResponse(url string) (*gemini.Response, bool) {
	if h.cache == nil {
		return nil, false
	}
	resp, ok := h.cache.GetWithRefresh(context.Background(), url, h.ttl)
	if !ok {
		return nil, false
	}
	return resp.Clone(), true
}

// InvalidateCachedResponse drops the cached response for url, forcing the
// next visit to fetch.
func (h *History) InvalidateCachedResponse(url string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(context.Background(), url); err != nil {
		log.ErrorErr(log.CatHistory, "cache delete failed", err)
	}
}

// Restore replaces the stack with saved entries, placing the cursor on the
// newest one.
func (h *History) Restore(entries []Entry) {
	h.entries = append(h.entries[:0], entries...)
	h.pos = len(h.entries) - 1
}
