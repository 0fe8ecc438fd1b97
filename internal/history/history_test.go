package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/gemview/internal/cachemanager"
	"github.com/zjrosen/gemview/internal/gemini"
)

func newTestHistory() *History {
	cache := cachemanager.NewInMemoryCacheManager[string, *gemini.Response](
		"history-test", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	return New(cache)
}

func TestHistory_BackForward(t *testing.T) {
	h := newTestHistory()
	require.False(t, h.CanGoBack())
	require.False(t, h.CanGoForward())

	h.Add("gemini://a/")
	h.Add("gemini://b/")
	h.Add("gemini://c/")

	e, ok := h.Back()
	require.True(t, ok)
	require.Equal(t, "gemini://b/", e.URL)
	require.True(t, h.CanGoForward())

	e, ok = h.Back()
	require.True(t, ok)
	require.Equal(t, "gemini://a/", e.URL)
	require.False(t, h.CanGoBack())
	_, ok = h.Back()
	require.False(t, ok)

	e, ok = h.Forward()
	require.True(t, ok)
	require.Equal(t, "gemini://b/", e.URL)
}

func TestHistory_AddTruncatesForward(t *testing.T) {
	h := newTestHistory()
	h.Add("gemini://a/")
	h.Add("gemini://b/")
	h.Back()

	h.Add("gemini://c/")
	require.False(t, h.CanGoForward())
	require.Equal(t, []Entry{{URL: "gemini://a/"}, {URL: "gemini://c/"}}, h.Entries())
}

func TestHistory_AddCurrentIsNoOp(t *testing.T) {
	h := newTestHistory()
	h.Add("gemini://a/")
	h.Add("gemini://a/")
	require.Equal(t, 1, h.Len())
}

func TestHistory_Replace(t *testing.T) {
	h := newTestHistory()
	h.Replace("gemini://first/")
	require.Equal(t, 1, h.Len())

	h.Add("gemini://requested/")
	h.Replace("gemini://redirected/")
	cur, ok := h.Current()
	require.True(t, ok)
	require.Equal(t, "gemini://redirected/", cur.URL)
	require.Equal(t, 2, h.Len())
}

func TestHistory_ScrollPositionSurvivesNavigation(t *testing.T) {
	h := newTestHistory()
	h.Add("gemini://a/")
	h.SetScroll(0.75)
	h.Add("gemini://b/")

	e, ok := h.Back()
	require.True(t, ok)
	require.InDelta(t, 0.75, e.NormScrollY, 1e-9)

	h.SetScroll(-1)
	cur, _ := h.Current()
	require.Zero(t, cur.NormScrollY)
}

func TestHistory_CachedResponse(t *testing.T) {
	h := newTestHistory()
	resp := &gemini.Response{
		Status: gemini.StatusSuccess,
		Meta:   "text/gemini",
		Body:   []byte("# cached\n"),
	}
	h.StoreCachedResponse("gemini://a/", resp)

	got, ok := h.CachedResponse("gemini://a/")
	require.True(t, ok)
	require.Equal(t, resp.Body, got.Body)

	// The cache holds a copy, not the caller's response.
	got.Body[0] = 'X'
	again, ok := h.CachedResponse("gemini://a/")
	require.True(t, ok)
	require.Equal(t, byte('#'), again.Body[0])

	h.InvalidateCachedResponse("gemini://a/")
	_, ok = h.CachedResponse("gemini://a/")
	require.False(t, ok)
}

func TestHistory_CachedResponseExpires(t *testing.T) {
	cache := cachemanager.NewInMemoryCacheManager[string, *gemini.Response](
		"history-test", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	h := NewWithTTL(cache, time.Millisecond)

	h.StoreCachedResponse("gemini://a/", &gemini.Response{Status: gemini.StatusSuccess})
	time.Sleep(5 * time.Millisecond)

	_, ok := h.CachedResponse("gemini://a/")
	require.False(t, ok)
}

func TestHistory_SaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "history.yaml")

	h := newTestHistory()
	h.Add("gemini://a/")
	h.SetScroll(0.5)
	h.Add("gemini://b/")
	require.NoError(t, h.SaveFile(path))

	restored := newTestHistory()
	require.NoError(t, restored.LoadFile(path))
	require.Equal(t, h.Entries(), restored.Entries())

	// Cursor lands on the newest entry.
	cur, ok := restored.Current()
	require.True(t, ok)
	require.Equal(t, "gemini://b/", cur.URL)
	require.True(t, restored.CanGoBack())
}

func TestHistory_LoadMissingFile(t *testing.T) {
	h := newTestHistory()
	require.NoError(t, h.LoadFile(filepath.Join(t.TempDir(), "nope.yaml")))
	require.Zero(t, h.Len())
}
