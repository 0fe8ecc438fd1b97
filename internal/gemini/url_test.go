package gemini

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAbsoluteURL(t *testing.T) {
	base := "gemini://example.org/docs/spec.gmi"

	require.Equal(t, "gemini://example.org/a", AbsoluteURL(base, "/a"))
	require.Equal(t, "gemini://example.org/docs/a", AbsoluteURL(base, "a"))
	require.Equal(t, "gemini://other.net/", AbsoluteURL(base, "gemini://other.net/"))
	require.Equal(t, "https://example.com/x", AbsoluteURL(base, "https://example.com/x"))
	// Leading/trailing whitespace in redirect metas is tolerated.
	require.Equal(t, "gemini://example.org/a", AbsoluteURL(base, " /a "))
}

func TestScheme(t *testing.T) {
	require.Equal(t, "gemini", Scheme("gemini://example.org/"))
	require.Equal(t, "gemini", Scheme("GEMINI://EXAMPLE.ORG/"))
	require.Equal(t, "https", Scheme("https://example.com"))
	require.Equal(t, "", Scheme("://bad"))
}

func TestQueryURL(t *testing.T) {
	require.Equal(t, "gemini://e/search?hello+world", QueryURL("gemini://e/search", "hello world"))
	// Existing query is replaced, not appended.
	require.Equal(t, "gemini://e/search?b", QueryURL("gemini://e/search?a", "b"))
}

func TestParentAndRootURL(t *testing.T) {
	require.Equal(t, "gemini://e/docs/", ParentURL("gemini://e/docs/spec.gmi"))
	require.Equal(t, "gemini://e/", ParentURL("gemini://e/docs/"))
	require.Equal(t, "gemini://e/", RootURL("gemini://e/docs/spec.gmi?q"))
}

func TestDialAddress(t *testing.T) {
	require.Equal(t, "example.org:1965", DialAddress("gemini://example.org/page"))
	require.Equal(t, "example.org:1966", DialAddress("gemini://example.org:1966/"))
}

func TestBaseName(t *testing.T) {
	require.Equal(t, "photo.png", BaseName("gemini://e/images/photo.png"))
	require.Equal(t, "images", BaseName("gemini://e/images/"))
	require.Equal(t, "", BaseName("gemini://e/"))
}
