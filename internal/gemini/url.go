package gemini

import (
	"net/url"
	"strings"
)

const defaultPort = "1965"

// Scheme returns the lower-cased scheme of rawURL, or "" if unparseable.
func Scheme(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

// AbsoluteURL resolves ref against base. A ref that is already absolute is
// returned as-is (normalized); a malformed ref resolves to "".
func AbsoluteURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}

// QueryURL returns rawURL with its query replaced by the percent-encoded
// input value. Used when submitting input-status prompts.
func QueryURL(rawURL, input string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = url.QueryEscape(input)
	return u.String()
}

// ParentURL strips the last path segment, yielding the enclosing directory.
// Returns rawURL unchanged when already at the root.
func ParentURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	p := strings.TrimSuffix(u.Path, "/")
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return rawURL
	}
	u.Path = p[:idx+1]
	u.RawQuery = ""
	return u.String()
}

// RootURL strips the entire path, yielding the capsule root.
func RootURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Path = "/"
	u.RawQuery = ""
	return u.String()
}

// Host returns the host of rawURL, without the port.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// DialAddress returns the host:port to connect to, applying the default
// Gemini port when the URL does not name one.
func DialAddress(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	port := u.Port()
	if port == "" {
		port = defaultPort
	}
	return u.Hostname() + ":" + port
}

// BaseName returns the final path segment of the URL, for media link
// titles and save-file names. Empty when the URL has no path.
func BaseName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	p := strings.Trim(u.Path, "/")
	if p == "" {
		return ""
	}
	if idx := strings.LastIndex(p, "/"); idx >= 0 {
		return p[idx+1:]
	}
	return p
}
