package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zjrosen/gemview/internal/content"
	"github.com/zjrosen/gemview/internal/gemini"
	"github.com/zjrosen/gemview/internal/log"
	"github.com/zjrosen/gemview/internal/pubsub"
)

// showErrorPage replaces the document with a locally synthesized page for
// the status code. meta carries the server's message, or for redirect
// failures the destination URL, which is included as a link so the user
// can follow it manually.
func (s *Session) showErrorPage(code gemini.StatusCode, meta string) {
	e := gemini.ErrorFor(code)

	var b strings.Builder
	fmt.Fprintf(&b, "# %c %s\n\n%s\n", e.Icon, e.Title, e.Info)

	switch code {
	case gemini.StatusSlowDown:
		if secs, err := strconv.Atoi(strings.TrimSpace(meta)); err == nil && secs > 0 {
			fmt.Fprintf(&b, "\nWait %d seconds before retrying.\n", secs)
		}

	case gemini.StatusUnsupportedMimeType:
		if meta != "" {
			fmt.Fprintf(&b, "\nContent type: %s\n", meta)
		}

	case gemini.StatusTooManyRedirects,
		gemini.StatusSchemeChangeRedirect,
		gemini.StatusInvalidRedirect:
		if meta != "" {
			fmt.Fprintf(&b, "\n=> %s %s\n", meta, meta)
		}

	default:
		if meta != "" {
			fmt.Fprintf(&b, "\nServer message: %s\n", meta)
		}
	}

	log.Warn(log.CatSession, "error page", "url", s.url, "code", int(code))

	s.doc.Reset()
	s.doc.SetFormat(content.FormatGemtext)
	s.doc.SetSource(b.String(), s.width)
	s.scrollY.Set(0)
	s.wide.reset()
	s.setState(Ready)
	s.documentChanged()
	s.broker.Publish(pubsub.UpdatedEvent, FetchFailed{URL: s.url, Code: code})
}
