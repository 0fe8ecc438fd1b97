package session

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/zjrosen/gemview/internal/history"
)

// persistZoom is reserved in the saved form for a zoom level; the terminal
// renderer has a single zoom, so it is always written as 0 and ignored on
// read.
const persistZoom uint16 = 0

// sanitizeURL drops a URL carrying a stray " ptr:0x" marker. Old saved
// states in the wild contain URLs with a debug pointer accidentally
// appended; such an entry is corrupt and is discarded rather than guessed
// at.
func sanitizeURL(url string) string {
	if strings.Contains(url, " ptr:0x") {
		return ""
	}
	return url
}

// Serialize writes the view state as text: the current URL, the zoom
// placeholder, and the history stack with scroll positions.
func (s *Session) Serialize() string {
	var b strings.Builder
	fmt.Fprintf(&b, "url %s\n", sanitizeURL(s.url))
	fmt.Fprintf(&b, "zoom %d\n", persistZoom)
	for _, e := range s.hist.Entries() {
		fmt.Fprintf(&b, "hist %.4f %s\n", e.NormScrollY, sanitizeURL(e.URL))
	}
	return b.String()
}

// Deserialize restores state saved by Serialize and fetches the saved URL.
// Unknown lines are skipped so older and newer formats load what they can.
func (s *Session) Deserialize(data string) error {
	var url string
	var entries []history.Entry

	sc := bufio.NewScanner(strings.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "url "):
			url = sanitizeURL(strings.TrimSpace(line[4:]))

		case strings.HasPrefix(line, "zoom "):
			// Reserved; nothing to apply.

		case strings.HasPrefix(line, "hist "):
			rest := strings.TrimSpace(line[5:])
			fields := strings.SplitN(rest, " ", 2)
			if len(fields) != 2 {
				continue
			}
			norm, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				continue
			}
			u := sanitizeURL(fields[1])
			if u == "" {
				continue
			}
			entries = append(entries, history.Entry{
				URL:         u,
				NormScrollY: norm,
			})
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading state: %w", err)
	}

	if len(entries) > 0 {
		s.hist.Restore(entries)
	}
	if url != "" {
		s.startFetch(url, 0)
	}
	return nil
}
