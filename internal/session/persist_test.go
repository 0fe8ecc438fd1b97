package session_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/gemview/internal/gemini"
	"github.com/zjrosen/gemview/internal/session"
)

func TestSession_SerializeRoundTrip(t *testing.T) {
	s, f := newTestSession(t)
	now := time.Now()
	s.SetViewport(60, 10)

	s.Navigate("gemini://example/a")
	f.Last().Respond(gemini.StatusSuccess, "text/gemini",
		[]byte(strings.Repeat("line\n", 50)))
	s.ProcessUpdate(now)
	s.ScrollTo(20, now)

	s.Navigate("gemini://example/b")
	f.Last().Respond(gemini.StatusSuccess, "text/gemini", []byte("# B\n"))
	s.ProcessUpdate(now)

	saved := s.Serialize()
	require.Contains(t, saved, "url gemini://example/b\n")
	require.Contains(t, saved, "zoom 0\n")
	require.Contains(t, saved, "gemini://example/a\n")

	restored, rf := newTestSession(t)
	require.NoError(t, restored.Deserialize(saved))

	// The saved URL is fetched again on restore.
	require.Equal(t, 1, rf.Count())
	require.Equal(t, "gemini://example/b", rf.Last().URL())

	// The stack and its scroll positions came back.
	entries := restored.History().Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "gemini://example/a", entries[0].URL)
	require.InDelta(t, 0.5, entries[0].NormScrollY, 0.01)
}

func TestSession_DeserializeDropsPointerMarkerURL(t *testing.T) {
	// A corrupted saved state with a debug pointer appended to URLs. The
	// corrupt URLs are discarded, not truncated and fetched.
	saved := "url gemini://example/ok ptr:0xdeadbeef\n" +
		"zoom 0\n" +
		"hist 0.0000 gemini://example/ok ptr:0xdeadbeef\n" +
		"hist 0.2000 gemini://example/good\n"

	restored, rf := newTestSession(t)
	require.NoError(t, restored.Deserialize(saved))

	// No fetch of a guessed URL.
	require.Equal(t, 0, rf.Count())
	entries := restored.History().Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "gemini://example/good", entries[0].URL)

	// And serializing never writes the marker back out.
	require.NotContains(t, restored.Serialize(), "ptr:0x")
}

func TestSession_DeserializeSkipsUnknownLines(t *testing.T) {
	restored, rf := newTestSession(t)
	saved := "future-field whatever\nurl gemini://example/\nbogus\n"
	require.NoError(t, restored.Deserialize(saved))
	require.Equal(t, 1, rf.Count())
}

func TestSession_DeserializeEmptyIsNoOp(t *testing.T) {
	restored, rf := newTestSession(t)
	require.NoError(t, restored.Deserialize(""))
	require.Zero(t, rf.Count())
	require.Equal(t, session.Blank, restored.State())
}

func TestSession_ProgressEventsForLargeBody(t *testing.T) {
	s, f := newTestSession(t)
	ch := subscribe(t, s)
	now := time.Now()

	s.Navigate("gemini://example/big")
	req := f.Last()
	req.SendHeader(gemini.StatusSuccess, "text/plain")

	small := bytes.Repeat([]byte("a"), 1000)
	req.SendBody(append(small, '\n'))
	s.ProcessUpdate(now)
	require.Empty(t, eventsOf[session.FetchProgress](drainEvents(ch)))

	big := bytes.Repeat([]byte("b"), 250000)
	req.SendBody(append(big, '\n'))
	s.ProcessUpdate(now)

	progress := eventsOf[session.FetchProgress](drainEvents(ch))
	require.NotEmpty(t, progress)
	require.GreaterOrEqual(t, progress[0].Bytes, 250000)
}
