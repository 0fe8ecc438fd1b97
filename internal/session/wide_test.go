package session_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/gemview/internal/gemini"
	"github.com/zjrosen/gemview/internal/session"
)

func TestSession_WideBlockScrollAndClamp(t *testing.T) {
	s, f := newTestSession(t)
	now := time.Now()

	line := strings.Repeat("x", 200)
	s.Navigate("gemini://example/wide.txt")
	f.Last().Respond(gemini.StatusSuccess, "text/plain", []byte(line+"\nshort\n"))
	s.ProcessUpdate(now)

	runs := s.Doc().PreRuns(1)
	require.Len(t, runs, 2)
	require.True(t, runs[0].IsWide())
	require.False(t, runs[1].IsWide())

	require.Equal(t, 0, s.WideOffset(1, now))
	require.True(t, s.ScrollWideBlock(1, 30, now))
	require.Equal(t, 30, s.WideOffset(1, now))

	// Clamped to blockWidth - viewWidth.
	require.True(t, s.ScrollWideBlock(1, 10000, now))
	require.Equal(t, 140, s.WideOffset(1, now))
	require.False(t, s.ScrollWideBlock(1, 1, now))

	require.True(t, s.ScrollWideBlock(1, -10000, now))
	require.Equal(t, 0, s.WideOffset(1, now))
	require.False(t, s.ScrollWideBlock(1, -1, now))
}

func TestSession_WideBlockScrollInvalidatesItsRuns(t *testing.T) {
	s, f := newTestSession(t)
	now := time.Now()

	body := strings.Repeat("y", 300)
	s.Navigate("gemini://example/wide.txt")
	f.Last().Respond(gemini.StatusSuccess, "text/plain", []byte(body+"\n"+body+"\n"))
	s.ProcessUpdate(now)

	require.Zero(t, s.InvalidRuns().Len())
	require.True(t, s.ScrollWideBlock(1, 10, now))

	invalid := s.InvalidRuns().Drain()
	require.Len(t, invalid, 2)
	for _, run := range invalid {
		require.Equal(t, uint16(1), run.PreID)
	}
}

func TestSession_WideBlockNarrowerThanViewDoesNotScroll(t *testing.T) {
	s, f := newTestSession(t)
	now := time.Now()

	s.Navigate("gemini://example/note.txt")
	f.Last().Respond(gemini.StatusSuccess, "text/plain", []byte("short line\n"))
	s.ProcessUpdate(now)

	require.False(t, s.ScrollWideBlock(1, 10, now))
	require.Zero(t, s.InvalidRuns().Len())
}

func TestSession_WideOffsetsResetOnResize(t *testing.T) {
	s, f := newTestSession(t)
	now := time.Now()

	s.Navigate("gemini://example/wide.txt")
	f.Last().Respond(gemini.StatusSuccess, "text/plain",
		[]byte(strings.Repeat("z", 200)+"\n"))
	s.ProcessUpdate(now)

	require.True(t, s.ScrollWideBlock(1, 50, now))
	require.Equal(t, 50, s.WideOffset(1, now))

	s.SetViewport(80, 20)
	require.Equal(t, 0, s.WideOffset(1, now))
}

func TestSession_WideAnimationTicksUntilDone(t *testing.T) {
	s, f := newTestSession(t)
	s.SetSmoothScrolling(true)
	now := time.Now()

	s.Navigate("gemini://example/wide.txt")
	f.Last().Respond(gemini.StatusSuccess, "text/plain",
		[]byte(strings.Repeat("w", 200)+"\n"))
	s.ProcessUpdate(now)

	require.True(t, s.ScrollWideBlock(1, 40, now))
	// Motion in progress: offset between endpoints, ticks requested.
	mid := s.WideOffset(1, now.Add(30*time.Millisecond))
	require.Greater(t, mid, 0)
	require.LessOrEqual(t, mid, 40)
	require.True(t, s.TickAnimations(now.Add(30*time.Millisecond)))
	require.NotZero(t, s.InvalidRuns().Len())

	// After the easing duration the offset settles and ticking stops.
	later := now.Add(time.Second)
	require.Equal(t, 40, s.WideOffset(1, later))
	s.TickAnimations(later)
	require.False(t, s.TickAnimations(later))
}

func TestSession_SearchHighlightsAndWraps(t *testing.T) {
	s, f := newTestSession(t)
	now := time.Now()

	s.Navigate("gemini://example/")
	f.Last().Respond(gemini.StatusSuccess, "text/gemini",
		[]byte("alpha\nbeta\nalpha again\n"))
	s.ProcessUpdate(now)

	require.True(t, s.Search("alpha"))
	first := s.FoundRun()
	require.NotNil(t, first)
	require.Equal(t, 0, first.Bounds.Y)

	require.True(t, s.Search("alpha"))
	require.Equal(t, 2, s.FoundRun().Bounds.Y)

	// Wraps back to the first match.
	require.True(t, s.Search("alpha"))
	require.Equal(t, 0, s.FoundRun().Bounds.Y)

	require.False(t, s.Search("nothing here"))
	require.Nil(t, s.FoundRun())
}

func TestSession_CertVerification(t *testing.T) {
	now := time.Now()

	t.Run("trusted pin sets the flag", func(t *testing.T) {
		s, f := newTestSession(t)
		s.SetVerifier(verifierFunc(func(host string, fp []byte, _ time.Time) bool {
			return host == "example" && string(fp) == "abc"
		}))

		s.Navigate("gemini://example/")
		req := f.Last()
		req.SetCert(gemini.CertInfo{
			Fingerprint: []byte("abc"),
			Flags:       gemini.CertAvailable | gemini.CertHaveFingerprint,
		})
		req.Respond(gemini.StatusSuccess, "text/gemini", []byte("# Hi\n"))
		s.ProcessUpdate(now)

		require.True(t, s.CertInfo().Flags.Has(gemini.CertTrusted))
	})

	t.Run("mismatch publishes a warning", func(t *testing.T) {
		s, f := newTestSession(t)
		ch := subscribe(t, s)
		s.SetVerifier(verifierFunc(func(string, []byte, time.Time) bool { return false }))

		s.Navigate("gemini://example/")
		req := f.Last()
		req.SetCert(gemini.CertInfo{
			Fingerprint: []byte("evil"),
			Flags:       gemini.CertAvailable | gemini.CertHaveFingerprint,
		})
		req.Respond(gemini.StatusSuccess, "text/gemini", []byte("# Hi\n"))
		s.ProcessUpdate(now)

		require.False(t, s.CertInfo().Flags.Has(gemini.CertTrusted))
		warnings := eventsOf[session.CertWarning](drainEvents(ch))
		require.Len(t, warnings, 1)
		require.Equal(t, "example", warnings[0].Host)
	})
}

type verifierFunc func(host string, fingerprint []byte, validUntil time.Time) bool

func (f verifierFunc) Verify(host string, fingerprint []byte, validUntil time.Time) bool {
	return f(host, fingerprint, validUntil)
}

func TestSession_NewSearchResetsWideOffsets(t *testing.T) {
	s, f := newTestSession(t)
	now := time.Now()

	s.Navigate("gemini://example/wide.txt")
	f.Last().Respond(gemini.StatusSuccess, "text/plain",
		[]byte(strings.Repeat("x", 200)+"\nneedle here\n"))
	s.ProcessUpdate(now)

	require.True(t, s.ScrollWideBlock(1, 40, now))
	require.Equal(t, 40, s.WideOffset(1, now))

	require.True(t, s.Search("needle"))
	require.Equal(t, 0, s.WideOffset(1, now))

	// Repeating the same query leaves offsets alone.
	require.True(t, s.ScrollWideBlock(1, 20, now))
	require.True(t, s.Search("needle"))
	require.Equal(t, 20, s.WideOffset(1, now))
}
