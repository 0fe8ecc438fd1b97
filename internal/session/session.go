// Package session implements the document view controller: it owns the
// fetch state machine, the laid-out document, the navigation history
// cursor, and the render caches that decide how little of the screen a
// change needs to repaint.
//
// All methods are called from the owning event loop. Network goroutines
// never touch session state; they raise a coalesced notification and the
// loop calls ProcessUpdate.
package session

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/zjrosen/gemview/internal/anim"
	"github.com/zjrosen/gemview/internal/content"
	"github.com/zjrosen/gemview/internal/gemini"
	"github.com/zjrosen/gemview/internal/gemtext"
	"github.com/zjrosen/gemview/internal/history"
	"github.com/zjrosen/gemview/internal/log"
	"github.com/zjrosen/gemview/internal/pubsub"
	"github.com/zjrosen/gemview/internal/render"
)

// State is the fetch/display phase of the session.
type State int

const (
	// Blank means no document has been requested yet.
	Blank State = iota
	// Fetching means a request is in flight with no header yet.
	Fetching
	// PartialResponse means body bytes are streaming into the document.
	PartialResponse
	// Ready means the document is complete (or an error page is shown).
	Ready
)

func (s State) String() string {
	switch s {
	case Blank:
		return "blank"
	case Fetching:
		return "fetching"
	case PartialResponse:
		return "partial"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// maxRedirects bounds automatic same-scheme redirect following.
const maxRedirects = 5

// progressThreshold is the body size above which FetchProgress events are
// published while streaming.
const progressThreshold = 250000

// smoothScrollDuration is the eased motion time for keyboard scrolling.
const smoothScrollDuration = 120 * time.Millisecond

// Verifier checks a server certificate against the pinned fingerprint for
// its host. Implementations are free to persist pins.
type Verifier interface {
	// Verify returns true when the fingerprint matches the pin (pinning it
	// first on an unknown host), false on a mismatch.
	Verify(host string, fingerprint []byte, validUntil time.Time) bool
}

// Session is one document view. Create with New, drive with Navigate and
// ProcessUpdate, observe through Events.
type Session struct {
	fetcher gemini.Fetcher
	broker  *pubsub.Broker[Event]
	hist    *history.History
	trust   Verifier

	url   string
	state State

	req           gemini.Request
	gotHeader     bool
	redirectCount int
	progressSent  bool

	sourceMime string
	sourceTime time.Time
	resolved   content.Resolved

	pendingInputURL string

	doc  *gemtext.Document
	cert gemini.CertInfo

	width, height int

	visBuf  *render.VisBuf
	invalid *render.RunSet

	scrollY *anim.Anim
	anims   *anim.Registry

	wide wideState

	media []*mediaFetch

	coalescer *pubsub.Coalescer

	smoothScrolling bool

	searchQuery string
	foundRun    *gemtext.Run

	hoverLink gemtext.LinkID
}

// New creates a blank session. The history's cached responses back
// instant back/forward navigation.
func New(fetcher gemini.Fetcher, hist *history.History) *Session {
	s := &Session{
		fetcher:         fetcher,
		broker:          pubsub.NewBroker[Event](),
		hist:            hist,
		state:           Blank,
		doc:             gemtext.NewDocument(),
		visBuf:          render.NewVisBuf(),
		invalid:         render.NewRunSet(),
		scrollY:         anim.New(0),
		anims:           anim.NewRegistry(),
		smoothScrolling: true,
	}
	s.wide.init()
	s.coalescer = pubsub.NewCoalescer(func() {
		s.broker.Publish(pubsub.UpdatedEvent, RequestUpdated{})
	})
	return s
}

// SetVerifier installs a certificate pin checker.
func (s *Session) SetVerifier(v Verifier) {
	s.trust = v
}

// SetSmoothScrolling toggles eased scrolling motion.
func (s *Session) SetSmoothScrolling(on bool) {
	s.smoothScrolling = on
}

// SmoothScrolling reports whether eased scrolling motion is on.
func (s *Session) SmoothScrolling() bool {
	return s.smoothScrolling
}

// Events is the session's broker; subscribe for state and content changes.
func (s *Session) Events() *pubsub.Broker[Event] {
	return s.broker
}

// Close cancels any in-flight requests and shuts the broker down.
func (s *Session) Close() {
	s.cancelRequest()
	s.cancelMediaFetches()
	s.broker.Close()
}

// URL returns the address of the current document (or fetch target).
func (s *Session) URL() string {
	return s.url
}

// State returns the current fetch phase.
func (s *Session) State() State {
	return s.state
}

// Doc returns the laid-out document.
func (s *Session) Doc() *gemtext.Document {
	return s.doc
}

// History returns the navigation stack.
func (s *Session) History() *history.History {
	return s.hist
}

// CertInfo returns certificate metadata of the current document's
// response.
func (s *Session) CertInfo() gemini.CertInfo {
	return s.cert
}

// VisBuf returns the row cache the renderer draws through.
func (s *Session) VisBuf() *render.VisBuf {
	return s.visBuf
}

// InvalidRuns returns the set of runs needing an in-place repaint. The
// renderer drains it each frame; each drained run's rows are repainted at
// full width so shrinking content leaves no residue.
func (s *Session) InvalidRuns() *render.RunSet {
	return s.invalid
}

// Anims returns the registry deciding whether frame ticks are needed.
func (s *Session) Anims() *anim.Registry {
	return s.anims
}

// SetViewport sizes the view. Width changes relayout the document; height
// changes reallocate the row cache. Either forces a full redraw.
func (s *Session) SetViewport(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	widthChanged := width != s.width
	s.width = width
	s.height = height

	s.visBuf.Alloc(height)
	if widthChanged {
		s.doc.SetWidth(width)
		s.wide.reset()
	}
	s.clampScroll()
	s.invalidateAll()
}

// Width returns the layout width.
func (s *Session) Width() int {
	return s.width
}

// Height returns the viewport height in rows.
func (s *Session) Height() int {
	return s.height
}

// ScrollY returns the document row at the top of the viewport at the
// given time, honoring in-flight motion.
func (s *Session) ScrollY(now time.Time) int {
	return int(math.Round(s.scrollY.Value(now)))
}

// VisibleRange returns the document rows in view at the given time.
func (s *Session) VisibleRange(now time.Time) gemtext.Range {
	top := s.ScrollY(now)
	return gemtext.Range{Start: top, End: top + s.height}
}

// ScrollTo moves the viewport top to row y, clamped to the document.
func (s *Session) ScrollTo(y int, now time.Time) {
	target := float64(s.clampScrollValue(y))
	if s.smoothScrolling {
		s.scrollY.AnimateTo(target, smoothScrollDuration, now)
		s.anims.Add(s.scrollY)
	} else {
		s.scrollY.Set(target)
	}
}

// ScrollBy moves the viewport by delta rows relative to the current
// motion target, so held keys accumulate instead of restarting.
func (s *Session) ScrollBy(delta int, now time.Time) {
	s.ScrollTo(int(s.scrollY.Target())+delta, now)
}

// NormScroll returns the scroll position normalized to [0,1].
func (s *Session) NormScroll(now time.Time) float64 {
	span := s.doc.Height() - s.height
	if span <= 0 {
		return 0
	}
	return float64(s.ScrollY(now)) / float64(span)
}

func (s *Session) maxScroll() int {
	m := s.doc.Height() - s.height
	if m < 0 {
		return 0
	}
	return m
}

func (s *Session) clampScrollValue(y int) int {
	if y < 0 {
		return 0
	}
	if m := s.maxScroll(); y > m {
		return m
	}
	return y
}

func (s *Session) clampScroll() {
	s.scrollY.Set(float64(s.clampScrollValue(int(s.scrollY.Target()))))
}

// setState transitions the fetch phase and publishes the change.
func (s *Session) setState(next State) {
	if s.state == next {
		return
	}
	log.Debug(log.CatSession, "state", "from", s.state.String(), "to", next.String(), "url", s.url)
	s.state = next
	s.broker.Publish(pubsub.UpdatedEvent, StateChanged{State: next})
}

// invalidateAll discards every cached row and pending run repaint; the
// next frame redraws the whole viewport.
func (s *Session) invalidateAll() {
	s.visBuf.Invalidate()
	s.invalid.Clear()
}

// invalidateRun queues one run for an in-place repaint and drops its rows
// from the row cache.
func (s *Session) invalidateRun(run *gemtext.Run) {
	if run == nil {
		return
	}
	s.invalid.Add(run, s.doc.Generation())
	s.visBuf.InvalidateRange(run.Bounds.YSpan())
}

// documentChanged is called after any content or layout rebuild. Run
// pointers from the previous layout are stale, so the hover and search
// marks are dropped with it.
func (s *Session) documentChanged() {
	s.hoverLink = 0
	s.foundRun = nil
	s.clampScroll()
	s.invalidateAll()
	s.broker.Publish(pubsub.UpdatedEvent, DocumentChanged{URL: s.url, Title: s.doc.Title()})
}

// Search highlights the next run matching query, wrapping to the top once.
// Returns false when the document has no match.
func (s *Session) Search(query string) bool {
	if query != s.searchQuery {
		if s.foundRun != nil {
			s.invalidateRun(s.foundRun)
		}
		s.searchQuery = query
		s.foundRun = nil
		// Match highlighting ignores horizontal offsets, so scrolled-out
		// blocks snap back where a match could hide.
		for preID := range s.wide.offsets {
			s.invalidateWideBlock(preID)
		}
		s.wide.reset()
	}
	prev := s.foundRun
	found := s.doc.FindText(query, prev)
	if found == nil && prev != nil {
		found = s.doc.FindText(query, nil)
	}
	if found == nil {
		s.foundRun = nil
		return false
	}
	if prev != nil {
		s.invalidateRun(prev)
	}
	s.foundRun = found
	s.invalidateRun(found)
	s.broker.Publish(pubsub.UpdatedEvent, RunsInvalidated{Count: s.invalid.Len()})
	s.ScrollTo(found.Bounds.Y-s.height/3, time.Now())
	return true
}

// FoundRun returns the currently highlighted search match, if any.
func (s *Session) FoundRun() *gemtext.Run {
	return s.foundRun
}

// SetHoverLink marks the link under the pointer, surgically invalidating
// only the runs whose appearance changes. Zero clears the hover. Returns
// true when the hover moved.
func (s *Session) SetHoverLink(id gemtext.LinkID) bool {
	if id == s.hoverLink {
		return false
	}
	prev := s.hoverLink
	s.hoverLink = id
	s.invalidateLinkRuns(prev)
	s.invalidateLinkRuns(id)
	s.broker.Publish(pubsub.UpdatedEvent, RunsInvalidated{Count: s.invalid.Len()})
	return true
}

// HoverLink returns the link currently under the pointer, zero if none.
func (s *Session) HoverLink() gemtext.LinkID {
	return s.hoverLink
}

// invalidateLinkRuns marks every non-decoration run of a link dirty.
func (s *Session) invalidateLinkRuns(id gemtext.LinkID) {
	if id == 0 {
		return
	}
	s.doc.Render(gemtext.Range{Start: 0, End: s.doc.Height()}, func(run *gemtext.Run) {
		if run.LinkID == id && run.Flags&gemtext.RunDecoration == 0 {
			s.invalidateRun(run)
		}
	})
}

// ErrFetchInProgress is returned by SaveSource while a request is live.
var ErrFetchInProgress = errors.New("fetch in progress")

// SourceMime returns the resolved MIME type of the current document.
func (s *Session) SourceMime() string {
	return s.sourceMime
}

// SaveSource writes the document's source text to path. Refused while a
// request is still streaming; the source would be incomplete.
func (s *Session) SaveSource(path string) error {
	if s.req != nil {
		return ErrFetchInProgress
	}
	src := s.doc.Source()
	if src == "" {
		return errors.New("nothing to save")
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		return fmt.Errorf("writing source: %w", err)
	}
	log.Info(log.CatSession, "source saved", "path", path, "bytes", len(src), "mime", s.sourceMime)
	return nil
}

// cacheable reports whether a finished response may be stored for
// back/forward navigation: textual content from a real host.
func cacheable(url, mime string) bool {
	return gemini.Scheme(url) != "about" && strings.HasPrefix(mime, "text/")
}
