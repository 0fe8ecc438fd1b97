package session

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/gemview/internal/content"
	"github.com/zjrosen/gemview/internal/gemini"
	"github.com/zjrosen/gemview/internal/gemtext"
	"github.com/zjrosen/gemview/internal/log"
	"github.com/zjrosen/gemview/internal/pubsub"
)

// Navigate resolves target against the current URL and fetches it as a new
// history entry.
func (s *Session) Navigate(target string) {
	url := target
	if s.url != "" {
		if abs := gemini.AbsoluteURL(s.url, target); abs != "" {
			url = abs
		}
	}
	s.visit(url)
}

// Back moves to the previous history entry. Returns false at the oldest.
func (s *Session) Back() bool {
	s.recordScroll()
	e, ok := s.hist.Back()
	if !ok {
		return false
	}
	s.startFetch(e.URL, 0)
	return true
}

// Forward moves to the next history entry. Returns false at the newest.
func (s *Session) Forward() bool {
	s.recordScroll()
	e, ok := s.hist.Forward()
	if !ok {
		return false
	}
	s.startFetch(e.URL, 0)
	return true
}

// GoParent navigates to the enclosing directory of the current URL.
func (s *Session) GoParent() {
	if p := gemini.ParentURL(s.url); p != s.url {
		s.visit(p)
	}
}

// GoRoot navigates to the capsule root of the current URL.
func (s *Session) GoRoot() {
	if r := gemini.RootURL(s.url); r != s.url {
		s.visit(r)
	}
}

// Reload drops the cached response for the current URL and fetches it
// again.
func (s *Session) Reload() {
	if s.url == "" {
		return
	}
	s.hist.InvalidateCachedResponse(s.url)
	s.startFetch(s.url, 0)
}

// OpenLink activates a link of the current document. Unsupported schemes
// are handed to the UI as an external-link event.
func (s *Session) OpenLink(id gemtext.LinkID) bool {
	link := s.doc.Link(id)
	if link == nil {
		return false
	}
	url := gemini.AbsoluteURL(s.url, link.URL)
	if url == "" {
		return false
	}
	if link.Flags&gemtext.LinkSupported == 0 {
		s.broker.Publish(pubsub.UpdatedEvent, ExternalLinkRequested{URL: url})
		return true
	}
	s.visit(url)
	return true
}

// SubmitInput answers a pending input prompt by re-requesting the
// prompting URL with the value as its query.
func (s *Session) SubmitInput(input string) {
	if s.pendingInputURL == "" {
		return
	}
	url := gemini.QueryURL(s.pendingInputURL, input)
	s.pendingInputURL = ""
	s.visit(url)
}

// visit records the current scroll position, pushes a history entry and
// starts the fetch.
func (s *Session) visit(url string) {
	s.recordScroll()
	s.hist.Add(url)
	s.startFetch(url, 0)
}

func (s *Session) recordScroll() {
	if s.url == "" {
		return
	}
	s.hist.SetScroll(s.NormScroll(time.Now()))
}

// startFetch begins loading url. redirectCount carries the hop count
// through automatic redirects; fresh navigations pass 0.
func (s *Session) startFetch(url string, redirectCount int) {
	s.cancelRequest()
	s.cancelMediaFetches()

	s.url = url
	s.redirectCount = redirectCount
	s.gotHeader = false
	s.progressSent = false
	s.pendingInputURL = ""
	s.cert = gemini.CertInfo{}
	s.foundRun = nil

	if resp, ok := s.hist.CachedResponse(url); ok {
		log.Info(log.CatSession, "serving from cache", "url", url)
		s.setState(Fetching)
		s.checkResponse(resp, true, time.Now())
		return
	}

	log.Info(log.CatNet, "fetch", "url", url, "hop", redirectCount)
	s.setState(Fetching)
	s.req = s.fetcher.Fetch(url, gemini.Callbacks{
		Updated:  func(uuid.UUID) { s.coalescer.Raise() },
		Finished: func(uuid.UUID) { s.coalescer.Raise() },
	})
}

// CancelFetch aborts an in-flight request. If nothing of the new document
// has been shown yet, the view returns to the previous history entry.
func (s *Session) CancelFetch() {
	if s.req == nil {
		return
	}
	hadContent := s.state == PartialResponse && s.doc.Height() > 0
	s.cancelRequest()
	if hadContent {
		s.setState(Ready)
		return
	}
	if e, ok := s.hist.Back(); ok {
		s.startFetch(e.URL, 0)
		return
	}
	if s.doc.Height() > 0 {
		s.setState(Ready)
	} else {
		s.setState(Blank)
	}
}

func (s *Session) cancelRequest() {
	if s.req == nil {
		return
	}
	s.req.Cancel()
	s.req = nil
}

// ProcessUpdate drains the coalesced notification slot and folds any new
// response data into the document. The event loop calls it once per
// RequestUpdated event; a notification raised while it runs results in one
// more event, never a lost update.
func (s *Session) ProcessUpdate(now time.Time) {
	if !s.coalescer.Drain() {
		return
	}
	s.processMedia(now)
	if s.req == nil {
		return
	}
	// Finished shares the request mutex with LockResponse; read it first.
	finished := s.req.Finished()
	resp, release := s.req.LockResponse()
	snap := resp.Clone()
	release()
	s.checkResponse(snap, finished, now)
}

// checkResponse advances the state machine with the response as received
// so far. It runs once per coalesced notification; the first call that
// sees the header dispatches on the status category, later calls stream
// body updates.
func (s *Session) checkResponse(resp *gemini.Response, finished bool, now time.Time) {
	if resp.Status == gemini.StatusNone {
		if finished {
			s.finishRequest()
			s.showErrorPage(gemini.StatusUnknown, "")
		}
		return
	}

	if !s.gotHeader {
		s.gotHeader = true
		s.cert = resp.Cert
		s.verifyCert(resp)

		switch gemini.CategoryOf(resp.Status) {
		case gemini.CategoryInput:
			s.pendingInputURL = s.url
			s.finishRequest()
			s.setState(Ready)
			s.broker.Publish(pubsub.UpdatedEvent, InputRequired{
				URL:       s.url,
				Prompt:    resp.Meta,
				Sensitive: resp.Status == gemini.StatusSensitiveInput,
			})
			return

		case gemini.CategoryRedirect:
			s.handleRedirect(resp)
			return

		case gemini.CategorySuccess:
			s.resolved = content.Resolve(resp.Meta)
			if !s.resolved.Supported() {
				s.finishRequest()
				s.showErrorPage(gemini.StatusUnsupportedMimeType, resp.Meta)
				return
			}
			s.sourceMime = s.resolved.MIME
			s.sourceTime = now
			s.doc.Reset()
			s.doc.SetFormat(s.resolved.Format)
			s.scrollY.Set(0)
			s.wide.reset()
			if s.resolved.Media != content.MediaNone {
				s.initSelfMediaDocument()
			}
			s.setState(PartialResponse)

		default:
			s.finishRequest()
			s.showErrorPage(resp.Status, resp.Meta)
			return
		}
	}

	if gemini.IsSuccess(resp.Status) {
		s.updateDocument(resp, finished, now)
	}

	if finished {
		s.finishRequest()
		if cacheable(s.url, s.sourceMime) {
			s.hist.StoreCachedResponse(s.url, resp)
		}
		s.setState(Ready)
		s.restoreScrollFromHistory(now)
	}
}

// updateDocument folds the body received so far into the document. The
// document is rebuilt from the full accumulated body each time, so a body
// delivered in any chunking lays out identically to one delivered at once.
func (s *Session) updateDocument(resp *gemini.Response, finished bool, now time.Time) {
	switch s.resolved.Media {
	case content.MediaNone:
		text, err := content.Transcode(resp.Body, s.resolved.Charset)
		if err != nil {
			log.Warn(log.CatContent, "transcode failed, using raw bytes", "charset", s.resolved.Charset)
			text = resp.Body
		}
		src := string(text)
		if src != s.doc.Source() {
			s.doc.SetSource(src, s.width)
			s.documentChanged()
		}

	case content.MediaImage:
		// Images render only once complete; a partial image is garbage.
		if finished {
			s.doc.Media().SetData(1, s.resolved.MIME, resp.Body, gemtext.MediaAllowHide)
			s.doc.RedoLayout()
			s.documentChanged()
		}

	case content.MediaAudio:
		// Audio is usable while it streams.
		flags := gemtext.MediaAllowHide
		if !finished {
			flags |= gemtext.MediaPartial
		}
		if s.doc.Media().SetData(1, s.resolved.MIME, resp.Body, flags) {
			s.doc.RedoLayout()
			s.documentChanged()
		} else if run := s.mediaRun(1); run != nil {
			s.invalidateRun(run)
			s.broker.Publish(pubsub.UpdatedEvent, RunsInvalidated{Count: s.invalid.Len()})
		}
	}

	if len(resp.Body) >= progressThreshold {
		if !s.progressSent {
			s.progressSent = true
			log.Debug(log.CatNet, "large response", "url", s.url, "bytes", len(resp.Body))
		}
		s.broker.Publish(pubsub.UpdatedEvent, FetchProgress{URL: s.url, Bytes: len(resp.Body)})
	}
}

// initSelfMediaDocument synthesizes a one-link page for a fetch whose
// content is itself an image or audio file.
func (s *Session) initSelfMediaDocument() {
	name := gemini.BaseName(s.url)
	if name == "" {
		name = s.url
	}
	s.doc.SetFormat(content.FormatGemtext)
	s.doc.SetSource("=> "+s.url+" "+name+"\n", s.width)
}

func (s *Session) handleRedirect(resp *gemini.Response) {
	s.finishRequest()

	// An empty meta would resolve to the current URL; treat it as no
	// destination at all.
	dst := ""
	if target := strings.TrimSpace(resp.Meta); target != "" {
		dst = gemini.AbsoluteURL(s.url, target)
	}
	switch {
	case dst == "":
		s.showErrorPage(gemini.StatusInvalidRedirect, resp.Meta)

	case s.redirectCount >= maxRedirects:
		s.showErrorPage(gemini.StatusTooManyRedirects, dst)

	case gemini.Scheme(dst) != gemini.Scheme(s.url):
		s.showErrorPage(gemini.StatusSchemeChangeRedirect, dst)

	default:
		hop := s.redirectCount + 1
		log.Info(log.CatNet, "redirect", "from", s.url, "to", dst, "hop", hop)
		s.broker.Publish(pubsub.UpdatedEvent, RedirectFollowed{From: s.url, To: dst, Hop: hop})
		s.hist.Replace(dst)
		s.startFetch(dst, hop)
	}
}

func (s *Session) finishRequest() {
	if s.req != nil {
		s.req.Cancel()
		s.req = nil
	}
}

// restoreScrollFromHistory jumps to the scroll position recorded when this
// URL was last left, so back/forward lands where the reader was.
func (s *Session) restoreScrollFromHistory(now time.Time) {
	cur, ok := s.hist.Current()
	if !ok || cur.URL != s.url || cur.NormScrollY <= 0 {
		return
	}
	span := s.doc.Height() - s.height
	if span <= 0 {
		return
	}
	s.scrollY.Set(float64(s.clampScrollValue(int(cur.NormScrollY * float64(span)))))
}

func (s *Session) verifyCert(resp *gemini.Response) {
	if s.trust == nil || resp.Cert.Flags&gemini.CertHaveFingerprint == 0 {
		return
	}
	host := gemini.Host(s.url)
	if s.trust.Verify(host, resp.Cert.Fingerprint, resp.Cert.ValidUntil) {
		s.cert.Flags |= gemini.CertTrusted
		return
	}
	log.Warn(log.CatNet, "certificate mismatch", "host", host)
	s.broker.Publish(pubsub.UpdatedEvent, CertWarning{
		Host:        host,
		Fingerprint: resp.Cert.Fingerprint,
	})
}
