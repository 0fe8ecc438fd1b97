package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/gemview/internal/content"
	"github.com/zjrosen/gemview/internal/gemini"
	"github.com/zjrosen/gemview/internal/gemtext"
	"github.com/zjrosen/gemview/internal/log"
	"github.com/zjrosen/gemview/internal/pubsub"
)

// mediaFetch is one background request for a link's inline content.
type mediaFetch struct {
	linkID gemtext.LinkID
	url    string
	req    gemini.Request
	done   bool
}

// FetchMedia starts loading a media link's content inline. If the content
// is already loaded the call toggles its visibility instead. Returns false
// when the link is not a media link or its target cannot be fetched.
func (s *Session) FetchMedia(id gemtext.LinkID) bool {
	link := s.doc.Link(id)
	if link == nil || link.Flags&(gemtext.LinkImage|gemtext.LinkAudio) == 0 {
		return false
	}

	if _, _, flags, ok := s.doc.Media().ForLink(id); ok && flags&gemtext.MediaPartial == 0 {
		s.toggleMediaHidden(id, flags)
		return true
	}

	for _, mf := range s.media {
		if mf.linkID == id && !mf.done {
			return true
		}
	}

	url := gemini.AbsoluteURL(s.url, link.URL)
	if url == "" || link.Flags&gemtext.LinkSupported == 0 {
		return false
	}

	log.Info(log.CatMedia, "inline fetch", "url", url, "link", int(id))
	mf := &mediaFetch{linkID: id, url: url}
	mf.req = s.fetcher.Fetch(url, gemini.Callbacks{
		Updated:  func(uuid.UUID) { s.coalescer.Raise() },
		Finished: func(uuid.UUID) { s.coalescer.Raise() },
	})
	s.media = append(s.media, mf)
	return true
}

func (s *Session) toggleMediaHidden(id gemtext.LinkID, flags gemtext.MediaFlags) {
	if flags&gemtext.MediaAllowHide == 0 {
		return
	}
	hidden := flags&gemtext.MediaHidden == 0
	if s.doc.Media().SetHidden(id, hidden) {
		s.doc.RedoLayout()
		s.documentChanged()
	}
}

// processMedia folds progress of inline fetches into the media store.
// Images attach only once complete; audio attaches progressively. A store
// change that alters layout rebuilds the document; pure byte growth only
// repaints the placeholder run.
func (s *Session) processMedia(now time.Time) {
	for _, mf := range s.media {
		if mf.done || mf.req == nil {
			continue
		}
		// Finished shares the request mutex with LockResponse; read it first.
		finished := mf.req.Finished()
		resp, release := mf.req.LockResponse()
		status := resp.Status
		meta := resp.Meta
		body := append([]byte(nil), resp.Body...)
		release()

		if status == gemini.StatusNone {
			if finished {
				mf.done = true
				log.Warn(log.CatMedia, "inline fetch failed", "url", mf.url)
			}
			continue
		}
		if !gemini.IsSuccess(status) {
			if finished {
				mf.done = true
				log.Warn(log.CatMedia, "inline fetch rejected", "url", mf.url, "code", int(status))
			}
			continue
		}

		res := content.Resolve(meta)
		if res.Media == content.MediaNone {
			mf.done = true
			log.Warn(log.CatMedia, "inline target is not media", "url", mf.url, "mime", res.MIME)
			continue
		}
		if res.Media == content.MediaImage && !finished {
			continue
		}

		flags := gemtext.MediaAllowHide
		if !finished {
			flags |= gemtext.MediaPartial
		}
		layoutChanged := s.doc.Media().SetData(mf.linkID, res.MIME, body, flags)
		if finished {
			mf.done = true
		}

		if layoutChanged {
			s.doc.RedoLayout()
			s.documentChanged()
		} else if run := s.mediaRun(mf.linkID); run != nil {
			s.invalidateRun(run)
			s.broker.Publish(pubsub.UpdatedEvent, RunsInvalidated{Count: s.invalid.Len()})
		}
		s.broker.Publish(pubsub.UpdatedEvent, MediaUpdated{LinkID: mf.linkID, Finished: finished})
	}
}

// mediaRun finds the placeholder run for a link's inline content.
func (s *Session) mediaRun(id gemtext.LinkID) *gemtext.Run {
	var found *gemtext.Run
	s.doc.Render(gemtext.Range{Start: 0, End: s.doc.Height()}, func(r *gemtext.Run) {
		if found == nil && r.LinkID == id && r.Flags&gemtext.RunDecoration != 0 {
			found = r
		}
	})
	return found
}

func (s *Session) cancelMediaFetches() {
	for _, mf := range s.media {
		if mf.req != nil {
			mf.req.Cancel()
		}
	}
	s.media = nil
}
