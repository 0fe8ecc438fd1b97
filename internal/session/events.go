package session

import (
	"github.com/zjrosen/gemview/internal/gemini"
	"github.com/zjrosen/gemview/internal/gemtext"
)

// Event is the tagged union published on the session broker. Each variant
// carries the data its consumers need; there is no stringly-typed command
// channel.
type Event interface {
	sessionEvent()
}

// RequestUpdated wakes the owning event loop; the session coalesces
// network notifications into at most one outstanding instance.
type RequestUpdated struct{}

// StateChanged reports a fetch state transition.
type StateChanged struct {
	State State
}

// DocumentChanged reports that the document content or layout was rebuilt
// and everything visible must be redrawn.
type DocumentChanged struct {
	URL   string
	Title string
}

// RunsInvalidated reports that individual runs changed in place; the rows
// to repaint are in the session's run set.
type RunsInvalidated struct {
	Count int
}

// FetchProgress reports body growth on a large response.
type FetchProgress struct {
	URL   string
	Bytes int
}

// InputRequired asks the UI to prompt for a query value.
type InputRequired struct {
	URL       string
	Prompt    string
	Sensitive bool
}

// RedirectFollowed reports an automatic same-scheme redirect hop.
type RedirectFollowed struct {
	From string
	To   string
	Hop  int
}

// FetchFailed reports a request that ended on an error page.
type FetchFailed struct {
	URL  string
	Code gemini.StatusCode
}

// ExternalLinkRequested reports activation of a link the client does not
// open itself.
type ExternalLinkRequested struct {
	URL string
}

// MediaUpdated reports inline media content arriving for a link.
type MediaUpdated struct {
	LinkID   gemtext.LinkID
	Finished bool
}

// CertWarning reports a server certificate that does not match the pinned
// fingerprint for its host.
type CertWarning struct {
	Host        string
	Fingerprint []byte
}

func (RequestUpdated) sessionEvent()        {}
func (StateChanged) sessionEvent()          {}
func (DocumentChanged) sessionEvent()       {}
func (RunsInvalidated) sessionEvent()       {}
func (FetchProgress) sessionEvent()         {}
func (InputRequired) sessionEvent()         {}
func (RedirectFollowed) sessionEvent()      {}
func (FetchFailed) sessionEvent()           {}
func (ExternalLinkRequested) sessionEvent() {}
func (MediaUpdated) sessionEvent()          {}
func (CertWarning) sessionEvent()           {}
