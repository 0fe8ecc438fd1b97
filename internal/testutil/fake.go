package testutil

import (
	"sync"

	"github.com/google/uuid"

	"github.com/zjrosen/gemview/internal/gemini"
)

// FakeRequest is a scripted network exchange. Tests drive it with
// SendHeader, SendBody and Finish; callbacks fire synchronously so a test
// controls exactly when the consumer observes each stage.
type FakeRequest struct {
	id  uuid.UUID
	url string
	cb  gemini.Callbacks

	mu       sync.Mutex
	resp     gemini.Response
	cert     gemini.CertInfo
	finished bool
	canceled bool
}

func (r *FakeRequest) ID() uuid.UUID { return r.id }
func (r *FakeRequest) URL() string   { return r.url }

func (r *FakeRequest) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canceled = true
}

func (r *FakeRequest) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished
}

func (r *FakeRequest) Status() gemini.StatusCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resp.Status
}

func (r *FakeRequest) LockResponse() (*gemini.Response, func()) {
	r.mu.Lock()
	return &r.resp, r.mu.Unlock
}

func (r *FakeRequest) CertificateInfo() gemini.CertInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cert
}

// Canceled reports whether the consumer aborted the request.
func (r *FakeRequest) Canceled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canceled
}

// SetCert installs certificate metadata delivered with the header.
func (r *FakeRequest) SetCert(info gemini.CertInfo) {
	r.mu.Lock()
	r.cert = info
	r.resp.Cert = info
	r.mu.Unlock()
}

// SendHeader delivers the response status line.
func (r *FakeRequest) SendHeader(status gemini.StatusCode, meta string) {
	r.mu.Lock()
	if r.canceled || r.finished {
		r.mu.Unlock()
		return
	}
	r.resp.Status = status
	r.resp.Meta = meta
	r.mu.Unlock()
	if r.cb.Updated != nil {
		r.cb.Updated(r.id)
	}
}

// SendBody appends a body chunk.
func (r *FakeRequest) SendBody(chunk []byte) {
	r.mu.Lock()
	if r.canceled || r.finished {
		r.mu.Unlock()
		return
	}
	r.resp.Body = append(r.resp.Body, chunk...)
	r.mu.Unlock()
	if r.cb.Updated != nil {
		r.cb.Updated(r.id)
	}
}

// Finish completes the exchange.
func (r *FakeRequest) Finish() {
	r.mu.Lock()
	if r.canceled || r.finished {
		r.mu.Unlock()
		return
	}
	r.finished = true
	r.mu.Unlock()
	if r.cb.Finished != nil {
		r.cb.Finished(r.id)
	}
}

// Respond delivers a complete successful exchange in one call.
func (r *FakeRequest) Respond(status gemini.StatusCode, meta string, body []byte) {
	r.SendHeader(status, meta)
	if len(body) > 0 {
		r.SendBody(body)
	}
	r.Finish()
}

// FakeFetcher hands out FakeRequests and records them in order.
type FakeFetcher struct {
	mu       sync.Mutex
	requests []*FakeRequest

	// Script, when set, runs synchronously for each new request so a test
	// can auto-respond based on the URL.
	Script func(url string, req *FakeRequest)
}

// NewFakeFetcher creates an empty fetcher.
func NewFakeFetcher() *FakeFetcher {
	return &FakeFetcher{}
}

func (f *FakeFetcher) Fetch(url string, cb gemini.Callbacks) gemini.Request {
	req := &FakeRequest{id: uuid.New(), url: url, cb: cb}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	script := f.Script
	f.mu.Unlock()
	if script != nil {
		script(url, req)
	}
	return req
}

// Requests returns all requests issued so far.
func (f *FakeFetcher) Requests() []*FakeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FakeRequest(nil), f.requests...)
}

// Last returns the most recent request, or nil.
func (f *FakeFetcher) Last() *FakeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

// Count returns how many requests were issued.
func (f *FakeFetcher) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}
