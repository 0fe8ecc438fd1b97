package tracing

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/gemview/internal/gemini"
)

// TracedFetcher decorates a Fetcher, recording one client span per network
// exchange. The span opens when the request is submitted and closes when its
// Finished callback fires, carrying the final status, meta line, and body
// size.
type TracedFetcher struct {
	inner  gemini.Fetcher
	tracer trace.Tracer
}

// NewTracedFetcher wraps inner with span recording.
func NewTracedFetcher(inner gemini.Fetcher, tracer trace.Tracer) *TracedFetcher {
	return &TracedFetcher{inner: inner, tracer: tracer}
}

var _ gemini.Fetcher = (*TracedFetcher)(nil)

// Fetch starts a traced request for url.
func (f *TracedFetcher) Fetch(url string, cb gemini.Callbacks) gemini.Request {
	_, span := f.tracer.Start(context.Background(), SpanFetch,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String(AttrRequestURL, url)),
	)

	// The Finished callback can fire inside inner.Fetch, before the request
	// handle exists; the tracker defers ending the span until both have
	// happened.
	tk := &spanTracker{span: span}
	wrapped := gemini.Callbacks{
		Updated: cb.Updated,
		Finished: func(id uuid.UUID) {
			tk.finished()
			if cb.Finished != nil {
				cb.Finished(id)
			}
		},
	}

	req := f.inner.Fetch(url, wrapped)
	tk.bind(req)
	return req
}

type spanTracker struct {
	mu      sync.Mutex
	span    trace.Span
	req     gemini.Request
	pending bool
	ended   bool
}

func (t *spanTracker) bind(req gemini.Request) {
	t.mu.Lock()
	t.req = req
	t.span.SetAttributes(attribute.String(AttrRequestID, req.ID().String()))
	end := t.pending && !t.ended
	if end {
		t.ended = true
	}
	t.mu.Unlock()
	if end {
		t.end(req)
	}
}

func (t *spanTracker) finished() {
	t.mu.Lock()
	req := t.req
	if req == nil {
		t.pending = true
		t.mu.Unlock()
		return
	}
	if t.ended {
		t.mu.Unlock()
		return
	}
	t.ended = true
	t.mu.Unlock()
	t.end(req)
}

func (t *spanTracker) end(req gemini.Request) {
	status := req.Status()
	resp, release := req.LockResponse()
	size := len(resp.Body)
	meta := resp.Meta
	release()

	t.span.SetAttributes(
		attribute.Int(AttrStatusCode, int(status)),
		attribute.String(AttrStatusMeta, meta),
		attribute.Int(AttrBodyBytes, size),
	)
	switch {
	case gemini.IsSuccess(status):
		t.span.SetStatus(codes.Ok, "")
	case status < 0:
		t.span.SetStatus(codes.Error, meta)
	}
	t.span.End()
}
