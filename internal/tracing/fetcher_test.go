package tracing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/gemview/internal/gemini"
	"github.com/zjrosen/gemview/internal/testutil"
)

func newRecordingTracer(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return recorder, provider
}

func attrValue(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracedFetcher_RecordsSuccessfulExchange(t *testing.T) {
	recorder, provider := newRecordingTracer(t)
	fake := testutil.NewFakeFetcher()
	traced := NewTracedFetcher(fake, provider.Tracer("test"))

	req := traced.Fetch("gemini://example.org/", gemini.Callbacks{})
	fake.Last().Respond(gemini.StatusSuccess, "text/gemini", []byte("# Hi\n"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	require.Equal(t, SpanFetch, span.Name())

	url, ok := attrValue(span, AttrRequestURL)
	require.True(t, ok)
	require.Equal(t, "gemini://example.org/", url.AsString())

	id, ok := attrValue(span, AttrRequestID)
	require.True(t, ok)
	require.Equal(t, req.ID().String(), id.AsString())

	status, ok := attrValue(span, AttrStatusCode)
	require.True(t, ok)
	require.Equal(t, int64(gemini.StatusSuccess), status.AsInt64())

	size, ok := attrValue(span, AttrBodyBytes)
	require.True(t, ok)
	require.Equal(t, int64(5), size.AsInt64())

	require.Equal(t, codes.Ok, span.Status().Code)
}

func TestTracedFetcher_SynchronousFinishInsideFetch(t *testing.T) {
	recorder, provider := newRecordingTracer(t)
	fake := testutil.NewFakeFetcher()
	fake.Script = func(url string, req *testutil.FakeRequest) {
		req.Respond(gemini.StatusSuccess, "text/gemini", []byte("ok\n"))
	}
	traced := NewTracedFetcher(fake, provider.Tracer("test"))

	traced.Fetch("gemini://example.org/", gemini.Callbacks{})

	// The span still ends even though Finished fired before Fetch returned.
	spans := recorder.Ended()
	require.Len(t, spans, 1)
	status, ok := attrValue(spans[0], AttrStatusCode)
	require.True(t, ok)
	require.Equal(t, int64(gemini.StatusSuccess), status.AsInt64())
}

func TestTracedFetcher_SynthesizedFailureIsError(t *testing.T) {
	recorder, provider := newRecordingTracer(t)
	fake := testutil.NewFakeFetcher()
	traced := NewTracedFetcher(fake, provider.Tracer("test"))

	traced.Fetch("gemini://example.org/", gemini.Callbacks{})
	fake.Last().SendHeader(gemini.StatusTLSFailure, "handshake failed")
	fake.Last().Finish()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status().Code)
	require.Equal(t, "handshake failed", spans[0].Status().Description)
}

func TestTracedFetcher_ForwardsCallbacks(t *testing.T) {
	_, provider := newRecordingTracer(t)
	fake := testutil.NewFakeFetcher()
	traced := NewTracedFetcher(fake, provider.Tracer("test"))

	var updated, finished int
	traced.Fetch("gemini://example.org/", gemini.Callbacks{
		Updated:  func(id uuid.UUID) { updated++ },
		Finished: func(id uuid.UUID) { finished++ },
	})
	fake.Last().Respond(gemini.StatusSuccess, "text/gemini", []byte("a"))

	require.Equal(t, 2, updated) // header + body chunk
	require.Equal(t, 1, finished)
}
