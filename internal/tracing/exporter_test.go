package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func exportedRecords(t *testing.T, path string) []SpanRecord {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	var records []SpanRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record SpanRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		records = append(records, record)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestFileExporter_WritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	exporter, err := NewFileExporter(path)
	require.NoError(t, err)

	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := provider.Tracer("test")

	_, span := tracer.Start(context.Background(), SpanFetch)
	span.SetAttributes(
		attribute.String(AttrRequestURL, "gemini://example.org/"),
		attribute.Int(AttrStatusCode, 20),
	)
	span.AddEvent(EventHeaderReceived)
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()))

	records := exportedRecords(t, path)
	require.Len(t, records, 1)

	record := records[0]
	require.Equal(t, SpanFetch, record.Name)
	require.NotEmpty(t, record.TraceID)
	require.NotEmpty(t, record.SpanID)
	require.Equal(t, "gemini://example.org/", record.Attributes[AttrRequestURL])
	require.Equal(t, float64(20), record.Attributes[AttrStatusCode])
	require.Len(t, record.Events, 1)
	require.Equal(t, EventHeaderReceived, record.Events[0].Name)
}

func TestFileExporter_RecordsParentChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	exporter, err := NewFileExporter(path)
	require.NoError(t, err)

	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := provider.Tracer("test")

	ctx, parent := tracer.Start(context.Background(), "parent")
	_, child := tracer.Start(ctx, "child")
	child.End()
	parent.End()

	require.NoError(t, provider.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()))

	records := exportedRecords(t, path)
	require.Len(t, records, 2)

	// Syncer exports in end order: child first
	require.Equal(t, "child", records[0].Name)
	require.Equal(t, records[1].SpanID, records[0].ParentSpanID)
	require.Empty(t, records[1].ParentSpanID)
	require.Equal(t, records[0].TraceID, records[1].TraceID)
}

func TestFileExporter_AppendsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")

	for range 2 {
		exporter, err := NewFileExporter(path)
		require.NoError(t, err)
		provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		_, span := provider.Tracer("test").Start(context.Background(), "span")
		span.End()
		require.NoError(t, provider.Shutdown(context.Background()))
		require.NoError(t, exporter.Shutdown(context.Background()))
	}

	require.Len(t, exportedRecords(t, path), 2)
}

func TestFileExporter_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "traces.jsonl")

	exporter, err := NewFileExporter(path)
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestFileExporter_ShutdownTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	exporter, err := NewFileExporter(path)
	require.NoError(t, err)

	require.NoError(t, exporter.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()))
}
