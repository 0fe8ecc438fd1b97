package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/gemview/internal/pubsub"
)

func newTestWatcher(t *testing.T) (string, <-chan pubsub.Event[WatcherEvent]) {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("start_url: gemini://a/\n"), 0o600))

	w, err := New(Config{ConfigPath: configPath, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ch := w.Broker().Subscribe(ctx)

	require.NoError(t, w.Start())
	return configPath, ch
}

func waitForEvent(t *testing.T, ch <-chan pubsub.Event[WatcherEvent], timeout time.Duration) (WatcherEvent, bool) {
	t.Helper()
	select {
	case event := <-ch:
		return event.Payload, true
	case <-time.After(timeout):
		return WatcherEvent{}, false
	}
}

func TestWatcher_SignalsOnWrite(t *testing.T) {
	configPath, ch := newTestWatcher(t)

	require.NoError(t, os.WriteFile(configPath, []byte("start_url: gemini://b/\n"), 0o600))

	event, ok := waitForEvent(t, ch, 2*time.Second)
	require.True(t, ok, "expected change event")
	require.Equal(t, ConfigChanged, event.Kind)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	configPath, ch := newTestWatcher(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(configPath, []byte("start_url: gemini://b/\n"), 0o600))
		time.Sleep(5 * time.Millisecond)
	}

	_, ok := waitForEvent(t, ch, 2*time.Second)
	require.True(t, ok)

	// The burst collapses into one event
	_, ok = waitForEvent(t, ch, 200*time.Millisecond)
	require.False(t, ok, "expected a single coalesced event")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	configPath, ch := newTestWatcher(t)

	other := filepath.Join(filepath.Dir(configPath), "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("hi"), 0o600))

	_, ok := waitForEvent(t, ch, 300*time.Millisecond)
	require.False(t, ok, "unrelated file should not signal")
}

func TestWatcher_SignalsOnAtomicReplace(t *testing.T) {
	configPath, ch := newTestWatcher(t)

	temp := filepath.Join(filepath.Dir(configPath), ".config.yaml.tmp")
	require.NoError(t, os.WriteFile(temp, []byte("start_url: gemini://c/\n"), 0o600))
	require.NoError(t, os.Rename(temp, configPath))

	event, ok := waitForEvent(t, ch, 2*time.Second)
	require.True(t, ok, "rename into place should signal")
	require.Equal(t, ConfigChanged, event.Kind)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/tmp/config.yaml")
	require.Equal(t, "/tmp/config.yaml", cfg.ConfigPath)
	require.Equal(t, 500*time.Millisecond, cfg.DebounceDur)
}
