package inference

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const watcherTestDoc = `
schema_version: "1.0.0"
entries:
  - {prefix: "A45E60", category: "Apple Device"}
`

func TestTableWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oui.yaml")
	require.NoError(t, os.WriteFile(path, []byte(watcherTestDoc), 0o600))

	reloaded := make(chan *Table, 1)
	w, err := NewTableWatcher(path, func(tbl *Table) {
		select {
		case reloaded <- tbl:
		default:
		}
	}, zerolog.Nop())
	require.NoError(t, err)
	w.debounceTimerDelayForTest(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Start(ctx) }()

	// Give the watcher time to register before the write.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`
schema_version: "1.0.0"
entries:
  - {prefix: "A45E60", category: "Apple Device"}
  - {prefix: "B827EB", category: "Raspberry Pi"}
`), 0o600))

	select {
	case tbl := <-reloaded:
		require.Equal(t, 2, tbl.Len())
		require.Equal(t, "Raspberry Pi", tbl.Classify("B8:27:EB:00:00:01"))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestTableWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oui.yaml")
	require.NoError(t, os.WriteFile(path, []byte(watcherTestDoc), 0o600))

	reloaded := make(chan *Table, 1)
	w, err := NewTableWatcher(path, func(tbl *Table) {
		select {
		case reloaded <- tbl:
		default:
		}
	}, zerolog.Nop())
	require.NoError(t, err)
	w.debounceTimerDelayForTest(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Start(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600))

	select {
	case <-reloaded:
		t.Fatal("sibling file write triggered a reload")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestTableWatcher_StartReturnsOnCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oui.yaml")
	require.NoError(t, os.WriteFile(path, []byte(watcherTestDoc), 0o600))

	w, err := NewTableWatcher(path, func(*Table) {}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
