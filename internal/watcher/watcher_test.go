package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchlogapp/watchlog-server/internal/transfer"
)

type fakeImporter struct {
	mu    sync.Mutex
	calls []fakeImportCall
	done  chan struct{}
}

type fakeImportCall struct {
	format transfer.Format
	size   int
}

func newFakeImporter() *fakeImporter {
	return &fakeImporter{done: make(chan struct{}, 10)}
}

func (f *fakeImporter) Import(_ context.Context, raw []byte, format transfer.Format, _ transfer.Options) (*transfer.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeImportCall{format: format, size: len(raw)})
	f.mu.Unlock()
	f.done <- struct{}{}
	return &transfer.Result{SuccessCount: 1}, nil
}

func (f *fakeImporter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func setupWatcher(t *testing.T) (string, *fakeImporter, *Watcher) {
	t.Helper()

	dir := t.TempDir()
	importer := newFakeImporter()

	w, err := New(importer, slog.New(slog.DiscardHandler), Options{
		Path:   dir,
		Settle: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Start(ctx)

	return dir, importer, w
}

func TestWatcher_ImportsDroppedFile(t *testing.T) {
	dir, importer, _ := setupWatcher(t)

	path := filepath.Join(dir, "export.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"format_version":1,"entries":[]}`), 0644))

	select {
	case <-importer.done:
	case <-time.After(5 * time.Second):
		t.Fatal("import was never triggered")
	}

	assert.Equal(t, 1, importer.callCount())
	assert.Equal(t, transfer.FormatJSON, importer.calls[0].format)

	// Processed file is renamed out of the way.
	assert.Eventually(t, func() bool {
		_, err := os.Stat(path + ".imported")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatcher_IgnoresUnknownExtensions(t *testing.T) {
	dir, importer, _ := setupWatcher(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0644))

	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, importer.callCount())
}

func TestWatcher_SettleCoalescesWrites(t *testing.T) {
	dir, importer, _ := setupWatcher(t)

	path := filepath.Join(dir, "export.csv")
	f, err := os.Create(path)
	require.NoError(t, err)

	// Simulate a chunked copy: several writes inside the settle window.
	for range 3 {
		_, err = f.WriteString("chunk,")
		require.NoError(t, err)
		require.NoError(t, f.Sync())
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, f.Close())

	select {
	case <-importer.done:
	case <-time.After(5 * time.Second):
		t.Fatal("import was never triggered")
	}

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, importer.callCount())
}

func TestWatcher_RequiresDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := New(newFakeImporter(), slog.New(slog.DiscardHandler), Options{Path: file})
	require.Error(t, err)
}
