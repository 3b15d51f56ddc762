// Package watcher monitors a drop folder for list export files and feeds
// them to an importer. Drop a .json, .csv or .sqlite export in the folder
// and it lands on the configured list without touching the API.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/watchlogapp/watchlog-server/internal/transfer"
)

// Importer consumes a finished drop file. Satisfied by the transfer service
// bound to a user.
type Importer interface {
	Import(ctx context.Context, rawData []byte, format transfer.Format, opts transfer.Options) (*transfer.Result, error)
}

// Options configures the drop-folder watcher.
type Options struct {
	// Path is the directory to monitor.
	Path string
	// Settle is how long a file must stay unchanged before it is considered
	// fully written. Copies into the folder arrive in chunks; importing a
	// half-written file would count every row as malformed.
	Settle time.Duration
	// ImportOptions are applied to every auto-import.
	ImportOptions transfer.Options
}

func (o *Options) setDefaults() {
	if o.Settle <= 0 {
		o.Settle = 2 * time.Second
	}
	if o.ImportOptions.MergeDuplicates == "" {
		o.ImportOptions = transfer.DefaultOptions()
	}
}

// Watcher monitors the drop folder.
type Watcher struct {
	importer Importer
	logger   *slog.Logger
	opts     Options

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a drop-folder watcher.
func New(importer Importer, logger *slog.Logger, opts Options) (*Watcher, error) {
	opts.setDefaults()

	info, err := os.Stat(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("stat drop folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("drop folder %s is not a directory", opts.Path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(opts.Path); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch drop folder: %w", err)
	}

	return &Watcher{
		importer: importer,
		logger:   logger,
		opts:     opts,
		fsw:      fsw,
		pending:  make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}, nil
}

// Start processes events until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("watching drop folder", "path", w.opts.Path, "settle", w.opts.Settle)

	w.wg.Add(1)
	go w.loop(ctx)

	<-ctx.Done()
	return w.Close()
}

// Close stops the watcher and discards pending files.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)

	w.mu.Lock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				w.touch(ctx, event.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("drop folder watch error", "error", err)
		}
	}
}

// touch (re)arms the settle timer for a path. Every write pushes the import
// back until the file stops changing.
func (w *Watcher) touch(ctx context.Context, path string) {
	if formatForPath(path) == "" {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.opts.Settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.opts.Settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case <-w.done:
			return
		default:
		}
		w.ingest(ctx, path)
	})
}

// ingest imports one settled file and renames it to record the outcome.
func (w *Watcher) ingest(ctx context.Context, path string) {
	format := formatForPath(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		w.logger.Error("failed to read drop file", "path", path, "error", err)
		return
	}

	result, err := w.importer.Import(ctx, raw, format, w.opts.ImportOptions)
	if err != nil {
		w.logger.Error("drop file import failed", "path", path, "error", err)
		w.markDone(path, ".failed")
		return
	}

	w.logger.Info("drop file imported",
		"path", path,
		"format", format,
		"succeeded", result.SuccessCount,
		"skipped", result.SkippedCount,
		"failed", result.ErrorCount,
	)
	w.markDone(path, ".imported")
}

// markDone renames the processed file so it is not ingested again.
func (w *Watcher) markDone(path, suffix string) {
	if err := os.Rename(path, path+suffix); err != nil {
		w.logger.Warn("failed to rename processed drop file", "path", path, "error", err)
	}
}

// formatForPath maps a file extension to an import format. Empty means the
// file is not importable and gets ignored.
func formatForPath(path string) transfer.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return transfer.FormatJSON
	case ".csv":
		return transfer.FormatCSV
	case ".sqlite", ".db":
		return transfer.FormatSQLite
	default:
		return ""
	}
}
