package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/watchlogapp/watchlog-server/internal/config"
	"github.com/watchlogapp/watchlog-server/internal/logger"
	"github.com/watchlogapp/watchlog-server/internal/service"
	"github.com/watchlogapp/watchlog-server/internal/transfer"
	"github.com/watchlogapp/watchlog-server/internal/watcher"
)

// boundImporter pins drop-folder imports to the configured user's list.
type boundImporter struct {
	transfer *service.TransferService
	userID   string
}

// Import implements watcher.Importer.
func (b *boundImporter) Import(ctx context.Context, rawData []byte, format transfer.Format, opts transfer.Options) (*transfer.Result, error) {
	return b.transfer.Import(ctx, b.userID, rawData, format, opts)
}

// ImportWatcherHandle wraps the drop-folder watcher with shutdown capability.
// Watcher is nil when no watch path is configured.
type ImportWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *ImportWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Close()
}

// ProvideImportWatcher provides the drop-folder auto-importer.
func ProvideImportWatcher(i do.Injector) (*ImportWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Import.WatchPath == "" {
		log.Info("Import drop folder disabled")
		return &ImportWatcherHandle{}, nil
	}

	transferSvc := do.MustInvoke[*service.TransferService](i)

	w, err := watcher.New(
		&boundImporter{transfer: transferSvc, userID: cfg.Import.WatchUserID},
		log.Logger,
		watcher.Options{Path: cfg.Import.WatchPath},
	)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	log.Info("Import drop folder watching",
		"path", cfg.Import.WatchPath,
		"user_id", cfg.Import.WatchUserID,
	)

	return &ImportWatcherHandle{Watcher: w, cancel: cancel}, nil
}
