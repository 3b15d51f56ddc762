package store

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/id"
)

// BatchWriter ingests catalog items in bulk using Badger's WriteBatch.
// The seed command uses it to load tens of thousands of titles without the
// per-transaction overhead of PutCatalogItem.
type BatchWriter struct {
	store   *Store
	batch   *badger.WriteBatch
	maxSize int
	count   int
	flushed int
}

// NewBatchWriter creates a batch writer that auto-flushes every maxSize items.
func (s *Store) NewBatchWriter(maxSize int) *BatchWriter {
	return &BatchWriter{
		store:   s,
		batch:   s.db.NewWriteBatch(),
		maxSize: maxSize,
	}
}

// PutCatalogItem adds a catalog item to the batch, assigning an ID when
// missing. Search indexing is the caller's problem; seed runs reindex once
// at the end instead of per item.
func (b *BatchWriter) PutCatalogItem(item *domain.CatalogItem) error {
	if item.ID == "" {
		item.ID = id.MustGenerate(id.PrefixCatalog)
		item.InitTimestamps()
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal catalog item: %w", err)
	}
	if err := b.batch.Set([]byte(catalogPrefix+item.ID), data); err != nil {
		return fmt.Errorf("batch set catalog item: %w", err)
	}

	b.count++
	if b.count >= b.maxSize {
		if err := b.Flush(); err != nil {
			return fmt.Errorf("auto flush: %w", err)
		}
	}
	return nil
}

// Flush commits all pending writes.
func (b *BatchWriter) Flush() error {
	if b.count == 0 {
		return nil
	}
	if err := b.batch.Flush(); err != nil {
		return fmt.Errorf("flush batch: %w", err)
	}

	b.flushed += b.count
	if b.store.logger != nil {
		b.store.logger.LogAttrs(context.Background(), slog.LevelInfo, "batch flushed",
			slog.Int("count", b.count),
			slog.Int("total", b.flushed),
		)
	}

	b.count = 0
	b.batch = b.store.db.NewWriteBatch()
	return nil
}

// Cancel discards all pending writes.
func (b *BatchWriter) Cancel() {
	b.batch.Cancel()
	b.count = 0
}

// Count returns the number of uncommitted items in the batch.
func (b *BatchWriter) Count() int {
	return b.count
}
