package store

import (
	"context"
	"fmt"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/id"
)

// PutCatalogItem upserts a catalog item and refreshes the search index.
// Catalog ingestion re-seeds existing items routinely, so this never
// conflicts on ID.
func (s *Store) PutCatalogItem(ctx context.Context, item *domain.CatalogItem) (*domain.CatalogItem, error) {
	if item.Title == "" {
		return nil, fmt.Errorf("catalog item requires a title")
	}
	if !item.MediaType.Valid() {
		return nil, fmt.Errorf("catalog item requires a media type")
	}

	stored := *item
	if stored.ID == "" {
		stored.ID = id.MustGenerate(id.PrefixCatalog)
		stored.InitTimestamps()
	} else {
		stored.Touch()
	}

	if err := s.Catalog.Upsert(ctx, stored.ID, &stored); err != nil {
		return nil, err
	}

	if err := s.searchIndexer.IndexCatalogItem(ctx, &stored); err != nil {
		// The item is persisted; a stale index entry is recoverable by
		// reindexing, so log and move on.
		if s.logger != nil {
			s.logger.Warn("failed to index catalog item", "id", stored.ID, "error", err)
		}
	}
	return &stored, nil
}

// GetCatalogItem retrieves one catalog item by ID.
func (s *Store) GetCatalogItem(ctx context.Context, itemID string) (*domain.CatalogItem, error) {
	return s.Catalog.Get(ctx, itemID)
}

// DeleteCatalogItem removes one catalog item and its index document.
func (s *Store) DeleteCatalogItem(ctx context.Context, itemID string) error {
	if err := s.Catalog.Delete(ctx, itemID); err != nil {
		return err
	}
	if err := s.searchIndexer.DeleteCatalogItem(ctx, itemID); err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to deindex catalog item", "id", itemID, "error", err)
		}
	}
	return nil
}

// AllCatalogItems loads the full catalog. Intended for reindexing and the
// seed command, not request paths.
func (s *Store) AllCatalogItems(ctx context.Context) ([]*domain.CatalogItem, error) {
	var items []*domain.CatalogItem
	for item, err := range s.Catalog.List(ctx) {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
