package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/search"
	"github.com/watchlogapp/watchlog-server/internal/store"
)

// CatalogService bridges the catalog store and the search index: writes go
// to both, queries go to the index.
type CatalogService struct {
	store  *store.Store
	index  *search.Index
	logger *slog.Logger
}

// NewCatalogService creates a catalog service and wires the store's search
// indexer so catalog writes keep the index current.
func NewCatalogService(s *store.Store, index *search.Index, logger *slog.Logger) *CatalogService {
	svc := &CatalogService{store: s, index: index, logger: logger}
	s.SetSearchIndexer(svc)
	return svc
}

// IndexCatalogItem implements store.SearchIndexer.
func (s *CatalogService) IndexCatalogItem(_ context.Context, item *domain.CatalogItem) error {
	return s.index.IndexDocument(search.FromCatalogItem(item))
}

// DeleteCatalogItem implements store.SearchIndexer.
func (s *CatalogService) DeleteCatalogItem(_ context.Context, itemID string) error {
	return s.index.DeleteDocument(itemID)
}

// Put upserts a catalog item; the store notifies the index.
func (s *CatalogService) Put(ctx context.Context, item *domain.CatalogItem) (*domain.CatalogItem, error) {
	return s.store.PutCatalogItem(ctx, item)
}

// Get retrieves one catalog item.
func (s *CatalogService) Get(ctx context.Context, itemID string) (*domain.CatalogItem, error) {
	return s.store.GetCatalogItem(ctx, itemID)
}

// Search runs a full-text catalog search.
func (s *CatalogService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	return s.index.Search(ctx, params)
}

// DocumentCount reports how many catalog items the index holds.
func (s *CatalogService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// Reindex rebuilds the search index from the store. Used after seeding and
// as the recovery path for index corruption.
func (s *CatalogService) Reindex(ctx context.Context) (int, error) {
	items, err := s.store.AllCatalogItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}

	if err := s.index.Rebuild(); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}

	docs := make([]*search.CatalogDocument, 0, len(items))
	for _, item := range items {
		docs = append(docs, search.FromCatalogItem(item))
	}
	if err := s.index.IndexDocuments(docs); err != nil {
		return 0, fmt.Errorf("index catalog: %w", err)
	}

	s.logger.Info("catalog reindexed", "items", len(docs))
	return len(docs), nil
}
