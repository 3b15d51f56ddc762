// Package store persists the server-side state of record in Badger:
// catalog items and per-user list entries. Bulk entry operations commit in a
// single transaction so partial application is impossible.
package store

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/errors"
)

// SearchIndexer keeps the catalog search index in sync with store writes.
// Set after construction to avoid a store/search cycle.
type SearchIndexer interface {
	IndexCatalogItem(ctx context.Context, item *domain.CatalogItem) error
	DeleteCatalogItem(ctx context.Context, itemID string) error
}

// NoopSearchIndexer is a no-op implementation for tests.
type NoopSearchIndexer struct{}

func (NoopSearchIndexer) IndexCatalogItem(context.Context, *domain.CatalogItem) error { return nil }
func (NoopSearchIndexer) DeleteCatalogItem(context.Context, string) error             { return nil }

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	searchIndexer SearchIndexer

	// Catalog holds the read-only title catalog, keyed by item ID.
	Catalog *Entity[domain.CatalogItem]
}

// New opens the database at path and initializes the entities.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil      // Badger's own logging is too chatty
	opts.SyncWrites = true // survive crashes without losing confirmed writes
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	s := &Store{
		db:            db,
		logger:        logger,
		searchIndexer: NoopSearchIndexer{},
	}
	s.Catalog = NewEntity[domain.CatalogItem](s, catalogPrefix)

	if logger != nil {
		logger.Info("database opened", "path", path)
	}
	return s, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing database")
	}
	return s.db.Close()
}

// SetSearchIndexer wires the search index after both sides exist.
func (s *Store) SetSearchIndexer(indexer SearchIndexer) {
	if indexer == nil {
		indexer = NoopSearchIndexer{}
	}
	s.searchIndexer = indexer
}

// readInTxn unmarshals one key inside an open transaction.
func readInTxn[T any](txn *badger.Txn, key []byte) (*T, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get key: %w", err)
	}

	var value T
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &value)
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal value: %w", err)
	}
	return &value, nil
}

// setInTxn marshals and writes one key inside an open transaction.
func setInTxn(txn *badger.Txn, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	if err := txn.Set(key, data); err != nil {
		return fmt.Errorf("set key: %w", err)
	}
	return nil
}
