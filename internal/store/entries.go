package store

import (
	"cmp"
	"context"
	"encoding/json/v2"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/errors"
	"github.com/watchlogapp/watchlog-server/internal/id"
)

// CreateEntry persists a new list entry for the given user. A client-assigned
// temp ID is discarded and replaced with a canonical one; the response is the
// entry as the server will report it from now on.
//
// Returns ErrAlreadyExists when the user already has an entry for the same
// catalog item and media type.
func (s *Store) CreateEntry(ctx context.Context, userID string, entry *domain.ListEntry) (*domain.ListEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := entry.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidation, "invalid entry")
	}

	canonical := entry.Clone()
	canonical.UserID = userID
	if canonical.ID == "" || id.IsTemp(canonical.ID) {
		canonical.ID = id.MustGenerate(id.PrefixEntry)
	}
	canonical.InitTimestamps()

	catKey := entryCatalogKey(userID, string(canonical.MediaType), canonical.CatalogItemID)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(catKey); err == nil {
			return ErrAlreadyExists.WithCause(fmt.Errorf("catalog item %s already on list", canonical.CatalogItemID))
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check catalog index: %w", err)
		}

		// New entries land at the end of the list.
		count, err := countEntriesInTxn(txn, userID)
		if err != nil {
			return err
		}
		canonical.SortOrder = count

		if err := setInTxn(txn, entryKey(userID, canonical.ID), canonical); err != nil {
			return err
		}
		return txn.Set(catKey, []byte(canonical.ID))
	})
	if err != nil {
		return nil, err
	}
	return canonical, nil
}

// GetEntry retrieves one entry. Returns ErrNotFound when absent.
func (s *Store) GetEntry(ctx context.Context, userID, entryID string) (*domain.ListEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entry *domain.ListEntry
	err := s.db.View(func(txn *badger.Txn) error {
		e, err := readInTxn[domain.ListEntry](txn, entryKey(userID, entryID))
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListEntries returns the user's complete list ordered by sort position.
func (s *Store) ListEntries(ctx context.Context, userID string) ([]*domain.ListEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []*domain.ListEntry
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		entries, err = listEntriesInTxn(txn, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b *domain.ListEntry) int {
		if c := cmp.Compare(a.SortOrder, b.SortOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return entries, nil
}

// UpdateEntry applies a delta to one entry and returns the canonical result.
func (s *Store) UpdateEntry(ctx context.Context, userID, entryID string, delta *domain.EntryDelta) (*domain.ListEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := delta.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidation, "invalid delta")
	}

	var updated *domain.ListEntry
	key := entryKey(userID, entryID)
	err := s.db.Update(func(txn *badger.Txn) error {
		entry, err := readInTxn[domain.ListEntry](txn, key)
		if err != nil {
			return err
		}
		delta.Apply(entry)
		if err := entry.Validate(); err != nil {
			return errors.Wrap(err, errors.CodeValidation, "delta produces invalid entry")
		}
		if err := setInTxn(txn, key, entry); err != nil {
			return err
		}
		updated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteEntry removes one entry and its catalog index. Idempotent.
func (s *Store) DeleteEntry(ctx context.Context, userID, entryID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := entryKey(userID, entryID)
	return s.db.Update(func(txn *badger.Txn) error {
		entry, err := readInTxn[domain.ListEntry](txn, key)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := txn.Delete(entryCatalogKey(userID, string(entry.MediaType), entry.CatalogItemID)); err != nil {
			return fmt.Errorf("delete catalog index: %w", err)
		}
		return txn.Delete(key)
	})
}

// BulkUpdateEntries applies one delta to every listed entry in a single
// transaction. Any missing entry aborts the whole batch with ErrNotFound and
// no entry is modified.
func (s *Store) BulkUpdateEntries(ctx context.Context, userID string, entryIDs []string, delta *domain.EntryDelta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(entryIDs) == 0 {
		return nil
	}
	if err := delta.Validate(); err != nil {
		return errors.Wrap(err, errors.CodeValidation, "invalid delta")
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, entryID := range entryIDs {
			key := entryKey(userID, entryID)
			entry, err := readInTxn[domain.ListEntry](txn, key)
			if err != nil {
				return errors.Wrapf(err, errors.CodeNotFound, "bulk update: entry %s", entryID)
			}
			delta.Apply(entry)
			if err := entry.Validate(); err != nil {
				return errors.Wrapf(err, errors.CodeValidation, "bulk update: entry %s", entryID)
			}
			if err := setInTxn(txn, key, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// BulkDeleteEntries removes every listed entry in a single transaction.
// A missing entry aborts the batch.
func (s *Store) BulkDeleteEntries(ctx context.Context, userID string, entryIDs []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(entryIDs) == 0 {
		return nil
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, entryID := range entryIDs {
			key := entryKey(userID, entryID)
			entry, err := readInTxn[domain.ListEntry](txn, key)
			if err != nil {
				return errors.Wrapf(err, errors.CodeNotFound, "bulk delete: entry %s", entryID)
			}
			if err := txn.Delete(entryCatalogKey(userID, string(entry.MediaType), entry.CatalogItemID)); err != nil {
				return fmt.Errorf("delete catalog index: %w", err)
			}
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("delete entry: %w", err)
			}
		}
		return nil
	})
}

// BulkSetOrder persists a set of sort positions in a single transaction. The
// updates are a partial set: positions not listed are left alone.
func (s *Store) BulkSetOrder(ctx context.Context, userID string, updates []OrderUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, update := range updates {
			if update.SortOrder < 0 {
				return errors.Validationf("negative sort order for entry %s", update.ID)
			}
			key := entryKey(userID, update.ID)
			entry, err := readInTxn[domain.ListEntry](txn, key)
			if err != nil {
				return errors.Wrapf(err, errors.CodeNotFound, "set order: entry %s", update.ID)
			}
			entry.SortOrder = update.SortOrder
			entry.Touch()
			if err := setInTxn(txn, key, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// OrderUpdate is one persisted position change.
type OrderUpdate struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sort_order"`
}

func listEntriesInTxn(txn *badger.Txn, userID string) ([]*domain.ListEntry, error) {
	prefix := userEntryPrefix(userID)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	var entries []*domain.ListEntry
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		entry := new(domain.ListEntry)
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, entry)
		})
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func countEntriesInTxn(txn *badger.Txn, userID string) (int, error) {
	prefix := userEntryPrefix(userID)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false

	it := txn.NewIterator(opts)
	defer it.Close()

	count := 0
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		count++
	}
	return count, nil
}
