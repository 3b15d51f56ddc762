package store

import (
	"context"
	"encoding/json/v2"
	"iter"

	"github.com/dgraph-io/badger/v4"

	"github.com/watchlogapp/watchlog-server/internal/domain"
)

// ExportEntries streams one user's entries in key order without loading the
// whole list into memory. The export endpoint serializes straight off this
// iterator.
func (s *Store) ExportEntries(ctx context.Context, userID string) iter.Seq2[*domain.ListEntry, error] {
	return func(yield func(*domain.ListEntry, error) bool) {
		s.db.View(func(txn *badger.Txn) error {
			prefix := userEntryPrefix(userID)
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if err := ctx.Err(); err != nil {
					yield(nil, err)
					return err
				}

				entry := new(domain.ListEntry)
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, entry)
				})
				if err != nil {
					yield(nil, err)
					return err
				}
				if !yield(entry, nil) {
					return nil
				}
			}
			return nil
		})
	}
}
