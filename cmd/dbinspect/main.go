// Package main dumps a quick summary of a Watchlog database: catalog size,
// per-user entry counts, and a few sample records. Read-only.
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/watchlogapp/watchlog-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Watchlog/data/watchlog.db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	catalogCount := 0
	byMedia := map[domain.MediaType]int{}
	entriesByUser := map[string]int{}
	statusCounts := map[domain.Status]int{}
	sampleShown := 0

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())

			switch {
			case strings.HasPrefix(key, "catalog:"):
				err := item.Value(func(val []byte) error {
					var ci domain.CatalogItem
					if err := json.Unmarshal(val, &ci); err != nil {
						return err
					}
					catalogCount++
					byMedia[ci.MediaType]++
					return nil
				})
				if err != nil {
					return err
				}

			case strings.HasPrefix(key, "entry:"):
				err := item.Value(func(val []byte) error {
					var e domain.ListEntry
					if err := json.Unmarshal(val, &e); err != nil {
						return err
					}
					entriesByUser[e.UserID]++
					statusCounts[e.Status]++

					if sampleShown < 5 {
						fmt.Printf("Entry: %s\n", e.Title)
						fmt.Printf("  ID: %s  user: %s\n", e.ID, e.UserID)
						fmt.Printf("  Status: %s  progress: %d  sort: %d\n", e.Status, e.Progress, e.SortOrder)
						sampleShown++
					}
					return nil
				})
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Inspection failed: %v", err)
	}

	fmt.Println()
	fmt.Printf("Catalog items: %d (anime: %d, manga: %d)\n",
		catalogCount, byMedia[domain.MediaAnime], byMedia[domain.MediaManga])

	fmt.Printf("Users with entries: %d\n", len(entriesByUser))
	for userID, count := range entriesByUser {
		fmt.Printf("  %s: %d entries\n", userID, count)
	}

	fmt.Println("Entries by status:")
	for _, status := range domain.AllStatuses() {
		if statusCounts[status] > 0 {
			fmt.Printf("  %-10s %d\n", status, statusCounts[status])
		}
	}
}
