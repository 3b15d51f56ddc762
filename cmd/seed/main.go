// Package main provides a tool to seed the catalog from a JSON dump.
//
// The dump is an array of catalog items (the shape the API's PUT /catalog
// accepts). After loading, the search index is rebuilt so titles are
// immediately searchable.
//
// Usage:
//
//	DATA_PATH=~/Watchlog/data go run ./cmd/seed -file catalog.json
package main

import (
	"context"
	"encoding/json/v2"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/search"
	"github.com/watchlogapp/watchlog-server/internal/service"
	"github.com/watchlogapp/watchlog-server/internal/store"
)

var (
	file      = flag.String("file", "", "JSON file with an array of catalog items")
	batchSize = flag.Int("batch", 500, "Catalog items per write batch")
	demoUser  = flag.String("demo-user", "", "Also create a demo list for this user ID")
)

func main() {
	flag.Parse()

	if *file == "" {
		log.Fatal("missing -file: need a catalog JSON dump to seed from")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Watchlog/data")
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}

	var items []*domain.CatalogItem
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Fatalf("Failed to parse catalog dump: %v", err)
	}
	fmt.Printf("Loaded %d catalog items from %s\n", len(items), *file)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, err := store.New(filepath.Join(dataPath, "watchlog.db"), logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	index, err := search.NewIndex(search.Options{
		DataPath: filepath.Join(dataPath, "search"),
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer index.Close()

	// Batched writes bypass the per-item index notifications; a full
	// reindex below picks everything up at once.
	writer := s.NewBatchWriter(*batchSize)
	for _, item := range items {
		if err := writer.PutCatalogItem(item); err != nil {
			writer.Cancel()
			log.Fatalf("Failed to write %q: %v", item.Title, err)
		}
	}
	if err := writer.Flush(); err != nil {
		log.Fatalf("Failed to flush batch: %v", err)
	}
	fmt.Printf("Wrote %d catalog items\n", len(items))

	catalog := service.NewCatalogService(s, index, logger)
	count, err := catalog.Reindex(context.Background())
	if err != nil {
		log.Fatalf("Failed to reindex: %v", err)
	}
	fmt.Printf("Indexed %d catalog items\n", count)

	if *demoUser != "" {
		seedDemoList(s, logger, items)
	}
}

// seedDemoList adds the first few catalog items to the demo user's list with
// varied statuses, so the UI has something to show straight after seeding.
func seedDemoList(s *store.Store, logger *slog.Logger, items []*domain.CatalogItem) {
	ctx := context.Background()
	entries := service.NewEntryService(s, logger)

	statuses := domain.AllStatuses()
	created := 0
	for i, item := range items {
		if created >= 10 {
			break
		}
		status := statuses[i%len(statuses)]

		entry := &domain.ListEntry{
			CatalogItemID: item.ID,
			MediaType:     item.MediaType,
			Status:        status,
		}
		if status == domain.StatusCompleted {
			entry.Progress = item.UnitCount
		}

		if _, err := entries.Create(ctx, *demoUser, entry); err != nil {
			log.Printf("Skipping demo entry %q: %v", item.Title, err)
			continue
		}
		created++
	}
	fmt.Printf("Created %d demo entries for %s\n", created, *demoUser)
}
