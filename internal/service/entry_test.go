package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/errors"
	"github.com/watchlogapp/watchlog-server/internal/search"
	"github.com/watchlogapp/watchlog-server/internal/store"
)

type testServices struct {
	store    *store.Store
	index    *search.Index
	catalog  *CatalogService
	entries  *EntryService
	transfer *TransferService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	s, err := store.New(t.TempDir()+"/test.db", logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	index, err := search.NewIndex(search.Options{DataPath: t.TempDir(), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	catalog := NewCatalogService(s, index, logger)
	entries := NewEntryService(s, logger)
	return &testServices{
		store:    s,
		index:    index,
		catalog:  catalog,
		entries:  entries,
		transfer: NewTransferService(entries, logger),
	}
}

func seedCatalogItem(t *testing.T, svc *testServices, title string, unitCount int) *domain.CatalogItem {
	t.Helper()

	item, err := svc.catalog.Put(context.Background(), &domain.CatalogItem{
		MediaType: domain.MediaAnime,
		Title:     title,
		UnitCount: unitCount,
	})
	require.NoError(t, err)
	return item
}

const testUser = "user-001"

func TestEntryService_CreateDenormalizesFromCatalog(t *testing.T) {
	svc := setupServices(t)
	item := seedCatalogItem(t, svc, "Sousou no Frieren", 28)

	created, err := svc.entries.Create(context.Background(), testUser, &domain.ListEntry{
		CatalogItemID: item.ID,
		MediaType:     domain.MediaManga, // wrong on purpose
		Status:        domain.StatusWatching,
		Title:         "client-supplied junk",
		Progress:      5,
	})
	require.NoError(t, err)

	// Catalog wins over client-supplied denormalized fields.
	assert.Equal(t, "Sousou no Frieren", created.Title)
	assert.Equal(t, domain.MediaAnime, created.MediaType)
}

func TestEntryService_CreateAcceptsUnknownCatalogItem(t *testing.T) {
	svc := setupServices(t)

	created, err := svc.entries.Create(context.Background(), testUser, &domain.ListEntry{
		CatalogItemID: "cat-legacy-999",
		MediaType:     domain.MediaManga,
		Status:        domain.StatusCompleted,
		Title:         "Imported Title",
	})
	require.NoError(t, err)
	assert.Equal(t, "Imported Title", created.Title)
}

func TestEntryService_ProgressClampedToUnitCount(t *testing.T) {
	svc := setupServices(t)
	item := seedCatalogItem(t, svc, "Monster", 74)

	created, err := svc.entries.Create(context.Background(), testUser, &domain.ListEntry{
		CatalogItemID: item.ID,
		MediaType:     domain.MediaAnime,
		Status:        domain.StatusWatching,
		Progress:      200,
	})
	require.NoError(t, err)
	assert.Equal(t, 74, created.Progress)

	progress := 500
	updated, err := svc.entries.Update(context.Background(), testUser, created.ID, &domain.EntryDelta{Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, 74, updated.Progress)
}

func TestEntryService_ZeroUnitCountLeavesProgressAlone(t *testing.T) {
	svc := setupServices(t)
	item := seedCatalogItem(t, svc, "One Piece", 0) // still airing

	created, err := svc.entries.Create(context.Background(), testUser, &domain.ListEntry{
		CatalogItemID: item.ID,
		MediaType:     domain.MediaAnime,
		Status:        domain.StatusWatching,
		Progress:      1100,
	})
	require.NoError(t, err)
	assert.Equal(t, 1100, created.Progress)
}

func TestEntryService_UpdateRejectsEmptyDelta(t *testing.T) {
	svc := setupServices(t)
	item := seedCatalogItem(t, svc, "Monster", 74)

	created, err := svc.entries.Create(context.Background(), testUser, &domain.ListEntry{
		CatalogItemID: item.ID,
		MediaType:     domain.MediaAnime,
		Status:        domain.StatusWatching,
	})
	require.NoError(t, err)

	_, err = svc.entries.Update(context.Background(), testUser, created.ID, &domain.EntryDelta{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestEntryService_BulkUpdateAllOrNothing(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"A", "B"} {
		item := seedCatalogItem(t, svc, title, 10)
		created, err := svc.entries.Create(ctx, testUser, &domain.ListEntry{
			CatalogItemID: item.ID,
			MediaType:     domain.MediaAnime,
			Status:        domain.StatusWatching,
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	status := domain.StatusDropped
	err := svc.entries.BulkUpdate(ctx, testUser, append(ids, "ent-missing"), &domain.EntryDelta{Status: &status})
	require.Error(t, err)

	for _, entryID := range ids {
		got, err := svc.entries.Get(ctx, testUser, entryID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusWatching, got.Status)
	}
}
