package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/engine"
)

// These tests run the sync engine against the real server stack: Badger
// store, Bleve index, and the service layer in between.

func setupEngine(t *testing.T) (*testServices, *engine.Engine) {
	t.Helper()

	svc := setupServices(t)
	remote := NewRemote(svc.entries, svc.catalog, testUser)
	return svc, engine.New(remote)
}

func TestEngineOverServiceRemote_CreateConfirms(t *testing.T) {
	svc, eng := setupEngine(t)
	item := seedCatalogItem(t, svc, "Sousou no Frieren", 28)

	created, err := eng.CreateEntry(context.Background(), &domain.ListEntry{
		CatalogItemID: item.ID,
		MediaType:     domain.MediaAnime,
		Status:        domain.StatusWatching,
	})
	require.NoError(t, err)

	// The canonical entry carries the server-assigned ID and catalog title.
	assert.Equal(t, "Sousou no Frieren", created.Title)
	state, ok := eng.State(created.ID)
	require.True(t, ok)
	assert.Equal(t, domain.SyncConfirmed, state)

	// And it is durable server-side.
	stored, err := svc.entries.Get(context.Background(), testUser, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, stored.ID)
}

func TestEngineOverServiceRemote_ReorderPersists(t *testing.T) {
	svc, eng := setupEngine(t)
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"A", "B", "C"} {
		item := seedCatalogItem(t, svc, title, 10)
		created, err := eng.CreateEntry(ctx, &domain.ListEntry{
			CatalogItemID: item.ID,
			MediaType:     domain.MediaAnime,
			Status:        domain.StatusWatching,
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	// Move the last entry to the front.
	require.NoError(t, eng.Reorder(ctx, []string{ids[2], ids[0], ids[1]}))

	stored, err := svc.entries.List(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, ids[2], stored[0].ID)
	assert.Equal(t, ids[0], stored[1].ID)
	assert.Equal(t, ids[1], stored[2].ID)
}

func TestEngineOverServiceRemote_DuplicateCreateRollsBack(t *testing.T) {
	svc, eng := setupEngine(t)
	ctx := context.Background()
	item := seedCatalogItem(t, svc, "Monster", 74)

	entry := &domain.ListEntry{
		CatalogItemID: item.ID,
		MediaType:     domain.MediaAnime,
		Status:        domain.StatusWatching,
	}
	_, err := eng.CreateEntry(ctx, entry)
	require.NoError(t, err)

	// A second optimistic add of the same catalog item fails server-side
	// and the temp entry disappears from the local view.
	_, err = eng.CreateEntry(ctx, entry)
	require.Error(t, err)
	assert.Len(t, eng.Entries(), 1)
}

func TestEngineOverServiceRemote_QueryPages(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	for _, title := range []string{"Frieren", "Monster", "Mushishi"} {
		seedCatalogItem(t, svc, title, 12)
	}

	remote := NewRemote(svc.entries, svc.catalog, testUser)
	page, err := remote.Query(ctx, engine.QuerySpec{Text: "", SortBy: "title"}, 0, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.TotalCount)
	assert.True(t, page.HasMore(0, 2))

	page2, err := remote.Query(ctx, engine.QuerySpec{SortBy: "title"}, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page2.Items, 1)
	assert.False(t, page2.HasMore(1, 2))
}
