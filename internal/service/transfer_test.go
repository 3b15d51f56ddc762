package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/transfer"
)

func TestTransferService_RoundTrip(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	for _, title := range []string{"Frieren", "Monster"} {
		item := seedCatalogItem(t, svc, title, 24)
		_, err := svc.entries.Create(ctx, testUser, &domain.ListEntry{
			CatalogItemID: item.ID,
			MediaType:     domain.MediaAnime,
			Status:        domain.StatusWatching,
			Progress:      3,
		})
		require.NoError(t, err)
	}

	exported, err := svc.transfer.Export(ctx, testUser, transfer.FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(exported), "Frieren")

	// Import into a different user's list.
	result, err := svc.transfer.Import(ctx, "user-002", exported, transfer.FormatJSON, transfer.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Zero(t, result.ErrorCount)

	entries, err := svc.entries.List(ctx, "user-002")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTransferService_ImportSkipsDuplicates(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	item := seedCatalogItem(t, svc, "Frieren", 28)
	_, err := svc.entries.Create(ctx, testUser, &domain.ListEntry{
		CatalogItemID: item.ID,
		MediaType:     domain.MediaAnime,
		Status:        domain.StatusWatching,
	})
	require.NoError(t, err)

	exported, err := svc.transfer.Export(ctx, testUser, transfer.FormatCSV)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(exported), "Frieren"))

	opts := transfer.DefaultOptions()
	opts.MergeDuplicates = transfer.MergeSkip
	result, err := svc.transfer.Import(ctx, testUser, exported, transfer.FormatCSV, opts)
	require.NoError(t, err)
	assert.Zero(t, result.SuccessCount)
	assert.Equal(t, 1, result.SkippedCount)
}
