package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchlogapp/watchlog-server/internal/domain"
)

func setupTestIndex(t *testing.T) *Index {
	t.Helper()

	index, err := NewIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })
	return index
}

func seedCatalog(t *testing.T, index *Index) {
	t.Helper()

	items := []*domain.CatalogItem{
		{
			MediaType:    domain.MediaAnime,
			Title:        "Sousou no Frieren",
			TitleEnglish: "Frieren: Beyond Journey's End",
			Genres:       []string{"fantasy", "adventure"},
			Year:         2023,
			UnitCount:    28,
			MeanScore:    9.3,
			AirStatus:    "finished",
		},
		{
			MediaType: domain.MediaAnime,
			Title:     "Monster",
			Genres:    []string{"thriller", "mystery"},
			Year:      2004,
			UnitCount: 74,
			MeanScore: 8.9,
			AirStatus: "finished",
		},
		{
			MediaType: domain.MediaManga,
			Title:     "Berserk",
			Genres:    []string{"fantasy", "horror"},
			Year:      1989,
			MeanScore: 9.5,
			AirStatus: "airing",
		},
	}

	docs := make([]*CatalogDocument, 0, len(items))
	for i, item := range items {
		item.ID = []string{"cat-001", "cat-002", "cat-003"}[i]
		item.UpdatedAt = time.Now()
		docs = append(docs, FromCatalogItem(item))
	}
	require.NoError(t, index.IndexDocuments(docs))
}

func TestSearch_TitleMatch(t *testing.T) {
	index := setupTestIndex(t)
	seedCatalog(t, index)

	params := DefaultParams()
	params.Query = "frieren"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "cat-001", result.Hits[0].ID)
	assert.Equal(t, "Sousou no Frieren", result.Hits[0].Title)
}

func TestSearch_EnglishTitleMatch(t *testing.T) {
	index := setupTestIndex(t)
	seedCatalog(t, index)

	params := DefaultParams()
	params.Query = "beyond journey"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "cat-001", result.Hits[0].ID)
}

func TestSearch_FuzzyMatch(t *testing.T) {
	index := setupTestIndex(t)
	seedCatalog(t, index)

	params := DefaultParams()
	params.Query = "berserl" // one edit away

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "cat-003", result.Hits[0].ID)
}

func TestSearch_MediaTypeFilter(t *testing.T) {
	index := setupTestIndex(t)
	seedCatalog(t, index)

	params := DefaultParams()
	params.MediaType = "manga"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "cat-003", result.Hits[0].ID)
}

func TestSearch_GenreAndYearFilters(t *testing.T) {
	index := setupTestIndex(t)
	seedCatalog(t, index)

	params := DefaultParams()
	params.Genres = []string{"fantasy"}
	params.MinYear = 2000

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "cat-001", result.Hits[0].ID)
}

func TestSearch_SortByScore(t *testing.T) {
	index := setupTestIndex(t)
	seedCatalog(t, index)

	params := DefaultParams()
	params.SortBy = "score"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, result.Hits, 3)
	assert.Equal(t, "cat-003", result.Hits[0].ID) // 9.5
	assert.Equal(t, "cat-001", result.Hits[1].ID) // 9.3
	assert.Equal(t, "cat-002", result.Hits[2].ID) // 8.9
}

func TestSearch_Facets(t *testing.T) {
	index := setupTestIndex(t)
	seedCatalog(t, index)

	result, err := index.Search(context.Background(), DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), result.Total)

	var animeCount int
	for _, fc := range result.Facets.MediaTypes {
		if fc.Value == "anime" {
			animeCount = fc.Count
		}
	}
	assert.Equal(t, 2, animeCount)
}

func TestSearch_Pagination(t *testing.T) {
	index := setupTestIndex(t)
	seedCatalog(t, index)

	params := DefaultParams()
	params.SortBy = "title"
	params.Limit = 2

	page1, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, page1.Hits, 2)

	params.Offset = 2
	page2, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, page2.Hits, 1)
	assert.NotEqual(t, page1.Hits[0].ID, page2.Hits[0].ID)
}

func TestDeleteDocument(t *testing.T) {
	index := setupTestIndex(t)
	seedCatalog(t, index)

	require.NoError(t, index.DeleteDocument("cat-002"))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestRebuild_EmptiesIndex(t *testing.T) {
	index := setupTestIndex(t)
	seedCatalog(t, index)

	require.NoError(t, index.Rebuild())

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}
