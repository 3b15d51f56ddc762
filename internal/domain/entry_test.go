package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestListEntry_Clone_DeepCopies(t *testing.T) {
	now := time.Now()
	orig := &ListEntry{
		Syncable:      Syncable{ID: "ent-1", CreatedAt: now, UpdatedAt: now},
		CatalogItemID: "cat-1",
		MediaType:     MediaAnime,
		Status:        StatusWatching,
		Score:         ptr(8.5),
		Tags:          []string{"favorites", "rewatch"},
	}

	clone := orig.Clone()
	require.Equal(t, orig, clone)

	// Mutating the clone must not leak into the original.
	*clone.Score = 2.0
	clone.Tags[0] = "changed"
	clone.Status = StatusDropped

	assert.Equal(t, 8.5, *orig.Score)
	assert.Equal(t, "favorites", orig.Tags[0])
	assert.Equal(t, StatusWatching, orig.Status)
}

func TestListEntry_Validate(t *testing.T) {
	base := func() *ListEntry {
		return &ListEntry{
			CatalogItemID: "cat-1",
			MediaType:     MediaManga,
			Status:        StatusPlanned,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*ListEntry)
		wantErr error
	}{
		{"valid", func(*ListEntry) {}, nil},
		{"missing catalog id", func(e *ListEntry) { e.CatalogItemID = "" }, ErrMissingCatalogID},
		{"bad media type", func(e *ListEntry) { e.MediaType = "movie" }, ErrInvalidMediaType},
		{"bad status", func(e *ListEntry) { e.Status = "binging" }, ErrInvalidStatus},
		{"negative progress", func(e *ListEntry) { e.Progress = -1 }, ErrNegativeProgress},
		{"score too high", func(e *ListEntry) { e.Score = ptr(10.5) }, ErrScoreOutOfRange},
		{"score at bounds", func(e *ListEntry) { e.Score = ptr(10.0) }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base()
			tt.mutate(e)
			err := e.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestEntryDelta_Apply(t *testing.T) {
	e := &ListEntry{
		Syncable: Syncable{ID: "ent-1"},
		Status:   StatusWatching,
		Progress: 3,
		Score:    ptr(7.0),
		Notes:    "keep",
	}

	d := &EntryDelta{
		Status:   ptr(StatusCompleted),
		Progress: ptr(12),
	}
	d.Apply(e)

	assert.Equal(t, StatusCompleted, e.Status)
	assert.Equal(t, 12, e.Progress)
	assert.Equal(t, 7.0, *e.Score, "unset fields untouched")
	assert.Equal(t, "keep", e.Notes)
	assert.False(t, e.UpdatedAt.IsZero())
}

func TestEntryDelta_ClearScore(t *testing.T) {
	e := &ListEntry{Score: ptr(9.0)}
	d := &EntryDelta{ClearScore: true}
	d.Apply(e)
	assert.Nil(t, e.Score)
}

func TestEntryDelta_IsZero(t *testing.T) {
	assert.True(t, (&EntryDelta{}).IsZero())
	assert.False(t, (&EntryDelta{Notes: ptr("hi")}).IsZero())
	assert.False(t, (&EntryDelta{ClearScore: true}).IsZero())
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Watching", StatusWatching.Label(MediaAnime))
	assert.Equal(t, "Reading", StatusWatching.Label(MediaManga))
	assert.Equal(t, "Plan to Read", StatusPlanned.Label(MediaManga))
	assert.Equal(t, "Completed", StatusCompleted.Label(MediaAnime))
}

func TestEntry_Tags(t *testing.T) {
	e := &ListEntry{}
	assert.True(t, e.AddTag("isekai"))
	assert.False(t, e.AddTag("isekai"))
	assert.True(t, e.HasTag("isekai"))
	assert.True(t, e.RemoveTag("isekai"))
	assert.False(t, e.RemoveTag("isekai"))
}
