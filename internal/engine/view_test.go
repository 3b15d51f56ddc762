package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchlogapp/watchlog-server/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func viewEntry(id, title string, status domain.Status, score *float64) *domain.ListEntry {
	return &domain.ListEntry{
		Syncable:  domain.Syncable{ID: id, CreatedAt: time.Unix(1700000000, 0)},
		MediaType: domain.MediaAnime,
		Status:    status,
		Title:     title,
		Score:     score,
	}
}

func ids(entries []*domain.ListEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestDerive_ConjunctionOfCriteria(t *testing.T) {
	entries := []*domain.ListEntry{
		viewEntry("a", "Monster", domain.StatusCompleted, ptr(9.5)),
		viewEntry("b", "Bleach", domain.StatusCompleted, ptr(7.0)),
		viewEntry("c", "Frieren", domain.StatusCompleted, ptr(8.5)),
		viewEntry("d", "Naruto", domain.StatusWatching, ptr(9.0)),
		viewEntry("e", "One Piece", domain.StatusWatching, nil),
	}

	// status == completed AND score >= 8: exactly a and c.
	got := Derive(entries, Filter{
		Statuses: []domain.Status{domain.StatusCompleted},
		ScoreMin: ptr(8.0),
	}, Sort{Key: SortByScore, Desc: true})

	assert.Equal(t, []string{"a", "c"}, ids(got))
}

func TestDerive_AbsentCriteriaImposeNoConstraint(t *testing.T) {
	entries := []*domain.ListEntry{
		viewEntry("a", "Monster", domain.StatusCompleted, nil),
		viewEntry("b", "Bleach", domain.StatusWatching, nil),
	}
	got := Derive(entries, Filter{}, Sort{Key: SortByTitle})
	assert.Len(t, got, 2)
}

func TestDerive_TextMatchesTitleNotesTags(t *testing.T) {
	withNotes := viewEntry("a", "Monster", domain.StatusCompleted, nil)
	withNotes.Notes = "johan is terrifying"
	withTag := viewEntry("b", "Bleach", domain.StatusCompleted, nil)
	withTag.Tags = []string{"shounen-classics"}
	miss := viewEntry("c", "Frieren", domain.StatusCompleted, nil)

	entries := []*domain.ListEntry{withNotes, withTag, miss}

	assert.Equal(t, []string{"a"}, ids(Derive(entries, Filter{Text: "JOHAN"}, Sort{Key: SortByTitle})))
	assert.Equal(t, []string{"b"}, ids(Derive(entries, Filter{Text: "classics"}, Sort{Key: SortByTitle})))
	assert.Equal(t, []string{"c"}, ids(Derive(entries, Filter{Text: "frieren"}, Sort{Key: SortByTitle})))
}

func TestDerive_FoldedTextMatch(t *testing.T) {
	entries := []*domain.ListEntry{
		viewEntry("a", "Bungō Stray Dogs", domain.StatusWatching, nil),
	}
	got := Derive(entries, Filter{Text: "bungo"}, Sort{Key: SortByTitle})
	assert.Len(t, got, 1)
}

func TestDerive_TagIntersectionAnyOf(t *testing.T) {
	a := viewEntry("a", "Monster", domain.StatusCompleted, nil)
	a.Tags = []string{"seinen"}
	b := viewEntry("b", "Bleach", domain.StatusCompleted, nil)
	b.Tags = []string{"shounen"}
	c := viewEntry("c", "Frieren", domain.StatusCompleted, nil)

	got := Derive([]*domain.ListEntry{a, b, c}, Filter{Tags: []string{"seinen", "shounen"}}, Sort{Key: SortByTitle})
	assert.ElementsMatch(t, []string{"a", "b"}, ids(got))
}

func TestDerive_SortDeterministicOnEqualKeys(t *testing.T) {
	// All share the same score; order must come from ID ascending, stable
	// across repeated derivations.
	entries := []*domain.ListEntry{
		viewEntry("c", "Same", domain.StatusWatching, ptr(8.0)),
		viewEntry("a", "Same", domain.StatusWatching, ptr(8.0)),
		viewEntry("b", "Same", domain.StatusWatching, ptr(8.0)),
	}

	first := ids(Derive(entries, Filter{}, Sort{Key: SortByScore}))
	second := ids(Derive(entries, Filter{}, Sort{Key: SortByScore}))

	assert.Equal(t, []string{"a", "b", "c"}, first)
	assert.Equal(t, first, second)
}

func TestDerive_NilScoreSortsFirstBothDirections(t *testing.T) {
	entries := []*domain.ListEntry{
		viewEntry("a", "High", domain.StatusWatching, ptr(9.0)),
		viewEntry("b", "Unrated", domain.StatusWatching, nil),
		viewEntry("c", "Low", domain.StatusWatching, ptr(2.0)),
	}

	asc := ids(Derive(entries, Filter{}, Sort{Key: SortByScore}))
	assert.Equal(t, []string{"b", "c", "a"}, asc, "nil is the lowest value ascending")

	desc := ids(Derive(entries, Filter{}, Sort{Key: SortByScore, Desc: true}))
	assert.Equal(t, []string{"b", "a", "c"}, desc, "nil is the highest value descending")
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	entries := []*domain.ListEntry{
		viewEntry("b", "Beta", domain.StatusWatching, nil),
		viewEntry("a", "Alpha", domain.StatusWatching, nil),
	}

	_ = Derive(entries, Filter{}, Sort{Key: SortByTitle})
	require.Equal(t, "b", entries[0].ID, "input slice order preserved")
}

func TestDerive_RangeFilters(t *testing.T) {
	a := viewEntry("a", "A", domain.StatusWatching, nil)
	a.Progress = 5
	b := viewEntry("b", "B", domain.StatusWatching, nil)
	b.Progress = 50
	c := viewEntry("c", "C", domain.StatusWatching, nil)
	c.Progress = 500

	got := Derive([]*domain.ListEntry{a, b, c}, Filter{ProgressMin: ptr(10), ProgressMax: ptr(100)}, Sort{Key: SortByProgress})
	assert.Equal(t, []string{"b"}, ids(got))
}

func TestDerive_CreatedDateRange(t *testing.T) {
	old := viewEntry("a", "Old", domain.StatusWatching, nil)
	old.CreatedAt = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := viewEntry("b", "Recent", domain.StatusWatching, nil)
	recent.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	got := Derive([]*domain.ListEntry{old, recent}, Filter{CreatedFrom: &from}, Sort{Key: SortByCreatedAt})
	assert.Equal(t, []string{"b"}, ids(got))
}

func TestDerive_SortBySortOrderDefault(t *testing.T) {
	a := viewEntry("a", "A", domain.StatusWatching, nil)
	a.SortOrder = 2
	b := viewEntry("b", "B", domain.StatusWatching, nil)
	b.SortOrder = 0
	c := viewEntry("c", "C", domain.StatusWatching, nil)
	c.SortOrder = 1

	got := Derive([]*domain.ListEntry{a, b, c}, Filter{}, Sort{})
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
}
