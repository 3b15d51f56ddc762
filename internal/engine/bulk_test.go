package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	apperrors "github.com/watchlogapp/watchlog-server/internal/errors"
)

func TestBulkApply_ProjectsAcrossAllTargets(t *testing.T) {
	g, _ := setupEngine(t, 5)

	onHold := domain.StatusOnHold
	targets := []string{"ent-000", "ent-002", "ent-004"}
	require.NoError(t, g.BulkApply(context.Background(), targets, &domain.EntryDelta{Status: &onHold}))

	for _, entryID := range targets {
		e, _ := g.Entry(entryID)
		assert.Equal(t, domain.StatusOnHold, e.Status)
		state, _ := g.State(entryID)
		assert.Equal(t, domain.SyncConfirmed, state)
	}
	// Untargeted entries are untouched.
	e, _ := g.Entry("ent-001")
	assert.Equal(t, domain.StatusWatching, e.Status)
}

func TestBulkApply_EmptyTargetsIsNoOpSuccess(t *testing.T) {
	g, _ := setupEngine(t, 2)
	onHold := domain.StatusOnHold
	require.NoError(t, g.BulkApply(context.Background(), nil, &domain.EntryDelta{Status: &onHold}))
}

func TestBulkApply_AtomicRollbackOnFailure(t *testing.T) {
	g, remote := setupEngine(t, 5)
	remote.failBulk = true
	before := storeDump(g)

	dropped := domain.StatusDropped
	err := g.BulkApply(context.Background(), []string{"ent-000", "ent-001", "ent-002"}, &domain.EntryDelta{Status: &dropped})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnavailable))

	// None of the targeted entries show the attempted delta.
	assert.Equal(t, before, storeDump(g))
	assert.False(t, g.IsBulkRunning())
	for _, entryID := range []string{"ent-000", "ent-001", "ent-002"} {
		assert.False(t, g.IsPending(entryID))
	}
}

func TestBulkApply_InvalidDeltaRejectedBeforeApply(t *testing.T) {
	g, _ := setupEngine(t, 2)
	before := storeDump(g)

	bad := 11.0
	err := g.BulkApply(context.Background(), []string{"ent-000"}, &domain.EntryDelta{Score: &bad})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	assert.Equal(t, before, storeDump(g))
}

func TestBulkDelete_RemovesAllAndPrunesSelection(t *testing.T) {
	var pruned []string
	remote := newFakeRemote()
	g := New(remote, WithRemovalHook(func(ids []string) { pruned = append(pruned, ids...) }))

	seeds := make([]*domain.ListEntry, 0, 4)
	for i := range 4 {
		e := seedEntry(i)
		remote.entries[e.ID] = e.Clone()
		seeds = append(seeds, e)
	}
	g.Load(seeds)

	targets := []string{"ent-001", "ent-003"}
	require.NoError(t, g.BulkDelete(context.Background(), targets))

	for _, entryID := range targets {
		_, ok := g.Entry(entryID)
		assert.False(t, ok)
	}
	assert.Equal(t, 2, len(g.Entries()))
	assert.Equal(t, targets, pruned)
}

func TestBulkDelete_EmptyTargetsIsNoOpSuccess(t *testing.T) {
	g, _ := setupEngine(t, 2)
	require.NoError(t, g.BulkDelete(context.Background(), nil))
	assert.Equal(t, 2, len(g.Entries()))
}

func TestBulkDelete_AtomicRollbackOnFailure(t *testing.T) {
	g, remote := setupEngine(t, 4)
	remote.failBulk = true
	before := storeDump(g)

	err := g.BulkDelete(context.Background(), []string{"ent-000", "ent-002"})
	require.Error(t, err)
	assert.Equal(t, before, storeDump(g), "all deleted entries restored")
}
