package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	apperrors "github.com/watchlogapp/watchlog-server/internal/errors"
	"github.com/watchlogapp/watchlog-server/internal/id"
)

var errRemoteDown = errors.New("remote store unreachable")

// fakeRemote is an in-memory Remote with switchable failure modes and an
// optional gate that holds calls open so tests can interleave them.
type fakeRemote struct {
	mu      sync.Mutex
	entries map[string]*domain.ListEntry
	nextID  int

	failCreate bool
	failUpdate bool
	failDelete bool
	failBulk   bool
	failOrder  bool

	// gate, when non-nil, is received from at the start of every mutating
	// call. Send to it to release one call.
	gate chan struct{}

	orderCalls [][]OrderUpdate
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{entries: make(map[string]*domain.ListEntry)}
}

func (f *fakeRemote) waitGate() {
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeRemote) CreateEntry(_ context.Context, entry *domain.ListEntry) (*domain.ListEntry, error) {
	f.waitGate()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return nil, errRemoteDown
	}
	canonical := entry.Clone()
	f.nextID++
	canonical.ID = fmt.Sprintf("ent-%03d", f.nextID)
	canonical.UpdatedAt = time.Now()
	f.entries[canonical.ID] = canonical.Clone()
	return canonical, nil
}

func (f *fakeRemote) UpdateEntry(_ context.Context, entryID string, delta *domain.EntryDelta) (*domain.ListEntry, error) {
	f.waitGate()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return nil, errRemoteDown
	}
	e, ok := f.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("no entry %s", entryID)
	}
	canonical := e.Clone()
	delta.Apply(canonical)
	f.entries[entryID] = canonical.Clone()
	return canonical, nil
}

func (f *fakeRemote) DeleteEntry(_ context.Context, entryID string) error {
	f.waitGate()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errRemoteDown
	}
	delete(f.entries, entryID)
	return nil
}

func (f *fakeRemote) BulkUpdate(_ context.Context, ids []string, delta *domain.EntryDelta) error {
	f.waitGate()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failBulk {
		return errRemoteDown
	}
	for _, entryID := range ids {
		if e, ok := f.entries[entryID]; ok {
			delta.Apply(e)
		}
	}
	return nil
}

func (f *fakeRemote) BulkDelete(_ context.Context, ids []string) error {
	f.waitGate()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failBulk {
		return errRemoteDown
	}
	for _, entryID := range ids {
		delete(f.entries, entryID)
	}
	return nil
}

func (f *fakeRemote) BulkSetOrder(_ context.Context, updates []OrderUpdate) error {
	f.waitGate()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderCalls = append(f.orderCalls, updates)
	if f.failOrder {
		return errRemoteDown
	}
	for _, u := range updates {
		if e, ok := f.entries[u.ID]; ok {
			e.SortOrder = u.SortOrder
		}
	}
	return nil
}

func (f *fakeRemote) Query(context.Context, QuerySpec, int, int) (*QueryPage, error) {
	return &QueryPage{}, nil
}

func seedEntry(i int) *domain.ListEntry {
	score := 5.0 + float64(i%5)
	return &domain.ListEntry{
		Syncable:      domain.Syncable{ID: fmt.Sprintf("ent-%03d", i), CreatedAt: time.Unix(int64(1700000000+i), 0), UpdatedAt: time.Unix(int64(1700000000+i), 0)},
		UserID:        "usr-1",
		CatalogItemID: fmt.Sprintf("cat-%03d", i),
		MediaType:     domain.MediaAnime,
		Status:        domain.StatusWatching,
		Title:         fmt.Sprintf("Title %03d", i),
		Progress:      i,
		Score:         &score,
		SortOrder:     i,
	}
}

func setupEngine(t *testing.T, n int) (*Engine, *fakeRemote) {
	t.Helper()
	remote := newFakeRemote()
	g := New(remote)

	seeds := make([]*domain.ListEntry, 0, n)
	for i := range n {
		e := seedEntry(i)
		remote.entries[e.ID] = e.Clone()
		remote.nextID = n
		seeds = append(seeds, e)
	}
	g.Load(seeds)
	return g, remote
}

// storeDump returns the full store contents keyed by ID for equality checks.
func storeDump(g *Engine) map[string]*domain.ListEntry {
	dump := make(map[string]*domain.ListEntry)
	for _, e := range g.Entries() {
		dump[e.ID] = e
	}
	return dump
}

func TestCreateEntry_OptimisticThenCanonical(t *testing.T) {
	g, remote := setupEngine(t, 0)
	remote.gate = make(chan struct{})

	entry := &domain.ListEntry{
		UserID:        "usr-1",
		CatalogItemID: "cat-900",
		MediaType:     domain.MediaManga,
		Status:        domain.StatusPlanned,
		Title:         "Vinland Saga",
	}

	done := make(chan struct{})
	var canonical *domain.ListEntry
	var createErr error
	go func() {
		defer close(done)
		canonical, createErr = g.CreateEntry(context.Background(), entry)
	}()

	// Before the remote responds the entry is visible under a temp ID.
	require.Eventually(t, func() bool {
		for _, e := range g.Entries() {
			if id.IsTemp(e.ID) {
				return g.IsPending(e.ID)
			}
		}
		return false
	}, time.Second, time.Millisecond)

	remote.gate <- struct{}{}
	<-done
	require.NoError(t, createErr)

	// The temp entry was replaced, not merged.
	require.NotNil(t, canonical)
	assert.False(t, id.IsTemp(canonical.ID))
	got, ok := g.Entry(canonical.ID)
	require.True(t, ok)
	assert.Equal(t, "Vinland Saga", got.Title)

	state, _ := g.State(canonical.ID)
	assert.Equal(t, domain.SyncConfirmed, state)
	for _, e := range g.Entries() {
		assert.False(t, id.IsTemp(e.ID))
	}
}

func TestCreateEntry_FailureRollsBack(t *testing.T) {
	g, remote := setupEngine(t, 3)
	remote.failCreate = true

	before := storeDump(g)

	_, err := g.CreateEntry(context.Background(), &domain.ListEntry{
		CatalogItemID: "cat-900",
		MediaType:     domain.MediaAnime,
		Status:        domain.StatusPlanned,
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnavailable))

	// Byte-for-byte: the store equals its pre-mutation state.
	assert.Equal(t, before, storeDump(g))
	assert.Error(t, g.LastError())
}

func TestUpdateEntry_FailureRestoresSnapshotVerbatim(t *testing.T) {
	g, remote := setupEngine(t, 3)
	remote.failUpdate = true

	before := storeDump(g)

	completed := domain.StatusCompleted
	_, err := g.UpdateEntry(context.Background(), "ent-001", &domain.EntryDelta{Status: &completed})
	require.Error(t, err)

	assert.Equal(t, before, storeDump(g))

	state, _ := g.State("ent-001")
	assert.Equal(t, domain.SyncReverted, state)
	assert.False(t, g.IsPending("ent-001"))
}

func TestUpdateEntry_ConfirmsCanonical(t *testing.T) {
	g, _ := setupEngine(t, 3)

	completed := domain.StatusCompleted
	canonical, err := g.UpdateEntry(context.Background(), "ent-001", &domain.EntryDelta{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, canonical.Status)

	got, _ := g.Entry("ent-001")
	assert.Equal(t, domain.StatusCompleted, got.Status)
	state, _ := g.State("ent-001")
	assert.Equal(t, domain.SyncConfirmed, state)
	assert.NoError(t, g.LastError())
}

func TestUpdateEntry_EmptyDeltaRejectedBeforeApply(t *testing.T) {
	g, _ := setupEngine(t, 1)
	before := storeDump(g)

	_, err := g.UpdateEntry(context.Background(), "ent-000", &domain.EntryDelta{})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	assert.Equal(t, before, storeDump(g), "validation failures must not touch the store")
}

func TestDeleteEntry_OptimisticRemoveAndRollback(t *testing.T) {
	g, remote := setupEngine(t, 2)
	remote.failDelete = true
	before := storeDump(g)

	err := g.DeleteEntry(context.Background(), "ent-000")
	require.Error(t, err)
	assert.Equal(t, before, storeDump(g), "deleted entry must reappear exactly as it was")
}

func TestDeleteEntry_Success(t *testing.T) {
	var removed []string
	remote := newFakeRemote()
	g := New(remote, WithRemovalHook(func(ids []string) { removed = append(removed, ids...) }))
	e := seedEntry(0)
	remote.entries[e.ID] = e.Clone()
	g.Load([]*domain.ListEntry{e})

	require.NoError(t, g.DeleteEntry(context.Background(), "ent-000"))
	_, ok := g.Entry("ent-000")
	assert.False(t, ok)
	assert.Equal(t, []string{"ent-000"}, removed)
}

func TestConcurrentMutations_RollbackScopedToOwnSnapshot(t *testing.T) {
	g, remote := setupEngine(t, 2)
	remote.gate = make(chan struct{}, 2)

	completed := domain.StatusCompleted
	dropped := domain.StatusDropped

	var wg sync.WaitGroup
	var err0, err1 error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err0 = g.UpdateEntry(context.Background(), "ent-000", &domain.EntryDelta{Status: &completed})
	}()
	go func() {
		defer wg.Done()
		_, err1 = g.UpdateEntry(context.Background(), "ent-001", &domain.EntryDelta{Status: &dropped})
	}()

	// Both mutations are optimistically applied and in flight.
	require.Eventually(t, func() bool {
		return g.IsPending("ent-000") && g.IsPending("ent-001")
	}, time.Second, time.Millisecond)

	// Fail the remote before releasing the second call only.
	remote.gate <- struct{}{}
	require.Eventually(t, func() bool {
		return !g.IsPending("ent-000") || !g.IsPending("ent-001")
	}, time.Second, time.Millisecond)
	remote.mu.Lock()
	remote.failUpdate = true
	remote.mu.Unlock()
	remote.gate <- struct{}{}
	wg.Wait()

	// Exactly one failed; the other's confirmed state is untouched.
	require.True(t, (err0 == nil) != (err1 == nil), "expected exactly one failure, got err0=%v err1=%v", err0, err1)

	var okID, failedID string
	var wantStatus domain.Status
	if err0 == nil {
		okID, failedID, wantStatus = "ent-000", "ent-001", completed
	} else {
		okID, failedID, wantStatus = "ent-001", "ent-000", dropped
	}

	okEntry, _ := g.Entry(okID)
	assert.Equal(t, wantStatus, okEntry.Status)
	okState, _ := g.State(okID)
	assert.Equal(t, domain.SyncConfirmed, okState)

	failedEntry, _ := g.Entry(failedID)
	assert.Equal(t, domain.StatusWatching, failedEntry.Status, "failed mutation restored original status")
	failedState, _ := g.State(failedID)
	assert.Equal(t, domain.SyncReverted, failedState)
}
