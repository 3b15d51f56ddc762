package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/errors"
	"github.com/watchlogapp/watchlog-server/internal/id"
)

// MutationKind names the three write shapes the coordinator handles.
type MutationKind string

const (
	MutationCreate MutationKind = "create"
	MutationUpdate MutationKind = "update"
	MutationDelete MutationKind = "delete"
)

// mutationRecord is the engine's unit of work. Each record owns the snapshot
// taken immediately before its optimistic apply; rollback restores exactly
// that snapshot and nothing else.
type mutationRecord struct {
	ID      string
	Kind    MutationKind
	EntryID string
	TempID  string // set for creations until the server assigns the real ID
	Delta   *domain.EntryDelta
	snap    *snapshot
	StartedAt time.Time
}

func newMutationRecord(kind MutationKind, entryID string) *mutationRecord {
	return &mutationRecord{
		ID:        uuid.NewString(),
		Kind:      kind,
		EntryID:   entryID,
		StartedAt: time.Now(),
	}
}

// CreateEntry optimistically adds a new entry and persists it remotely.
//
// The entry is visible in the store immediately under a temporary ID so the
// UI has something to key on before the server responds. On success the
// pending entry is replaced (not merged) by the server's canonical entry; on
// failure the store is restored as if the create never happened.
func (g *Engine) CreateEntry(ctx context.Context, entry *domain.ListEntry) (*domain.ListEntry, error) {
	if err := entry.Validate(); err != nil {
		return nil, errors.Validation(err.Error())
	}

	rec := newMutationRecord(MutationCreate, "")
	rec.TempID = id.NewTemp()

	local := entry.Clone()
	local.ID = rec.TempID
	local.InitTimestamps()

	g.mu.Lock()
	rec.snap = takeSnapshot(g.store, rec.TempID)
	g.store.put(local, domain.SyncPending)
	g.pending[rec.TempID] = true
	g.mu.Unlock()

	g.logger.Debug("mutation dispatched", "mutation", rec.ID, "kind", rec.Kind, "temp_id", rec.TempID)

	canonical, err := g.remote.CreateEntry(ctx, local.Clone())

	g.mu.Lock()
	delete(g.pending, rec.TempID)
	if err != nil {
		rec.snap.restore(g.store)
		g.lastErr = err
		g.mu.Unlock()
		g.logger.Warn("create rolled back", "mutation", rec.ID, "error", err)
		return nil, errors.Wrap(err, errors.CodeUnavailable, "create entry")
	}
	// Replace, never merge: the temp entry goes away wholesale.
	g.store.remove(rec.TempID)
	g.store.put(canonical.Clone(), domain.SyncConfirmed)
	g.lastErr = nil
	g.mu.Unlock()

	return canonical, nil
}

// UpdateEntry optimistically applies a field delta to one entry and persists
// it remotely. On failure the pre-mutation snapshot is restored verbatim.
func (g *Engine) UpdateEntry(ctx context.Context, entryID string, delta *domain.EntryDelta) (*domain.ListEntry, error) {
	if delta == nil || delta.IsZero() {
		return nil, errors.Validation("empty delta")
	}
	if err := delta.Validate(); err != nil {
		return nil, errors.Validation(err.Error())
	}

	rec := newMutationRecord(MutationUpdate, entryID)
	rec.Delta = delta

	g.mu.Lock()
	current := g.store.get(entryID)
	if current == nil {
		g.mu.Unlock()
		return nil, errors.NotFoundf("entry %s not found", entryID)
	}
	rec.snap = takeSnapshot(g.store, entryID)

	projected := current.Clone()
	delta.Apply(projected)
	g.store.put(projected, domain.SyncPending)
	g.pending[entryID] = true
	g.mu.Unlock()

	g.logger.Debug("mutation dispatched", "mutation", rec.ID, "kind", rec.Kind, "entry", entryID)

	canonical, err := g.remote.UpdateEntry(ctx, entryID, delta)

	g.mu.Lock()
	delete(g.pending, entryID)
	if err != nil {
		rec.snap.restore(g.store)
		g.lastErr = err
		g.mu.Unlock()
		g.logger.Warn("update rolled back", "mutation", rec.ID, "entry", entryID, "error", err)
		return nil, errors.Wrap(err, errors.CodeUnavailable, "update entry")
	}
	g.store.put(canonical.Clone(), domain.SyncConfirmed)
	g.lastErr = nil
	g.mu.Unlock()

	return canonical, nil
}

// DeleteEntry optimistically removes one entry and persists the deletion.
// On failure the entry reappears exactly as it was.
func (g *Engine) DeleteEntry(ctx context.Context, entryID string) error {
	rec := newMutationRecord(MutationDelete, entryID)

	g.mu.Lock()
	if g.store.get(entryID) == nil {
		g.mu.Unlock()
		return errors.NotFoundf("entry %s not found", entryID)
	}
	rec.snap = takeSnapshot(g.store, entryID)
	g.store.remove(entryID)
	g.pending[entryID] = true
	g.mu.Unlock()

	g.logger.Debug("mutation dispatched", "mutation", rec.ID, "kind", rec.Kind, "entry", entryID)

	err := g.remote.DeleteEntry(ctx, entryID)

	g.mu.Lock()
	delete(g.pending, entryID)
	if err != nil {
		rec.snap.restore(g.store)
		g.lastErr = err
		g.mu.Unlock()
		g.logger.Warn("delete rolled back", "mutation", rec.ID, "entry", entryID, "error", err)
		return errors.Wrap(err, errors.CodeUnavailable, "delete entry")
	}
	g.lastErr = nil
	g.mu.Unlock()

	g.notifyRemoved([]string{entryID})
	return nil
}
