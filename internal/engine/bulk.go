package engine

import (
	"context"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/errors"
)

// BulkApply projects one delta across every targeted entry and persists it as
// a single atomic remote operation: either all targets are confirmed or the
// whole set rolls back. An empty target set is a no-op success.
//
// This is intentionally stricter than import: a multi-select "change status"
// must not partially apply.
func (g *Engine) BulkApply(ctx context.Context, entryIDs []string, delta *domain.EntryDelta) error {
	if len(entryIDs) == 0 {
		return nil
	}
	if delta == nil || delta.IsZero() {
		return errors.Validation("empty delta")
	}
	if err := delta.Validate(); err != nil {
		return errors.Validation(err.Error())
	}

	g.mu.Lock()
	for _, entryID := range entryIDs {
		if g.store.get(entryID) == nil {
			g.mu.Unlock()
			return errors.NotFoundf("entry %s not found", entryID)
		}
	}

	snap := takeSnapshot(g.store, entryIDs...)
	for _, entryID := range entryIDs {
		projected := g.store.get(entryID).Clone()
		delta.Apply(projected)
		g.store.put(projected, domain.SyncPending)
		g.pending[entryID] = true
	}
	g.bulkRunning = true
	g.mu.Unlock()

	err := g.remote.BulkUpdate(ctx, entryIDs, delta)

	g.mu.Lock()
	g.bulkRunning = false
	for _, entryID := range entryIDs {
		delete(g.pending, entryID)
	}
	if err != nil {
		snap.restore(g.store)
		g.lastErr = err
		g.mu.Unlock()
		g.logger.Warn("bulk update rolled back", "targets", len(entryIDs), "error", err)
		return errors.Wrap(err, errors.CodeUnavailable, "bulk update")
	}
	for _, entryID := range entryIDs {
		if e := g.store.get(entryID); e != nil {
			g.store.put(e, domain.SyncConfirmed)
		}
	}
	g.lastErr = nil
	g.mu.Unlock()

	g.logger.Debug("bulk update confirmed", "targets", len(entryIDs))
	return nil
}

// BulkDelete removes every targeted entry as a single atomic remote
// operation. After confirmation the removal hook fires so callers can drop
// the deleted IDs from any active selection set. An empty target set is a
// no-op success.
func (g *Engine) BulkDelete(ctx context.Context, entryIDs []string) error {
	if len(entryIDs) == 0 {
		return nil
	}

	g.mu.Lock()
	for _, entryID := range entryIDs {
		if g.store.get(entryID) == nil {
			g.mu.Unlock()
			return errors.NotFoundf("entry %s not found", entryID)
		}
	}

	snap := takeSnapshot(g.store, entryIDs...)
	for _, entryID := range entryIDs {
		g.store.remove(entryID)
		g.pending[entryID] = true
	}
	g.bulkRunning = true
	g.mu.Unlock()

	err := g.remote.BulkDelete(ctx, entryIDs)

	g.mu.Lock()
	g.bulkRunning = false
	for _, entryID := range entryIDs {
		delete(g.pending, entryID)
	}
	if err != nil {
		snap.restore(g.store)
		g.lastErr = err
		g.mu.Unlock()
		g.logger.Warn("bulk delete rolled back", "targets", len(entryIDs), "error", err)
		return errors.Wrap(err, errors.CodeUnavailable, "bulk delete")
	}
	g.lastErr = nil
	g.mu.Unlock()

	g.notifyRemoved(entryIDs)
	g.logger.Debug("bulk delete confirmed", "targets", len(entryIDs))
	return nil
}
