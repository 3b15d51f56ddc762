package engine

import (
	"context"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/errors"
)

// Reorder assigns dense, zero-based sort orders following the given sequence
// of entry IDs and persists the changed positions as one bulk write.
//
// Dense reassignment rewrites every position on each move instead of using a
// gap-based scheme. List sizes here are tens to low hundreds, and dense
// values cannot drift or collide the way incremental insertion schemes do.
//
// The reorder is atomic from the caller's perspective: on remote failure the
// entire pre-reorder snapshot is restored and partial reordering is never
// observable. Sequences of zero or one ID are a no-op success.
func (g *Engine) Reorder(ctx context.Context, orderedIDs []string) error {
	if len(orderedIDs) <= 1 {
		return nil
	}

	g.mu.Lock()
	for _, entryID := range orderedIDs {
		if g.store.get(entryID) == nil {
			g.mu.Unlock()
			return errors.NotFoundf("entry %s not found", entryID)
		}
	}

	snap := takeSnapshot(g.store, orderedIDs...)

	// Dense reassignment; persist only positions that actually changed.
	updates := make([]OrderUpdate, 0, len(orderedIDs))
	for idx, entryID := range orderedIDs {
		e := g.store.get(entryID)
		if e.SortOrder == idx {
			continue
		}
		moved := e.Clone()
		moved.SortOrder = idx
		moved.Touch()
		g.store.put(moved, domain.SyncPending)
		updates = append(updates, OrderUpdate{ID: entryID, SortOrder: idx})
	}

	if len(updates) == 0 {
		// Already in the requested order.
		g.mu.Unlock()
		return nil
	}

	g.reordering = true
	g.mu.Unlock()

	err := g.remote.BulkSetOrder(ctx, updates)

	g.mu.Lock()
	g.reordering = false
	if err != nil {
		snap.restore(g.store)
		g.lastErr = err
		g.mu.Unlock()
		g.logger.Warn("reorder rolled back", "moved", len(updates), "error", err)
		return errors.Wrap(err, errors.CodeUnavailable, "persist reorder")
	}
	for _, u := range updates {
		if e := g.store.get(u.ID); e != nil {
			g.store.put(e, domain.SyncConfirmed)
		}
	}
	g.lastErr = nil
	g.mu.Unlock()

	g.logger.Debug("reorder confirmed", "moved", len(updates), "total", len(orderedIDs))
	return nil
}
