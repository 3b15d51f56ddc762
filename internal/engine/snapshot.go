package engine

import "github.com/watchlogapp/watchlog-server/internal/domain"

// snapshot is a point-in-time copy of the slice of the store a mutation is
// about to touch. Each mutation owns exactly one snapshot so a rollback
// restores to the state immediately before that mutation, never to an
// arbitrary earlier one.
type snapshot struct {
	// entries maps each captured ID to a deep copy of the entry at capture
	// time, or nil if the ID was absent (so restore can undo a creation).
	entries map[string]*domain.ListEntry
	states  map[string]domain.SyncState
}

// takeSnapshot captures the given ids from the store. Caller holds the
// engine lock.
func takeSnapshot(s *EntityStore, ids ...string) *snapshot {
	snap := &snapshot{
		entries: make(map[string]*domain.ListEntry, len(ids)),
		states:  make(map[string]domain.SyncState, len(ids)),
	}
	for _, id := range ids {
		if e := s.get(id); e != nil {
			snap.entries[id] = e.Clone()
			snap.states[id], _ = s.State(id)
		} else {
			snap.entries[id] = nil
		}
	}
	return snap
}

// restore puts every captured entry back verbatim. Entries absent at capture
// time are removed; present ones are replaced whole, not patched, and marked
// Reverted. Caller holds the engine lock.
func (snap *snapshot) restore(s *EntityStore) {
	for id, e := range snap.entries {
		if e == nil {
			s.remove(id)
			continue
		}
		s.put(e.Clone(), domain.SyncReverted)
	}
}
