package engine

import (
	"github.com/watchlogapp/watchlog-server/internal/domain"
)

// EntityStore is the in-memory source of truth the UI reads from. It is only
// ever written through the mutation, reorder and bulk paths on Engine; reads
// hand out clones so callers can never mutate shared state.
type EntityStore struct {
	entries map[string]*domain.ListEntry
	states  map[string]domain.SyncState
}

// NewEntityStore creates an empty store.
func NewEntityStore() *EntityStore {
	return &EntityStore{
		entries: make(map[string]*domain.ListEntry),
		states:  make(map[string]domain.SyncState),
	}
}

// Load replaces the store contents with entries fetched from the remote
// store, all marked Confirmed. Used on startup and after list refreshes.
func (s *EntityStore) Load(entries []*domain.ListEntry) {
	s.entries = make(map[string]*domain.ListEntry, len(entries))
	s.states = make(map[string]domain.SyncState, len(entries))
	for _, e := range entries {
		s.entries[e.ID] = e.Clone()
		s.states[e.ID] = domain.SyncConfirmed
	}
}

// get returns the live entry, or nil. Internal callers only; the pointer is
// the store's own copy.
func (s *EntityStore) get(id string) *domain.ListEntry {
	return s.entries[id]
}

func (s *EntityStore) put(e *domain.ListEntry, state domain.SyncState) {
	s.entries[e.ID] = e
	s.states[e.ID] = state
}

func (s *EntityStore) remove(id string) {
	delete(s.entries, id)
	delete(s.states, id)
}

// Get returns a clone of the entry with the given ID.
func (s *EntityStore) Get(id string) (*domain.ListEntry, bool) {
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// State returns the sync lifecycle state of an entry.
func (s *EntityStore) State(id string) (domain.SyncState, bool) {
	st, ok := s.states[id]
	return st, ok
}

// All returns clones of every entry, in unspecified order. Use Derive for
// the ordered view.
func (s *EntityStore) All() []*domain.ListEntry {
	out := make([]*domain.ListEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Clone())
	}
	return out
}

// Len returns the number of entries held.
func (s *EntityStore) Len() int {
	return len(s.entries)
}
