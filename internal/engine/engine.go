// Package engine implements the optimistic local-state synchronization core:
// an in-memory entity store that the UI treats as instantly consistent,
// backed by a remote store-of-record that confirms or rejects every write.
//
// Every mutation follows the same discipline: snapshot the affected slice of
// the store, apply the change locally (Pending), dispatch the remote write,
// then either merge the canonical server result (Confirmed) or restore the
// snapshot verbatim (Reverted). Rollbacks are scoped per mutation, so
// concurrent mutations on different entries never corrupt each other.
package engine

import (
	"log/slog"
	"sync"

	"github.com/watchlogapp/watchlog-server/internal/domain"
)

// Engine owns the entity store and coordinates all writes against it.
//
// The engine is safe for concurrent use. Mutations on *different* entries may
// be in flight simultaneously; mutations on the *same* entry must be
// serialized by the caller (the UI disables the control until the first
// resolves). The engine does not queue or coalesce same-entry writes.
type Engine struct {
	mu     sync.Mutex
	store  *EntityStore
	remote Remote
	logger *slog.Logger

	pending     map[string]bool // entry IDs with an in-flight mutation
	reordering  bool
	bulkRunning bool
	lastErr     error

	// onRemoved is invoked after confirmed deletions so callers can prune
	// selection sets that referenced the removed entries.
	onRemoved func(ids []string)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Engine) { g.logger = l }
}

// WithRemovalHook registers a callback invoked with the IDs of entries that
// were confirmed deleted (single or bulk). Called outside the engine lock.
func WithRemovalHook(fn func(ids []string)) Option {
	return func(g *Engine) { g.onRemoved = fn }
}

// New creates an engine over the given remote store.
func New(remote Remote, opts ...Option) *Engine {
	g := &Engine{
		store:   NewEntityStore(),
		remote:  remote,
		logger:  slog.New(slog.DiscardHandler),
		pending: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Load replaces the store contents with confirmed entries from the remote.
func (g *Engine) Load(entries []*domain.ListEntry) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.store.Load(entries)
}

// Entry returns a clone of one entry.
func (g *Engine) Entry(id string) (*domain.ListEntry, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store.Get(id)
}

// Entries returns clones of all entries in unspecified order.
func (g *Engine) Entries() []*domain.ListEntry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store.All()
}

// View derives the filtered, sorted list the UI renders.
func (g *Engine) View(filter Filter, sort Sort) []*domain.ListEntry {
	return Derive(g.Entries(), filter, sort)
}

// State returns the sync lifecycle state of an entry.
func (g *Engine) State(id string) (domain.SyncState, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store.State(id)
}

// IsPending reports whether the entry has a mutation awaiting confirmation.
func (g *Engine) IsPending(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending[id]
}

// IsReordering reports whether a reorder is in flight.
func (g *Engine) IsReordering() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reordering
}

// IsBulkRunning reports whether a bulk operation is in flight.
func (g *Engine) IsBulkRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bulkRunning
}

// LastError returns the most recent operation failure, or nil. Cleared by
// the next successful operation.
func (g *Engine) LastError() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

func (g *Engine) setLastError(err error) {
	g.mu.Lock()
	g.lastErr = err
	g.mu.Unlock()
}

func (g *Engine) notifyRemoved(ids []string) {
	if g.onRemoved != nil && len(ids) > 0 {
		g.onRemoved(ids)
	}
}
