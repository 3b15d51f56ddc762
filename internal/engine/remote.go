package engine

import (
	"context"

	"github.com/watchlogapp/watchlog-server/internal/domain"
)

// OrderUpdate is one persisted position change produced by a reorder.
type OrderUpdate struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sort_order"`
}

// QuerySpec describes a catalog search request.
type QuerySpec struct {
	Text      string            `json:"text"`
	MediaType *domain.MediaType `json:"media_type,omitempty"`
	SortBy    string            `json:"sort_by,omitempty"` // relevance, title, year, score
}

// QueryPage is one page of catalog search results.
type QueryPage struct {
	Items      []*domain.CatalogItem `json:"items"`
	TotalCount int                   `json:"total_count"`
}

// HasMore reports whether pages beyond the given zero-based page exist.
func (p *QueryPage) HasMore(page, pageSize int) bool {
	return (page+1)*pageSize < p.TotalCount
}

// Remote is the store-of-record the engine writes through. Implementations
// are expected to be slow and fallible; every call is treated as a suspension
// point and may be in flight concurrently with calls for other entries.
//
// Mutating calls are never cancelled once dispatched: the engine always waits
// for success or failure so no entry is left pending. Query honors its
// context and may be cancelled when a newer search supersedes it.
type Remote interface {
	// CreateEntry persists a new entry and returns the canonical
	// representation with the server-assigned ID and timestamps.
	CreateEntry(ctx context.Context, entry *domain.ListEntry) (*domain.ListEntry, error)

	// UpdateEntry applies a field delta and returns the canonical entry.
	UpdateEntry(ctx context.Context, id string, delta *domain.EntryDelta) (*domain.ListEntry, error)

	// DeleteEntry removes an entry. Idempotent on the server side.
	DeleteEntry(ctx context.Context, id string) error

	// BulkUpdate applies one delta across all ids atomically.
	BulkUpdate(ctx context.Context, ids []string, delta *domain.EntryDelta) error

	// BulkDelete removes all ids atomically.
	BulkDelete(ctx context.Context, ids []string) error

	// BulkSetOrder persists a set of position updates atomically.
	BulkSetOrder(ctx context.Context, updates []OrderUpdate) error

	// Query searches the catalog. Cancellable via ctx; a cancelled call may
	// still return a page, which the caller must be prepared to discard.
	Query(ctx context.Context, spec QuerySpec, page, pageSize int) (*QueryPage, error)
}
