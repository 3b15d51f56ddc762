package service

import (
	"context"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/engine"
	"github.com/watchlogapp/watchlog-server/internal/search"
	"github.com/watchlogapp/watchlog-server/internal/store"
)

// Remote adapts the entry and catalog services to the sync engine's
// store-of-record interface for one user. Embedded deployments hand this to
// engine.New directly; a networked client would substitute an HTTP
// implementation of the same interface.
type Remote struct {
	entries *EntryService
	catalog *CatalogService
	userID  string
}

var _ engine.Remote = (*Remote)(nil)

// NewRemote binds the services to a user.
func NewRemote(entries *EntryService, catalog *CatalogService, userID string) *Remote {
	return &Remote{entries: entries, catalog: catalog, userID: userID}
}

func (r *Remote) CreateEntry(ctx context.Context, entry *domain.ListEntry) (*domain.ListEntry, error) {
	return r.entries.Create(ctx, r.userID, entry)
}

func (r *Remote) UpdateEntry(ctx context.Context, id string, delta *domain.EntryDelta) (*domain.ListEntry, error) {
	return r.entries.Update(ctx, r.userID, id, delta)
}

func (r *Remote) DeleteEntry(ctx context.Context, id string) error {
	return r.entries.Delete(ctx, r.userID, id)
}

func (r *Remote) BulkUpdate(ctx context.Context, ids []string, delta *domain.EntryDelta) error {
	return r.entries.BulkUpdate(ctx, r.userID, ids, delta)
}

func (r *Remote) BulkDelete(ctx context.Context, ids []string) error {
	return r.entries.BulkDelete(ctx, r.userID, ids)
}

func (r *Remote) BulkSetOrder(ctx context.Context, updates []engine.OrderUpdate) error {
	converted := make([]store.OrderUpdate, len(updates))
	for i, u := range updates {
		converted[i] = store.OrderUpdate{ID: u.ID, SortOrder: u.SortOrder}
	}
	return r.entries.SetOrder(ctx, r.userID, converted)
}

// Query runs a catalog search and resolves hits back to full catalog items.
func (r *Remote) Query(ctx context.Context, spec engine.QuerySpec, page, pageSize int) (*engine.QueryPage, error) {
	params := search.DefaultParams()
	params.Query = spec.Text
	params.SortBy = spec.SortBy
	params.Limit = pageSize
	params.Offset = page * pageSize
	params.IncludeFacets = false
	params.Highlight = false
	if spec.MediaType != nil {
		params.MediaType = string(*spec.MediaType)
	}

	result, err := r.catalog.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.CatalogItem, 0, len(result.Hits))
	for _, hit := range result.Hits {
		item, err := r.catalog.Get(ctx, hit.ID)
		if err != nil {
			// Index and store briefly disagree during reindex; skip rather
			// than fail the page.
			continue
		}
		items = append(items, item)
	}

	return &engine.QueryPage{
		Items:      items,
		TotalCount: int(result.Total),
	}, nil
}
