package service

import (
	"context"
	"log/slog"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/errors"
	"github.com/watchlogapp/watchlog-server/internal/store"
)

// EntryService owns server-side list entry semantics: catalog consistency,
// progress bounds, and the atomic bulk operations the sync engine relies on.
type EntryService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewEntryService creates a new entry service.
func NewEntryService(s *store.Store, logger *slog.Logger) *EntryService {
	return &EntryService{store: s, logger: logger}
}

// Create adds an entry to the user's list. When the referenced catalog item
// exists, the denormalized title and media type come from the catalog, not
// the client; progress is clamped to the item's unit count.
func (s *EntryService) Create(ctx context.Context, userID string, entry *domain.ListEntry) (*domain.ListEntry, error) {
	prepared := entry.Clone()

	item, err := s.store.GetCatalogItem(ctx, prepared.CatalogItemID)
	switch {
	case err == nil:
		prepared.Title = item.DisplayTitle()
		prepared.MediaType = item.MediaType
		prepared.Progress = clampProgress(prepared.Progress, item.UnitCount)
	case errors.Is(err, store.ErrNotFound):
		// Imported entries may reference titles the catalog does not carry
		// yet; accept them with the client-provided denormalized fields.
	default:
		return nil, err
	}

	created, err := s.store.CreateEntry(ctx, userID, prepared)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("entry created", "user_id", userID, "entry_id", created.ID, "title", created.Title)
	return created, nil
}

// Get retrieves one entry.
func (s *EntryService) Get(ctx context.Context, userID, entryID string) (*domain.ListEntry, error) {
	return s.store.GetEntry(ctx, userID, entryID)
}

// List returns the user's complete list in sort order.
func (s *EntryService) List(ctx context.Context, userID string) ([]*domain.ListEntry, error) {
	return s.store.ListEntries(ctx, userID)
}

// Update applies a delta to one entry and returns the canonical entry.
func (s *EntryService) Update(ctx context.Context, userID, entryID string, delta *domain.EntryDelta) (*domain.ListEntry, error) {
	if delta.IsZero() {
		return nil, errors.Validation("delta changes nothing")
	}

	bounded, err := s.boundDelta(ctx, userID, entryID, delta)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateEntry(ctx, userID, entryID, bounded)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("entry updated", "user_id", userID, "entry_id", entryID)
	return updated, nil
}

// Delete removes one entry. Idempotent.
func (s *EntryService) Delete(ctx context.Context, userID, entryID string) error {
	if err := s.store.DeleteEntry(ctx, userID, entryID); err != nil {
		return err
	}
	s.logger.Debug("entry deleted", "user_id", userID, "entry_id", entryID)
	return nil
}

// BulkUpdate applies one delta to a set of entries, all or nothing.
func (s *EntryService) BulkUpdate(ctx context.Context, userID string, entryIDs []string, delta *domain.EntryDelta) error {
	if len(entryIDs) == 0 {
		return nil
	}
	if delta.IsZero() {
		return errors.Validation("delta changes nothing")
	}

	if err := s.store.BulkUpdateEntries(ctx, userID, entryIDs, delta); err != nil {
		return err
	}
	s.logger.Info("bulk update applied", "user_id", userID, "count", len(entryIDs))
	return nil
}

// BulkDelete removes a set of entries, all or nothing.
func (s *EntryService) BulkDelete(ctx context.Context, userID string, entryIDs []string) error {
	if len(entryIDs) == 0 {
		return nil
	}
	if err := s.store.BulkDeleteEntries(ctx, userID, entryIDs); err != nil {
		return err
	}
	s.logger.Info("bulk delete applied", "user_id", userID, "count", len(entryIDs))
	return nil
}

// SetOrder persists a set of sort positions atomically.
func (s *EntryService) SetOrder(ctx context.Context, userID string, updates []store.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	if err := s.store.BulkSetOrder(ctx, userID, updates); err != nil {
		return err
	}
	s.logger.Debug("sort order persisted", "user_id", userID, "count", len(updates))
	return nil
}

// boundDelta clamps a progress change to the catalog item's unit count.
func (s *EntryService) boundDelta(ctx context.Context, userID, entryID string, delta *domain.EntryDelta) (*domain.EntryDelta, error) {
	if delta.Progress == nil {
		return delta, nil
	}

	entry, err := s.store.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	item, err := s.store.GetCatalogItem(ctx, entry.CatalogItemID)
	if errors.Is(err, store.ErrNotFound) {
		return delta, nil
	}
	if err != nil {
		return nil, err
	}

	clamped := clampProgress(*delta.Progress, item.UnitCount)
	if clamped == *delta.Progress {
		return delta, nil
	}

	bounded := *delta
	bounded.Progress = &clamped
	return &bounded, nil
}

// clampProgress bounds progress to [0, unitCount]. A zero unit count means
// the title is still running and any progress is plausible.
func clampProgress(progress, unitCount int) int {
	if progress < 0 {
		return 0
	}
	if unitCount > 0 && progress > unitCount {
		return unitCount
	}
	return progress
}
