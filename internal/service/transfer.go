package service

import (
	"context"
	"log/slog"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/transfer"
)

// TransferService runs imports and exports against one user's list through
// the server-side entry service. Records are applied independently; a bad
// row is reported in the result, never fatal to the batch.
type TransferService struct {
	entries *EntryService
	logger  *slog.Logger
}

// NewTransferService creates a transfer service.
func NewTransferService(entries *EntryService, logger *slog.Logger) *TransferService {
	return &TransferService{entries: entries, logger: logger}
}

// Import ingests rawData for the user.
func (s *TransferService) Import(ctx context.Context, userID string, rawData []byte, format transfer.Format, opts transfer.Options) (*transfer.Result, error) {
	adapter := transfer.NewAdapter(s.mutatorFor(ctx, userID), s.logger)
	return adapter.Import(ctx, rawData, format, opts)
}

// Export serializes the user's complete list.
func (s *TransferService) Export(ctx context.Context, userID string, format transfer.Format) ([]byte, error) {
	adapter := transfer.NewAdapter(s.mutatorFor(ctx, userID), s.logger)
	return adapter.Export(format)
}

func (s *TransferService) mutatorFor(ctx context.Context, userID string) *serviceMutator {
	return &serviceMutator{ctx: ctx, entries: s.entries, userID: userID}
}

// serviceMutator adapts EntryService to transfer.ListMutator for one user.
type serviceMutator struct {
	ctx     context.Context
	entries *EntryService
	userID  string
}

func (m *serviceMutator) Entries() []*domain.ListEntry {
	entries, err := m.entries.List(m.ctx, m.userID)
	if err != nil {
		return nil
	}
	return entries
}

func (m *serviceMutator) CreateEntry(ctx context.Context, entry *domain.ListEntry) (*domain.ListEntry, error) {
	return m.entries.Create(ctx, m.userID, entry)
}

func (m *serviceMutator) UpdateEntry(ctx context.Context, id string, delta *domain.EntryDelta) (*domain.ListEntry, error) {
	return m.entries.Update(ctx, m.userID, id, delta)
}
