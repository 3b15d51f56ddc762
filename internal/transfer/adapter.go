package transfer

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/validation"
)

// ListMutator is the slice of the sync engine the adapter drives. Imports go
// through the same optimistic mutation path as interactive edits, one record
// at a time; engine.Engine satisfies this.
type ListMutator interface {
	Entries() []*domain.ListEntry
	CreateEntry(ctx context.Context, entry *domain.ListEntry) (*domain.ListEntry, error)
	UpdateEntry(ctx context.Context, id string, delta *domain.EntryDelta) (*domain.ListEntry, error)
}

// Adapter imports external list data into the engine and exports the entity
// store back out.
type Adapter struct {
	mutator  ListMutator
	validate *validation.Validator
	logger   *slog.Logger
}

// NewAdapter creates an import/export adapter over the given engine.
func NewAdapter(mutator ListMutator, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		mutator:  mutator,
		validate: validation.New(),
		logger:   logger,
	}
}

// Import parses rawData in the given format and ingests every record
// independently. One malformed record increments ErrorCount and the batch
// moves on; errors are aggregated into the result, never thrown mid-batch.
func (a *Adapter) Import(ctx context.Context, rawData []byte, format Format, opts Options) (*Result, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("unsupported import format %q", format)
	}
	if err := a.validate.Validate(opts); err != nil {
		return nil, fmt.Errorf("invalid import options: %w", err)
	}

	var (
		records []Record
		err     error
	)
	switch format {
	case FormatJSON:
		records, err = parseJSON(rawData)
	case FormatCSV:
		records, err = parseCSV(rawData)
	case FormatSQLite:
		records, err = parseSQLite(rawData)
	}
	if err != nil {
		// The payload itself was unreadable; nothing was ingested.
		return nil, err
	}

	// Index existing entries by catalog item for duplicate resolution.
	existing := make(map[string]*domain.ListEntry)
	for _, e := range a.mutator.Entries() {
		existing[dupeKey(e.CatalogItemID, e.MediaType)] = e
	}

	result := &Result{}
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		a.importRecord(ctx, i, rec, opts, existing, result)
	}

	a.logger.Info("import finished",
		"format", format,
		"records", len(records),
		"succeeded", result.SuccessCount,
		"skipped", result.SkippedCount,
		"failed", result.ErrorCount,
	)
	return result, nil
}

func (a *Adapter) importRecord(ctx context.Context, index int, rec Record, opts Options, existing map[string]*domain.ListEntry, result *Result) {
	entry := rec.toEntry(opts)
	if err := entry.Validate(); err != nil {
		result.recordError(index, rec.Title, err.Error())
		return
	}

	if prior, ok := existing[dupeKey(rec.CatalogItemID, rec.MediaType)]; ok {
		if opts.MergeDuplicates == MergeSkip || !opts.UpdateExisting {
			result.SkippedCount++
			return
		}
		updated, err := a.mutator.UpdateEntry(ctx, prior.ID, rec.toDelta(opts))
		if err != nil {
			result.recordError(index, rec.Title, err.Error())
			return
		}
		existing[dupeKey(rec.CatalogItemID, rec.MediaType)] = updated
		result.SuccessCount++
		return
	}

	created, err := a.mutator.CreateEntry(ctx, entry)
	if err != nil {
		result.recordError(index, rec.Title, err.Error())
		return
	}
	existing[dupeKey(rec.CatalogItemID, rec.MediaType)] = created
	result.SuccessCount++
}

// Export serializes the complete, unfiltered entity store view in the
// requested format.
func (a *Adapter) Export(format Format) ([]byte, error) {
	if !format.Exportable() {
		return nil, fmt.Errorf("unsupported export format %q", format)
	}

	// Stable order makes exports diffable.
	entries := a.mutator.Entries()
	sortEntriesForExport(entries)

	switch format {
	case FormatCSV:
		return serializeCSV(entries)
	default:
		return serializeJSON(entries)
	}
}

func dupeKey(catalogItemID string, media domain.MediaType) string {
	return string(media) + "/" + catalogItemID
}

func sortEntriesForExport(entries []*domain.ListEntry) {
	slices.SortFunc(entries, func(a, b *domain.ListEntry) int {
		if c := cmp.Compare(a.SortOrder, b.SortOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
