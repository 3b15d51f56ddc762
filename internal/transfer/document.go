package transfer

import (
	"time"

	"github.com/watchlogapp/watchlog-server/internal/domain"
)

// FormatVersion marks the export document layout. Bump on breaking changes
// so older exports stay importable.
const FormatVersion = 1

// Document is the self-describing export payload: every entry field plus a
// version marker, round-trippable into the same or another account.
type Document struct {
	FormatVersion int                 `json:"format_version"`
	ExportedAt    time.Time           `json:"exported_at"`
	EntryCount    int                 `json:"entry_count"`
	Entries       []*domain.ListEntry `json:"entries"`
}

// Record is one importable row after parsing, before validation. String
// fields stay raw so a malformed row fails per-record, not per-batch.
type Record struct {
	CatalogItemID string
	MediaType     domain.MediaType
	Status        domain.Status
	Title         string
	Progress      int
	Score         *float64
	Tags          []string
	Notes         string
	IsFavorite    bool
	IsPrivate     bool
	CreatedAt     *time.Time
	UpdatedAt     *time.Time
}

// toEntry converts the record to a list entry, honoring the per-field
// toggles in opts.
func (r *Record) toEntry(opts Options) *domain.ListEntry {
	e := &domain.ListEntry{
		CatalogItemID: r.CatalogItemID,
		MediaType:     r.MediaType,
		Status:        r.Status,
		Title:         r.Title,
		Tags:          r.Tags,
		Notes:         r.Notes,
		IsFavorite:    r.IsFavorite,
		IsPrivate:     r.IsPrivate,
	}
	if opts.ImportProgress {
		e.Progress = r.Progress
	}
	if opts.ImportRatings && r.Score != nil {
		score := *r.Score
		e.Score = &score
	}
	if opts.ImportDates {
		if r.CreatedAt != nil {
			e.CreatedAt = *r.CreatedAt
		}
		if r.UpdatedAt != nil {
			e.UpdatedAt = *r.UpdatedAt
		}
	}
	return e
}

// toDelta builds the field delta applied when merging into an existing entry.
func (r *Record) toDelta(opts Options) *domain.EntryDelta {
	status := r.Status
	d := &domain.EntryDelta{Status: &status}
	if opts.ImportProgress {
		progress := r.Progress
		d.Progress = &progress
	}
	if opts.ImportRatings && r.Score != nil {
		score := *r.Score
		d.Score = &score
	}
	if r.Notes != "" {
		notes := r.Notes
		d.Notes = &notes
	}
	if len(r.Tags) > 0 {
		tags := r.Tags
		d.Tags = &tags
	}
	return d
}
