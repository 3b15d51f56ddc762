// Package transfer translates between the entity store's shape and external
// list formats, driving the sync engine for batch ingestion.
//
// Import and bulk operations intentionally have different contracts: a bulk
// status change is all-or-nothing, while an import processes each record
// independently and reports per-record failures without aborting the batch.
// A 500-row import must not die on one bad row.
package transfer

// Format identifies a serialization the adapter speaks.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	// FormatSQLite reads legacy desktop tracker databases. Import only.
	FormatSQLite Format = "sqlite"
)

// Valid returns true for formats usable as import sources.
func (f Format) Valid() bool {
	switch f {
	case FormatJSON, FormatCSV, FormatSQLite:
		return true
	default:
		return false
	}
}

// Exportable returns true for formats usable as export targets.
func (f Format) Exportable() bool {
	return f == FormatJSON || f == FormatCSV
}

// MergeMode decides what happens when an imported record matches an entry
// the user already has for the same catalog item.
type MergeMode string

const (
	// MergeOverwrite replaces fields on the existing entry (subject to
	// UpdateExisting and the per-field toggles).
	MergeOverwrite MergeMode = "overwrite"
	// MergeSkip leaves existing entries untouched.
	MergeSkip MergeMode = "skip"
)

// Options configures an import run.
type Options struct {
	MergeDuplicates MergeMode `json:"merge_duplicates" validate:"required,oneof=overwrite skip"`
	// UpdateExisting allows fields on an existing entry to be overwritten.
	// Without it, overwrite-mode duplicates are counted as skipped.
	UpdateExisting bool `json:"update_existing"`

	// Per-field inclusion toggles.
	ImportRatings  bool `json:"import_ratings"`
	ImportProgress bool `json:"import_progress"`
	ImportDates    bool `json:"import_dates"`
}

// DefaultOptions imports everything and overwrites duplicates.
func DefaultOptions() Options {
	return Options{
		MergeDuplicates: MergeOverwrite,
		UpdateExisting:  true,
		ImportRatings:   true,
		ImportProgress:  true,
		ImportDates:     true,
	}
}

// RecordError describes one failed record. The batch continues past it.
type RecordError struct {
	Index  int    `json:"index"`
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason"`
}

// Result aggregates a completed import run.
type Result struct {
	SuccessCount int           `json:"success_count"`
	ErrorCount   int           `json:"error_count"`
	SkippedCount int           `json:"skipped_count"`
	Errors       []RecordError `json:"errors,omitempty"`
}

// maxReportedErrors caps the per-record error list in the result; the counts
// are always exact.
const maxReportedErrors = 50

func (r *Result) recordError(index int, title, reason string) {
	r.ErrorCount++
	if len(r.Errors) < maxReportedErrors {
		r.Errors = append(r.Errors, RecordError{Index: index, Title: title, Reason: reason})
	}
}
