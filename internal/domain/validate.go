package domain

import "errors"

// Field-range errors shared by entry and delta validation.
var (
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidMediaType = errors.New("invalid media type")
	ErrNegativeProgress = errors.New("progress cannot be negative")
	ErrScoreOutOfRange  = errors.New("score must be between 0 and 10")
	ErrMissingCatalogID = errors.New("catalog item id is required")
)

// Validate checks entry field ranges. Progress bounds against the catalog
// item's unit count are a remote-store concern; the engine only rejects
// values that can never be valid.
func (e *ListEntry) Validate() error {
	if e.CatalogItemID == "" {
		return ErrMissingCatalogID
	}
	if !e.MediaType.Valid() {
		return ErrInvalidMediaType
	}
	if !e.Status.Valid() {
		return ErrInvalidStatus
	}
	if e.Progress < 0 {
		return ErrNegativeProgress
	}
	if e.Score != nil && (*e.Score < 0 || *e.Score > 10) {
		return ErrScoreOutOfRange
	}
	return nil
}
