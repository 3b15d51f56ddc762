package domain

import "slices"

// EntryDelta is a field-level change set applied to one or more entries.
// Nil fields are left untouched; this is what makes a bulk "set status"
// leave everyone's progress alone.
type EntryDelta struct {
	Status     *Status   `json:"status,omitempty"`
	Progress   *int      `json:"progress,omitempty"`
	Score      *float64  `json:"score,omitempty"`
	ClearScore bool      `json:"clear_score,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	IsFavorite *bool     `json:"is_favorite,omitempty"`
	IsPinned   *bool     `json:"is_pinned,omitempty"`
	IsPrivate  *bool     `json:"is_private,omitempty"`
}

// IsZero reports whether the delta changes nothing.
func (d *EntryDelta) IsZero() bool {
	return d.Status == nil && d.Progress == nil && d.Score == nil && !d.ClearScore &&
		d.Tags == nil && d.Notes == nil &&
		d.IsFavorite == nil && d.IsPinned == nil && d.IsPrivate == nil
}

// Apply writes the delta's set fields onto the entry and touches UpdatedAt.
func (d *EntryDelta) Apply(e *ListEntry) {
	if d.Status != nil {
		e.Status = *d.Status
	}
	if d.Progress != nil {
		e.Progress = *d.Progress
	}
	if d.ClearScore {
		e.Score = nil
	} else if d.Score != nil {
		score := *d.Score
		e.Score = &score
	}
	if d.Tags != nil {
		e.Tags = slices.Clone(*d.Tags)
	}
	if d.Notes != nil {
		e.Notes = *d.Notes
	}
	if d.IsFavorite != nil {
		e.IsFavorite = *d.IsFavorite
	}
	if d.IsPinned != nil {
		e.IsPinned = *d.IsPinned
	}
	if d.IsPrivate != nil {
		e.IsPrivate = *d.IsPrivate
	}
	e.Touch()
}

// Validate checks delta field ranges without applying anything.
func (d *EntryDelta) Validate() error {
	if d.Status != nil && !d.Status.Valid() {
		return ErrInvalidStatus
	}
	if d.Progress != nil && *d.Progress < 0 {
		return ErrNegativeProgress
	}
	if d.Score != nil && (*d.Score < 0 || *d.Score > 10) {
		return ErrScoreOutOfRange
	}
	return nil
}
