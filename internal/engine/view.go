package engine

import (
	"cmp"
	"slices"
	"time"

	"github.com/watchlogapp/watchlog-server/internal/domain"
	"github.com/watchlogapp/watchlog-server/internal/normalize"
)

// Filter is a conjunction of independently optional criteria. Zero-valued
// criteria impose no constraint.
type Filter struct {
	// Text matches case-insensitively (with diacritics folded) against
	// title, notes and tags.
	Text string

	Statuses  []domain.Status
	MediaType *domain.MediaType

	ScoreMin *float64
	ScoreMax *float64

	ProgressMin *int
	ProgressMax *int

	// Tags matches entries carrying any of the given tags.
	Tags []string

	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// SortKey selects the primary sort field for the derived view.
type SortKey string

const (
	SortByTitle     SortKey = "title"
	SortByStatus    SortKey = "status"
	SortByProgress  SortKey = "progress"
	SortByScore     SortKey = "score"
	SortByUpdatedAt SortKey = "updated_at"
	SortByCreatedAt SortKey = "created_at"
	SortBySortOrder SortKey = "sort_order"
)

// Sort pairs a key with a direction.
type Sort struct {
	Key  SortKey
	Desc bool
}

// Derive produces the filtered, ordered list the UI renders. Pure: it never
// mutates entries and returns the same order for identical inputs. Ties on
// the sort key are broken by entry ID ascending so re-derivations are stable
// and UI diffing never sees spurious moves.
func Derive(entries []*domain.ListEntry, filter Filter, sort Sort) []*domain.ListEntry {
	out := make([]*domain.ListEntry, 0, len(entries))
	for _, e := range entries {
		if filter.matches(e) {
			out = append(out, e)
		}
	}

	slices.SortFunc(out, func(a, b *domain.ListEntry) int {
		if c := compareByKey(a, b, sort); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return out
}

func (f *Filter) matches(e *domain.ListEntry) bool {
	if f.Text != "" && !matchesText(e, f.Text) {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, e.Status) {
		return false
	}
	if f.MediaType != nil && e.MediaType != *f.MediaType {
		return false
	}
	if f.ScoreMin != nil && (e.Score == nil || *e.Score < *f.ScoreMin) {
		return false
	}
	if f.ScoreMax != nil && (e.Score == nil || *e.Score > *f.ScoreMax) {
		return false
	}
	if f.ProgressMin != nil && e.Progress < *f.ProgressMin {
		return false
	}
	if f.ProgressMax != nil && e.Progress > *f.ProgressMax {
		return false
	}
	if len(f.Tags) > 0 && !anyTag(e, f.Tags) {
		return false
	}
	if f.CreatedFrom != nil && e.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && e.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

func matchesText(e *domain.ListEntry, text string) bool {
	if normalize.ContainsFold(e.Title, text) || normalize.ContainsFold(e.Notes, text) {
		return true
	}
	for _, tag := range e.Tags {
		if normalize.ContainsFold(tag, text) {
			return true
		}
	}
	return false
}

func anyTag(e *domain.ListEntry, tags []string) bool {
	for _, tag := range tags {
		if e.HasTag(tag) {
			return true
		}
	}
	return false
}

// compareByKey compares two entries on the sort key with direction applied.
// An entry missing the key (nil score) sorts as the lowest value ascending
// and the highest descending, so it surfaces first either way instead of
// being thrown out.
func compareByKey(a, b *domain.ListEntry, sort Sort) int {
	var c int
	switch sort.Key {
	case SortByTitle:
		c = cmp.Compare(normalize.Fold(a.Title), normalize.Fold(b.Title))
	case SortByStatus:
		c = cmp.Compare(a.Status.Label(a.MediaType), b.Status.Label(b.MediaType))
	case SortByProgress:
		c = cmp.Compare(a.Progress, b.Progress)
	case SortByScore:
		switch {
		case a.Score == nil && b.Score == nil:
			return 0
		case a.Score == nil:
			return -1 // nil first regardless of direction
		case b.Score == nil:
			return 1
		default:
			c = cmp.Compare(*a.Score, *b.Score)
		}
	case SortByUpdatedAt:
		c = a.UpdatedAt.Compare(b.UpdatedAt)
	case SortByCreatedAt:
		c = a.CreatedAt.Compare(b.CreatedAt)
	default: // SortBySortOrder
		c = cmp.Compare(a.SortOrder, b.SortOrder)
	}
	if sort.Desc {
		return -c
	}
	return c
}
