package domain

import "slices"

// SyncState is the engine-side lifecycle of an entry.
type SyncState string

const (
	// SyncConfirmed means the entry matches what the remote store holds.
	SyncConfirmed SyncState = "confirmed"
	// SyncPending means the entry carries a local mutation awaiting remote
	// confirmation.
	SyncPending SyncState = "pending"
	// SyncReverted means the last mutation failed and the entry was restored
	// from its pre-mutation snapshot.
	SyncReverted SyncState = "reverted"
)

// ListEntry is a user's relationship to one catalog item: their status,
// progress, score and ordering within their personal list.
type ListEntry struct {
	Syncable

	UserID        string    `json:"user_id"`
	CatalogItemID string    `json:"catalog_item_id"`
	MediaType     MediaType `json:"media_type"`
	Status        Status    `json:"status"`

	// Title is denormalized from the catalog item so list views and text
	// filters never need a catalog lookup.
	Title string `json:"title"`

	Progress int      `json:"progress"`        // episodes watched / chapters read
	Score    *float64 `json:"score,omitempty"` // 0..10, nil when unrated
	Tags     []string `json:"tags,omitempty"`
	Notes    string   `json:"notes,omitempty"`

	// SortOrder is the entry's position within the owning list. Dense and
	// zero-based; only the reorder path writes it.
	SortOrder int `json:"sort_order"`

	IsFavorite bool `json:"is_favorite"`
	IsPinned   bool `json:"is_pinned"`
	IsPrivate  bool `json:"is_private"`
}

// Clone returns a deep copy of the entry. Snapshot/rollback correctness
// depends on clones sharing no mutable state with the original.
func (e *ListEntry) Clone() *ListEntry {
	c := *e
	if e.Score != nil {
		score := *e.Score
		c.Score = &score
	}
	if e.Tags != nil {
		c.Tags = slices.Clone(e.Tags)
	}
	if e.DeletedAt != nil {
		deleted := *e.DeletedAt
		c.DeletedAt = &deleted
	}
	return &c
}

// HasTag reports whether the entry carries the given tag.
func (e *ListEntry) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// AddTag appends a tag if not already present. Returns false on duplicates.
func (e *ListEntry) AddTag(tag string) bool {
	if e.HasTag(tag) {
		return false
	}
	e.Tags = append(e.Tags, tag)
	return true
}

// RemoveTag removes a tag from the entry. Returns false if absent.
func (e *ListEntry) RemoveTag(tag string) bool {
	for i, t := range e.Tags {
		if t == tag {
			e.Tags = append(e.Tags[:i], e.Tags[i+1:]...)
			return true
		}
	}
	return false
}
