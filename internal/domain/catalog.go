package domain

// CatalogItem is one title in the remote catalog. The catalog is read-only
// from the user's point of view; entries reference items by ID.
type CatalogItem struct {
	Syncable

	MediaType    MediaType `json:"media_type"`
	Title        string    `json:"title"`
	TitleEnglish string    `json:"title_english,omitempty"`
	TitleNative  string    `json:"title_native,omitempty"`
	Synopsis     string    `json:"synopsis,omitempty"`
	Genres       []string  `json:"genres,omitempty"`

	// UnitCount is total episodes (anime) or chapters (manga).
	// Zero means unknown or still airing/publishing.
	UnitCount int `json:"unit_count"`

	Year      int     `json:"year,omitempty"`
	AirStatus string  `json:"air_status,omitempty"` // airing, finished, upcoming
	MeanScore float64 `json:"mean_score,omitempty"`
}

// DisplayTitle prefers the English title when present.
func (c *CatalogItem) DisplayTitle() string {
	if c.TitleEnglish != "" {
		return c.TitleEnglish
	}
	return c.Title
}
