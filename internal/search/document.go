// Package search provides full-text catalog search using Bleve: fuzzy and
// prefix matching over titles in three scripts, with genre and media-type
// filtering.
package search

import (
	"github.com/watchlogapp/watchlog-server/internal/domain"
)

// CatalogDocument is the indexed form of a catalog item. Alternate titles
// are denormalized into their own fields so "Frieren", "Sousou no Frieren"
// and the native script all hit the same item.
type CatalogDocument struct {
	ID           string `json:"id"`
	MediaType    string `json:"media_type"`
	Title        string `json:"title"`
	TitleEnglish string `json:"title_english,omitempty"`
	TitleNative  string `json:"title_native,omitempty"`
	Synopsis     string `json:"synopsis,omitempty"`

	Genres    []string `json:"genres,omitempty"`
	AirStatus string   `json:"air_status,omitempty"`

	Year      int     `json:"year,omitempty"`
	UnitCount int     `json:"unit_count,omitempty"`
	MeanScore float64 `json:"mean_score,omitempty"`

	UpdatedAt int64 `json:"updated_at"` // Unix millis, for recency sorting
}

// ToMap converts the document to a map with lowercase field names so they
// match the index mapping. Bleve would otherwise index by Go field name.
func (d *CatalogDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"media_type": d.MediaType,
		"title":      d.Title,
		"updated_at": d.UpdatedAt,
	}

	if d.TitleEnglish != "" {
		m["title_english"] = d.TitleEnglish
	}
	if d.TitleNative != "" {
		m["title_native"] = d.TitleNative
	}
	if d.Synopsis != "" {
		m["synopsis"] = d.Synopsis
	}
	if len(d.Genres) > 0 {
		m["genres"] = d.Genres
	}
	if d.AirStatus != "" {
		m["air_status"] = d.AirStatus
	}
	if d.Year > 0 {
		m["year"] = d.Year
	}
	if d.UnitCount > 0 {
		m["unit_count"] = d.UnitCount
	}
	if d.MeanScore > 0 {
		m["mean_score"] = d.MeanScore
	}
	return m
}

// FromCatalogItem converts a catalog item to its indexed form.
func FromCatalogItem(item *domain.CatalogItem) *CatalogDocument {
	return &CatalogDocument{
		ID:           item.ID,
		MediaType:    string(item.MediaType),
		Title:        item.Title,
		TitleEnglish: item.TitleEnglish,
		TitleNative:  item.TitleNative,
		Synopsis:     item.Synopsis,
		Genres:       item.Genres,
		AirStatus:    item.AirStatus,
		Year:         item.Year,
		UnitCount:    item.UnitCount,
		MeanScore:    item.MeanScore,
		UpdatedAt:    item.UpdatedAt.UnixMilli(),
	}
}
