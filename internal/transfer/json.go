package transfer

import (
	"encoding/json/v2"
	"fmt"
	"time"

	"github.com/watchlogapp/watchlog-server/internal/domain"
)

// parseJSON decodes an export document into importable records. Individual
// entries are not validated here; the importer judges them one by one.
func parseJSON(raw []byte) ([]Record, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.FormatVersion > FormatVersion {
		return nil, fmt.Errorf("unsupported format version %d (newest known is %d)", doc.FormatVersion, FormatVersion)
	}

	records := make([]Record, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		if e == nil {
			records = append(records, Record{})
			continue
		}
		rec := Record{
			CatalogItemID: e.CatalogItemID,
			MediaType:     e.MediaType,
			Status:        e.Status,
			Title:         e.Title,
			Progress:      e.Progress,
			Tags:          e.Tags,
			Notes:         e.Notes,
			IsFavorite:    e.IsFavorite,
			IsPrivate:     e.IsPrivate,
		}
		if e.Score != nil {
			score := *e.Score
			rec.Score = &score
		}
		if !e.CreatedAt.IsZero() {
			created := e.CreatedAt
			rec.CreatedAt = &created
		}
		if !e.UpdatedAt.IsZero() {
			updated := e.UpdatedAt
			rec.UpdatedAt = &updated
		}
		records = append(records, rec)
	}
	return records, nil
}

// serializeJSON produces the versioned export document.
func serializeJSON(entries []*domain.ListEntry) ([]byte, error) {
	doc := Document{
		FormatVersion: FormatVersion,
		ExportedAt:    time.Now().UTC(),
		EntryCount:    len(entries),
		Entries:       entries,
	}
	data, err := json.Marshal(&doc, json.Deterministic(true))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}
