package transfer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/watchlogapp/watchlog-server/internal/domain"
)

// csvHeader is the column layout for delimited-text import/export. Tags are
// joined with ";" inside their cell to stay clear of the record delimiter.
var csvHeader = []string{
	"catalog_item_id", "media_type", "status", "title", "progress", "score",
	"tags", "notes", "is_favorite", "is_private", "created_at", "updated_at",
}

const csvTagSeparator = ";"

// parseCSV reads delimited text into records. A row with the wrong column
// count or an unparseable cell yields a zero Record placeholder so the
// importer can count it as a per-record failure without dropping its index.
func parseCSV(raw []byte) ([]Record, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1 // row length checked per record

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty csv input")
	}

	// Header row is required and must match.
	if !equalFields(rows[0], csvHeader) {
		return nil, fmt.Errorf("unrecognized csv header %v", rows[0])
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec, err := parseCSVRow(row)
		if err != nil {
			// Placeholder keeps the index; the importer reports it.
			records = append(records, Record{})
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseCSVRow(row []string) (Record, error) {
	if len(row) != len(csvHeader) {
		return Record{}, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(row))
	}

	progress, err := strconv.Atoi(row[4])
	if err != nil {
		return Record{}, fmt.Errorf("progress: %w", err)
	}

	rec := Record{
		CatalogItemID: row[0],
		MediaType:     domain.MediaType(row[1]),
		Status:        domain.Status(row[2]),
		Title:         row[3],
		Progress:      progress,
		Notes:         row[7],
		IsFavorite:    row[8] == "true",
		IsPrivate:     row[9] == "true",
	}

	if row[5] != "" {
		score, err := strconv.ParseFloat(row[5], 64)
		if err != nil {
			return Record{}, fmt.Errorf("score: %w", err)
		}
		rec.Score = &score
	}
	if row[6] != "" {
		rec.Tags = strings.Split(row[6], csvTagSeparator)
	}
	for i, dst := range []**time.Time{&rec.CreatedAt, &rec.UpdatedAt} {
		cell := row[10+i]
		if cell == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, cell)
		if err != nil {
			return Record{}, fmt.Errorf("timestamp: %w", err)
		}
		*dst = &ts
	}
	return rec, nil
}

// serializeCSV writes the full entry set as delimited text.
func serializeCSV(entries []*domain.ListEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		score := ""
		if e.Score != nil {
			score = strconv.FormatFloat(*e.Score, 'f', -1, 64)
		}
		row := []string{
			e.CatalogItemID,
			string(e.MediaType),
			string(e.Status),
			e.Title,
			strconv.Itoa(e.Progress),
			score,
			strings.Join(e.Tags, csvTagSeparator),
			e.Notes,
			strconv.FormatBool(e.IsFavorite),
			strconv.FormatBool(e.IsPrivate),
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func equalFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if strings.TrimSpace(a[i]) != b[i] {
			return false
		}
	}
	return true
}
