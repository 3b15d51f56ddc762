package transfer

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/watchlogapp/watchlog-server/internal/domain"

	// Pure Go sqlite driver, no CGO.
	_ "modernc.org/sqlite"
)

// parseSQLite reads records out of a legacy desktop tracker database. The
// raw bytes are spooled to a temp file because the sqlite driver needs a
// file path, not a reader.
//
// Expected schema (the v0 desktop app): table list_entries with columns
// remote_id, kind, state, title, progress, rating, tags, notes, added_at.
// Absent optional columns are tolerated via COALESCE.
func parseSQLite(raw []byte) ([]Record, error) {
	tmpFile, err := os.CreateTemp("", "watchlog-import-*.sqlite")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(raw); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("spool database: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	db, err := sql.Open("sqlite", tmpPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT remote_id,
		       kind,
		       state,
		       COALESCE(title, ''),
		       COALESCE(progress, 0),
		       rating,
		       COALESCE(tags, ''),
		       COALESCE(notes, ''),
		       COALESCE(added_at, '')
		FROM list_entries`)
	if err != nil {
		return nil, fmt.Errorf("query list_entries: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			remoteID, kind, state, title string
			progress                     int
			rating                       sql.NullFloat64
			tags, notes, addedAt         string
		)
		if err := rows.Scan(&remoteID, &kind, &state, &title, &progress, &rating, &tags, &notes, &addedAt); err != nil {
			// Keep the index; the importer counts the bad row.
			records = append(records, Record{})
			continue
		}

		rec := Record{
			CatalogItemID: remoteID,
			MediaType:     legacyMediaType(kind),
			Status:        legacyStatus(state),
			Title:         title,
			Progress:      progress,
			Notes:         notes,
		}
		if rating.Valid {
			score := rating.Float64
			rec.Score = &score
		}
		if tags != "" {
			rec.Tags = splitLegacyTags(tags)
		}
		if ts, err := time.Parse(time.RFC3339, addedAt); err == nil {
			rec.CreatedAt = &ts
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate list_entries: %w", err)
	}
	return records, nil
}

func legacyMediaType(kind string) domain.MediaType {
	switch kind {
	case "anime", "tv", "movie", "ova":
		return domain.MediaAnime
	case "manga", "novel", "oneshot":
		return domain.MediaManga
	default:
		return domain.MediaType(kind) // fails entry validation downstream
	}
}

// legacyStatus maps the v0 state integers-as-strings and names onto the
// current status set.
func legacyStatus(state string) domain.Status {
	switch state {
	case "1", "current", "watching", "reading":
		return domain.StatusWatching
	case "2", "completed", "done":
		return domain.StatusCompleted
	case "3", "hold", "on_hold", "paused":
		return domain.StatusOnHold
	case "4", "dropped":
		return domain.StatusDropped
	case "5", "planned", "ptw", "ptr":
		return domain.StatusPlanned
	default:
		return domain.Status(state)
	}
}

func splitLegacyTags(tags string) []string {
	var out []string
	for _, tag := range strings.Split(tags, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
