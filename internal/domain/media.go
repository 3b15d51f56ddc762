package domain

// MediaType distinguishes the two catalog halves. An entry always belongs to
// exactly one.
type MediaType string

const (
	MediaAnime MediaType = "anime"
	MediaManga MediaType = "manga"
)

// Valid returns true if the media type is recognized.
func (m MediaType) Valid() bool {
	return m == MediaAnime || m == MediaManga
}

// Status is one of the small fixed set of list states an entry can be in.
// The same set serves both media types; "watching" reads naturally as
// "reading" for manga but is stored under one identifier.
type Status string

const (
	StatusWatching  Status = "watching"
	StatusCompleted Status = "completed"
	StatusOnHold    Status = "on_hold"
	StatusDropped   Status = "dropped"
	StatusPlanned   Status = "planned"
)

// AllStatuses lists every valid status in display order.
func AllStatuses() []Status {
	return []Status{StatusWatching, StatusCompleted, StatusOnHold, StatusDropped, StatusPlanned}
}

// Valid returns true if the status is recognized.
func (s Status) Valid() bool {
	switch s {
	case StatusWatching, StatusCompleted, StatusOnHold, StatusDropped, StatusPlanned:
		return true
	default:
		return false
	}
}

// Label returns the human-readable label for a status, adjusted for media type.
func (s Status) Label(media MediaType) string {
	switch s {
	case StatusWatching:
		if media == MediaManga {
			return "Reading"
		}
		return "Watching"
	case StatusCompleted:
		return "Completed"
	case StatusOnHold:
		return "On Hold"
	case StatusDropped:
		return "Dropped"
	case StatusPlanned:
		if media == MediaManga {
			return "Plan to Read"
		}
		return "Plan to Watch"
	default:
		return string(s)
	}
}
