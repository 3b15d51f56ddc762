package store

// Key layout. Entry keys embed the owning user so one prefix scan yields a
// whole list; the catalog index makes duplicate detection a point lookup.
const (
	catalogPrefix = "catalog:"

	// entry:<userID>:<entryID> -> ListEntry
	entryPrefix = "entry:"

	// entrycat:<userID>:<mediaType>/<catalogItemID> -> entryID
	entryByCatalogPrefix = "entrycat:"
)

func entryKey(userID, entryID string) []byte {
	return []byte(entryPrefix + userID + ":" + entryID)
}

func userEntryPrefix(userID string) []byte {
	return []byte(entryPrefix + userID + ":")
}

func entryCatalogKey(userID string, media, catalogItemID string) []byte {
	return []byte(entryByCatalogPrefix + userID + ":" + media + "/" + catalogItemID)
}
