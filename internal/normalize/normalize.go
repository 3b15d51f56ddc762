// Package normalize provides text folding used for case-insensitive matching
// across filter predicates and search terms.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// folder strips diacritical marks after canonical decomposition.
// "Bungō" and "bungo" must match the same query.
var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and removes combining marks.
// The result is only used for comparisons, never displayed.
func Fold(s string) string {
	out, _, err := transform.String(folder, s)
	if err != nil {
		// Transform failures on malformed UTF-8 fall back to plain lowercasing.
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// ContainsFold reports whether haystack contains needle after folding both.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}

// EqualFold reports whether two strings are equal after folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}
