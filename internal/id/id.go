// Package id generates prefixed unique identifiers for domain entities.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Well-known prefixes used across the application.
const (
	PrefixEntry   = "ent"
	PrefixCatalog = "cat"
	// PrefixTemp marks client-assigned identifiers for optimistic creations.
	// A temp ID gives the UI something stable to key on until the server
	// responds with the canonical entry, which replaces it wholesale.
	PrefixTemp = "tmp"
)

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "ent-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when you're certain the system entropy is available,
// or when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// NewTemp generates a temporary client-side ID for an optimistic creation.
func NewTemp() string {
	return MustGenerate(PrefixTemp)
}

// IsTemp reports whether id is a temporary client-assigned identifier.
func IsTemp(id string) bool {
	return strings.HasPrefix(id, PrefixTemp+"-")
}
