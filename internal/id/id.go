package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// entityIDLength is the number of NanoID characters after the prefix.
// 16 characters of the URL-safe alphabet is plenty of entropy for
// catalog-sized datasets while keeping IDs short enough for URLs.
const entityIDLength = 16

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "playlist-V1StGXR8_Z5jdHi6").
//
// Returns an error if the system has insufficient entropy for secure
// random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New(entityIDLength)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when failure should crash the program (e.g., during
// initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
