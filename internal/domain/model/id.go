package model

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// videoIDLength is the length of a rendered video ID: 16 random bytes
// as lowercase hexadecimal.
const videoIDLength = 32

// NewVideoID generates an opaque identifier for a stored artifact.
// IDs are 128-bit random values rendered as 32 lowercase hex characters,
// unique per call with no structure beyond uniqueness.
func NewVideoID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// ValidVideoID reports whether s has the shape of an ID produced by
// NewVideoID. Retrieval uses it to reject malformed identifiers before
// they reach the store, so an ID can never address anything outside the
// artifact namespace.
func ValidVideoID(s string) bool {
	if len(s) != videoIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
