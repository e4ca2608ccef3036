package types

import "github.com/google/uuid"

// IDs are opaque strings outside this package. They are generated as UUIDs
// so rows created by different viewers never collide.

// NewID returns a fresh opaque identifier
func NewID() string {
	return uuid.NewString()
}

// IsValidID reports whether s looks like an identifier produced by NewID
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
