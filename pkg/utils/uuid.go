package utils

import (
	"bytes"
	"strings"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// CompareUUID orders identifiers bit-wise, returning -1, 0 or +1.
func CompareUUID(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

// GenerateOrderNo derives a human readable number from the first 48 bits
// of an order id.
func GenerateOrderNo(prefix string, id uuid.UUID) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return prefix + "-" + strings.ToUpper(hex[:12])
}

// UUIDPtr returns a pointer to a copy of id, or nil for uuid.Nil.
func UUIDPtr(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
