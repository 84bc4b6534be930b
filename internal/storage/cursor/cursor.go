// Package cursor provides opaque pagination token encoding/decoding for
// keyset-paginated view listings.
package cursor

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Cursor represents the internal state of a pagination token. View listings
// order rows by primary key ascending, so the cursor carries the last key of
// the previous page.
type Cursor struct {
	// Key is the row key to paginate after.
	Key string `json:"key"`
	// FilterHash invalidates tokens when the filter changes between pages.
	FilterHash string `json:"filter_hash,omitempty"`
}

// Encode encodes a cursor to an opaque base64 string.
func Encode(c Cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// Decode decodes an opaque base64 string back to a cursor.
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, fmt.Errorf("empty token")
	}
	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode base64: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, fmt.Errorf("unmarshal cursor: %w", err)
	}
	if c.Key == "" {
		return Cursor{}, fmt.Errorf("cursor key is required")
	}
	return c, nil
}

// HashFilter computes a short hash of the serialized filter for cursor
// validation. Returns empty string for an empty filter.
func HashFilter(filter string) string {
	if filter == "" {
		return ""
	}
	h := sha256.Sum256([]byte(filter))
	// 64-bit hash is sufficient for validation
	return hex.EncodeToString(h[:8])
}

// ValidateFilterHash checks that the cursor was minted for the same filter.
func ValidateFilterHash(c Cursor, currentFilter string) error {
	if c.FilterHash != HashFilter(currentFilter) {
		return fmt.Errorf("filter changed since cursor was created")
	}
	return nil
}

// New creates a cursor pointing after the given row key.
func New(key, filter string) Cursor {
	return Cursor{Key: key, FilterHash: HashFilter(filter)}
}
