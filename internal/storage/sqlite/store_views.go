package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/louisbranch/trackspace/internal/storage/cursor"
)

const defaultViewPageSize = 50

func marshalStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshal string list: %w", err)
	}
	return string(data), nil
}

func unmarshalStrings(data string) ([]string, error) {
	if data == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("unmarshal string list: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

// filterKey serializes a filter struct so pagination cursors detect filter
// changes between pages.
func filterKey(filter any) (string, error) {
	data, err := json.Marshal(filter)
	if err != nil {
		return "", fmt.Errorf("marshal filter: %w", err)
	}
	return string(data), nil
}

// decodePageToken validates the token against the current filter and
// returns the row key to paginate after. An empty token starts at the
// beginning.
func decodePageToken(pageToken, key string) (string, error) {
	if pageToken == "" {
		return "", nil
	}
	c, err := cursor.Decode(pageToken)
	if err != nil {
		return "", fmt.Errorf("invalid page token: %w", err)
	}
	if err := cursor.ValidateFilterHash(c, key); err != nil {
		return "", fmt.Errorf("invalid page token: %w", err)
	}
	return c.Key, nil
}

// nextPageToken mints a token pointing after lastID when the page was full.
func nextPageToken(lastID, key string) (string, error) {
	token, err := cursor.Encode(cursor.New(lastID, key))
	if err != nil {
		return "", fmt.Errorf("encode page token: %w", err)
	}
	return token, nil
}
