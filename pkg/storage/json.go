package storage

import (
	"encoding/json"
	"fmt"
)

// PutJSON stores v JSON-encoded under key
func PutJSON(b Bucket, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return b.Put(key, data)
}

// GetJSON decodes the value under key into v. It reports false, leaving v
// untouched, when the key is missing.
func GetJSON(b Bucket, key []byte, v any) (bool, error) {
	data := b.Get(key)
	if data == nil {
		return false, nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode JSON: %w", err)
	}

	return true, nil
}
