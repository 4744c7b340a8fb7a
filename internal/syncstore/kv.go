// Package syncstore provides the key-value store that cards and categories
// are synchronized to. Every value is a JSON document stored under a key;
// there are no queries and no transactions spanning calls.
package syncstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// KV is a get/set key-value store holding JSON values.
type KV interface {
	// Get returns the stored values for keys. Missing keys are absent from the map.
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)
	// Set overwrites each key with the JSON encoding of its value.
	Set(ctx context.Context, items map[string]any) error
}

func encodeItems(items map[string]any) (map[string][]byte, error) {
	out := make(map[string][]byte, len(items))
	for k, v := range items {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", k, err)
		}
		out[k] = data
	}
	return out, nil
}
