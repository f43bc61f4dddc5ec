// Package kv provides the key-value persistence capability consumed by the
// task store. Implementations persist whole values per key; there is no
// partial update.
package kv

import "context"

// Store is an opaque string key-value capability.
type Store interface {
	// Get returns the value for key. The boolean reports whether the key
	// exists; a missing key is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
