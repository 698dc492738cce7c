// Package store provides persistent key→vector storage backends for the
// embedding cache.
package store

import "context"

// Store is a persistent vector store keyed by opaque cache keys. It must
// tolerate concurrent readers and idempotent concurrent writers: re-writing
// an existing key with the same vector is a no-op, and races between workers
// computing the same miss are safe.
type Store interface {
	// Get returns the stored vectors for the keys that exist. Missing keys
	// are simply absent from the result map.
	Get(ctx context.Context, keys []string) (map[string][]float64, error)
	// Put stores the given vectors. Existing keys are left untouched.
	Put(ctx context.Context, entries map[string][]float64) error
	// Close releases any underlying resources.
	Close() error
}
