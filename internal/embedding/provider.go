// Package embedding provides text→vector providers and a persistent,
// concurrency-safe embedding cache in front of them.
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Provider converts batches of text into fixed-dimension vectors. The
// concrete variant is selected once at run start, not per call.
type Provider interface {
	// ID identifies the provider and model, e.g. "openai/text-embedding-3-small".
	// Cache keys incorporate it so switching providers never returns a stale vector.
	ID() string
	// Dimension is the length of every vector the provider returns.
	Dimension() int
	// EmbedBatch returns one vector per input text, preserving order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// NormalizeText canonicalizes text before hashing: lowercased with collapsed
// whitespace, so formatting differences do not fragment the cache.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// TextHash returns the hex sha256 content hash of normalized text.
func TextHash(text string) string {
	sum := sha256.Sum256([]byte(NormalizeText(text)))
	return hex.EncodeToString(sum[:])
}

// CacheKey builds the store key for a (text hash, provider) pair. Hashing the
// pair keeps keys filesystem-safe regardless of provider ID contents.
func CacheKey(providerID, textHash string) string {
	sum := sha256.Sum256([]byte(providerID + "|" + textHash))
	return hex.EncodeToString(sum[:])
}
