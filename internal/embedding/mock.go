package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand"
)

// DefaultMockDimension matches the dimension of common embedding models so
// mock and real vectors are interchangeable in tests.
const DefaultMockDimension = 256

// Mock is a deterministic offline provider: each text maps to a reproducible
// pseudo-vector seeded by its content hash. It serves both as the test
// provider and as the degraded fallback when a real provider stays down.
type Mock struct {
	dim int
}

// NewMock creates a mock provider with the given dimension, defaulting when
// dim is not positive.
func NewMock(dim int) *Mock {
	if dim <= 0 {
		dim = DefaultMockDimension
	}
	return &Mock{dim: dim}
}

// ID implements Provider.
func (m *Mock) ID() string { return "mock" }

// Dimension implements Provider.
func (m *Mock) Dimension() int { return m.dim }

// EmbedBatch implements Provider. Empty texts map to the zero vector.
func (m *Mock) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = m.vector(text)
	}
	return out, nil
}

func (m *Mock) vector(text string) []float64 {
	vec := make([]float64, m.dim)
	normalized := NormalizeText(text)
	if normalized == "" {
		return vec
	}
	sum := sha256.Sum256([]byte(normalized))
	seed := int64(binary.LittleEndian.Uint64(sum[:8]))
	rng := rand.New(rand.NewSource(seed))

	var norm float64
	for i := range vec {
		vec[i] = rng.Float64()*2 - 1
		norm += vec[i] * vec[i]
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
