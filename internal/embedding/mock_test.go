package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMock_Deterministic(t *testing.T) {
	m := NewMock(0)
	ctx := context.Background()

	first, err := m.EmbedBatch(ctx, []string{"product designer with figma"})
	require.NoError(t, err)
	second, err := m.EmbedBatch(ctx, []string{"product designer with figma"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first[0], DefaultMockDimension)
}

func TestMock_NormalizationInsensitive(t *testing.T) {
	m := NewMock(64)
	ctx := context.Background()

	a, err := m.EmbedBatch(ctx, []string{"Product   Designer"})
	require.NoError(t, err)
	b, err := m.EmbedBatch(ctx, []string{"product designer"})
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestMock_DistinctTextsDiffer(t *testing.T) {
	m := NewMock(64)
	vecs, err := m.EmbedBatch(context.Background(), []string{"designer", "plumber"})
	require.NoError(t, err)
	assert.NotEqual(t, vecs[0], vecs[1])
}

func TestMock_UnitNorm(t *testing.T) {
	m := NewMock(128)
	vecs, err := m.EmbedBatch(context.Background(), []string{"some skills text"})
	require.NoError(t, err)

	var norm float64
	for _, v := range vecs[0] {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestMock_EmptyTextIsZeroVector(t *testing.T) {
	m := NewMock(8)
	vecs, err := m.EmbedBatch(context.Background(), []string{"   "})
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 8), vecs[0])
}
