// Package scoring computes sub-scores for candidates against a job profile
// and combines them into a final fit score with rationale.
package scoring

import "math"

// Cosine returns the cosine similarity of two vectors, clamped to [-1, 1].
// Mismatched lengths and zero-norm vectors yield 0 rather than an error:
// a missing or empty embedding carries no signal.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	v := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, v))
}

// clamp01 bounds a sub-score to [0, 1].
func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
