package scoring

import (
	"fmt"
	"math"
)

// Cosine returns the cosine similarity of two embeddings in [-1, 1].
// A zero vector has no direction and scores 0.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimensions differ: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// clamp rounding drift
	return math.Max(-1, math.Min(1, sim)), nil
}
