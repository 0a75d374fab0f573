package vector

import "math"

// cosineSimilarity computes the cosine of the angle between a and b. When
// either operand has zero norm the similarity is defined as 0. Vectors of
// unequal length compare over the shared prefix; the cache keeps
// dimensionality uniform, so that only happens with hand-built fixtures.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// similarityToConfidence converts a similarity score to a confidence level:
// the raw similarity clamped to [0, 1].
func similarityToConfidence(similarity float64) float64 {
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}
