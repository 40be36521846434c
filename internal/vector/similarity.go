package vector

// InnerProduct returns a·b, or 0 when the lengths differ. Stored food vectors
// are unit length, so this is their cosine similarity.
func InnerProduct(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

// Similarity maps an inner product of unit vectors onto [0, 1]. Unrelated
// and opposite foods both score 0.
func Similarity(score float64) float64 {
	return min(1, max(0, score))
}
