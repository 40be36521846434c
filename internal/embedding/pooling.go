package embedding

// MeanPool averages the token states in hidden ([tokens x dims], row-major)
// whose attention mask is set. A fully masked input yields a zero vector.
func MeanPool(hidden []float32, mask []int64, dims int) []float32 {
	out := make([]float32, dims)
	if dims <= 0 {
		return out
	}
	var n float32
	for tok, m := range mask {
		if m == 0 {
			continue
		}
		row := hidden[tok*dims:]
		if len(row) < dims {
			break
		}
		for i := 0; i < dims; i++ {
			out[i] += row[i]
		}
		n++
	}
	if n == 0 {
		return out
	}
	for i := range out {
		out[i] /= n
	}
	return out
}
