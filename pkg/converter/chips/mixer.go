package chips

// Mix averages buffers sample by sample. Every buffer carries equal weight,
// and positions past the end of a shorter buffer count as silence.
func Mix(buffers [][]float64) []float64 {
	if len(buffers) == 0 {
		return []float64{}
	}

	length := 0
	for _, b := range buffers {
		length = max(length, len(b))
	}

	out := make([]float64, length)
	count := float64(len(buffers))
	for i := range out {
		var sum float64
		for _, b := range buffers {
			if i < len(b) {
				sum += b[i]
			}
		}
		out[i] = sum / count
	}
	return out
}
