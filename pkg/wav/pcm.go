package wav

// ToPCM16 clamps samples to [-1, 1] and scales them to signed 16-bit.
// Values are truncated toward zero, not rounded.
func ToPCM16(samples []float64) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		out[i] = int16(max(-1.0, min(1.0, s)) * 32767)
	}
	return out
}
