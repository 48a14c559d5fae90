package chips

import "math"

// DutyCycle is one of the four pulse widths of the 2A03 pulse channels
type DutyCycle int

const (
	Duty12_5 DutyCycle = iota
	Duty25
	Duty50
	Duty75
)

// Value returns the fraction of each period spent high
func (d DutyCycle) Value() float64 {
	switch d {
	case Duty12_5:
		return 0.125
	case Duty25:
		return 0.25
	case Duty75:
		return 0.75
	default:
		return 0.5
	}
}

func (d DutyCycle) String() string {
	switch d {
	case Duty12_5:
		return "12.5%"
	case Duty25:
		return "25%"
	case Duty75:
		return "75%"
	default:
		return "50%"
	}
}

// Tuning reference: A4
const (
	ReferencePitch = 440.0
	ReferenceNote  = 69
)

// LFSR constants of the noise channel
const (
	noiseSeed    = 1
	noiseWidth   = 15
	longModeTap  = 1
	shortModeTap = 6
)

// Frequency converts a MIDI note number to Hz in equal temperament
func Frequency(note uint8) float64 {
	return ReferencePitch * math.Pow(2, (float64(note)-ReferenceNote)/12)
}

// sampleCount truncates rate*duration toward zero
func sampleCount(sampleRate int, duration float64) int {
	n := int(float64(sampleRate) * duration)
	return max(n, 0)
}

// Square generates a pulse wave alternating between +1 and -1
func Square(frequency float64, duty DutyCycle, sampleRate int, duration float64) []float64 {
	out := make([]float64, sampleCount(sampleRate, duration))
	width := duty.Value()
	for i := range out {
		t := float64(i) / float64(sampleRate)
		if math.Mod(t*frequency, 1) < width {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out
}

// Triangle generates a linear ramp -1 -> +1 -> -1 per period
func Triangle(frequency float64, sampleRate int, duration float64) []float64 {
	out := make([]float64, sampleCount(sampleRate, duration))
	for i := range out {
		t := float64(i) / float64(sampleRate)
		phase := math.Mod(t*frequency, 1)
		if phase < 0.5 {
			out[i] = 4*phase - 1
		} else {
			out[i] = 3 - 4*phase
		}
	}
	return out
}

// Noise clocks a 15-bit LFSR once per sample. The register always starts from
// the same seed, so equal arguments give identical output.
func Noise(short bool, sampleRate int, duration float64) []float64 {
	out := make([]float64, sampleCount(sampleRate, duration))
	tap := uint16(longModeTap)
	if short {
		tap = shortModeTap
	}

	reg := uint16(noiseSeed)
	for i := range out {
		bit0 := reg & 1
		feedback := bit0 ^ (reg>>tap)&1
		reg = reg>>1 | feedback<<(noiseWidth-1)
		if bit0 == 1 {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out
}
