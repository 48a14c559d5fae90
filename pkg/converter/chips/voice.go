package chips

// Voice is the timbre a MIDI channel is rendered with
type Voice int

const (
	VoicePulse50 Voice = iota
	VoicePulse25
	VoiceTriangle
	VoiceNoise
)

// VoiceCount is the number of chip channels MIDI channels are folded onto
const VoiceCount = 4

// VoiceFor maps a MIDI channel onto a chip voice by channel mod 4
func VoiceFor(channel uint8) Voice {
	return Voice(channel % VoiceCount)
}

func (v Voice) String() string {
	switch v {
	case VoicePulse50:
		return "pulse-50"
	case VoicePulse25:
		return "pulse-25"
	case VoiceTriangle:
		return "triangle"
	default:
		return "noise"
	}
}

// Description is a human readable summary used by the CLI and API listings
func (v Voice) Description() string {
	switch v {
	case VoicePulse50:
		return "Pulse wave, 50% duty"
	case VoicePulse25:
		return "Pulse wave, 25% duty"
	case VoiceTriangle:
		return "Triangle wave"
	default:
		return "LFSR noise, long period"
	}
}

// Generate renders the raw oscillator for this voice
func (v Voice) Generate(frequency float64, sampleRate int, duration float64) []float64 {
	switch v {
	case VoicePulse50:
		return Square(frequency, Duty50, sampleRate, duration)
	case VoicePulse25:
		return Square(frequency, Duty25, sampleRate, duration)
	case VoiceTriangle:
		return Triangle(frequency, sampleRate, duration)
	default:
		return Noise(false, sampleRate, duration)
	}
}

// Voices lists all chip voices in channel order
func Voices() []Voice {
	return []Voice{VoicePulse50, VoicePulse25, VoiceTriangle, VoiceNoise}
}
