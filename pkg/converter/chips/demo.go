package chips

import "github.com/james-see/midi2chiptune/pkg/converter"

// DemoDuration is the length of the demo chord in seconds
const DemoDuration = 2.0

// DemoFilename is where the CLI writes the demo when run without arguments
const DemoFilename = "demo_nes_sound.wav"

// Demo renders a fixed three-voice chord: a 440 Hz melody pulse, a 330 Hz
// harmony pulse at 25% duty and a 110 Hz triangle bass.
func Demo(sampleRate int) []float64 {
	melody := scale(Square(440, Duty50, sampleRate, DemoDuration), 0.3)
	harmony := scale(Square(330, Duty25, sampleRate, DemoDuration), 0.25)
	bass := scale(Triangle(110, sampleRate, DemoDuration), 0.4)
	return Mix([][]float64{melody, harmony, bass})
}

// DemoNotes approximates the demo chord as notes on channels 0-2, with
// velocities chosen so velocity/127*NoteGain matches the demo gains.
func DemoNotes() []converter.Note {
	return []converter.Note{
		{MIDINote: 69, Channel: 0, Duration: DemoDuration, Velocity: 54}, // A4
		{MIDINote: 64, Channel: 1, Duration: DemoDuration, Velocity: 45}, // E4
		{MIDINote: 45, Channel: 2, Duration: DemoDuration, Velocity: 73}, // A2
	}
}

func scale(samples []float64, gain float64) []float64 {
	for i := range samples {
		samples[i] *= gain
	}
	return samples
}
