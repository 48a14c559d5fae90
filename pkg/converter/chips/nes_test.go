package chips

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/james-see/midi2chiptune/pkg/converter"
)

func TestVoiceFor(t *testing.T) {
	tests := []struct {
		channel  uint8
		expected Voice
	}{
		{0, VoicePulse50},
		{1, VoicePulse25},
		{2, VoiceTriangle},
		{3, VoiceNoise},
		{4, VoicePulse50},
		{9, VoicePulse25},
		{15, VoiceNoise},
	}

	for _, tt := range tests {
		if got := VoiceFor(tt.channel); got != tt.expected {
			t.Errorf("VoiceFor(%d) = %v, want %v", tt.channel, got, tt.expected)
		}
	}

	if len(Voices()) != VoiceCount {
		t.Errorf("len(Voices()) = %d, want %d", len(Voices()), VoiceCount)
	}
}

func TestMix(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		out := Mix(nil)
		if out == nil || len(out) != 0 {
			t.Errorf("Mix(nil) = %v, want empty slice", out)
		}
	})

	t.Run("single voice among silence", func(t *testing.T) {
		const k, v = 4, 0.6
		buffers := make([][]float64, k)
		for i := range buffers {
			buffers[i] = make([]float64, 100)
		}
		for i := range buffers[2] {
			buffers[2][i] = v
		}

		for i, s := range Mix(buffers) {
			if s != v/k {
				t.Fatalf("out[%d] = %v, want %v", i, s, v/k)
			}
		}
	})

	t.Run("uneven lengths", func(t *testing.T) {
		out := Mix([][]float64{{1, 1, 1}, {1}})
		expected := []float64{1, 0.5, 0.5}
		if len(out) != len(expected) {
			t.Fatalf("len = %d, want %d", len(out), len(expected))
		}
		for i := range expected {
			if out[i] != expected[i] {
				t.Errorf("out[%d] = %v, want %v", i, out[i], expected[i])
			}
		}
	})
}

func TestPlaceNote(t *testing.T) {
	note := converter.Note{MIDINote: 69, Channel: 0, StartTime: 0.5, Duration: 0.25, Velocity: 127}
	out := PlaceNote(note, 100, 2)

	if len(out) != 200 {
		t.Fatalf("len = %d, want 200", len(out))
	}
	for i, s := range out {
		inside := i >= 50 && i < 75
		switch {
		case inside && math.Abs(math.Abs(s)-NoteGain) > 1e-12:
			t.Errorf("out[%d] = %v, want ±%v", i, s, NoteGain)
		case !inside && s != 0:
			t.Errorf("out[%d] = %v, want 0", i, s)
		}
	}
}

func TestPlaceNoteClipsAtEnd(t *testing.T) {
	note := converter.Note{MIDINote: 60, Channel: 1, StartTime: 1.9, Duration: 0.5, Velocity: 64}
	out := PlaceNote(note, 100, 2)

	if len(out) != 200 {
		t.Fatalf("len = %d, want 200", len(out))
	}
	for i := 191; i < 200; i++ {
		if out[i] == 0 {
			t.Errorf("out[%d] = 0, want signal", i)
		}
	}

	late := converter.Note{MIDINote: 60, StartTime: 5, Duration: 1, Velocity: 100}
	for i, s := range PlaceNote(late, 100, 2) {
		if s != 0 {
			t.Fatalf("out[%d] = %v, want silence for a note past the end", i, s)
		}
	}
}

func TestNoiseNotesShareSequence(t *testing.T) {
	a := NoteWaveform(converter.Note{MIDINote: 40, Channel: 3, Duration: 0.1, Velocity: 100}, 44100)
	b := NoteWaveform(converter.Note{MIDINote: 90, Channel: 7, Duration: 0.1, Velocity: 100}, 44100)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRenderMatchesMix(t *testing.T) {
	const sampleRate = 8000
	notes := []converter.Note{
		{MIDINote: 69, Channel: 0, StartTime: 0, Duration: 0.5, Velocity: 100},
		{MIDINote: 64, Channel: 1, StartTime: 0.25, Duration: 0.5, Velocity: 80},
		{MIDINote: 45, Channel: 2, StartTime: 0.1, Duration: 1.2, Velocity: 127},
		{MIDINote: 30, Channel: 3, StartTime: 0.6, Duration: 0.3, Velocity: 50},
		{MIDINote: 72, Channel: 4, StartTime: 1.1, Duration: 0.4, Velocity: 90},
	}
	duration := converter.TotalDuration(notes)

	buffers := make([][]float64, len(notes))
	for i, n := range notes {
		buffers[i] = PlaceNote(n, sampleRate, duration)
	}
	expected := Mix(buffers)

	for _, workers := range []int{1, 3, 16} {
		got, err := NewNES(workers).Render(context.Background(), notes, sampleRate, duration)
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if len(got) != len(expected) {
			t.Fatalf("workers=%d: len = %d, want %d", workers, len(got), len(expected))
		}
		for i := range expected {
			if got[i] != expected[i] {
				t.Fatalf("workers=%d: sample %d = %v, want %v", workers, i, got[i], expected[i])
			}
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	out, err := NewNES(2).Render(context.Background(), nil, 44100, 1)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("len = %d, want 0", len(out))
	}
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	notes := []converter.Note{{MIDINote: 60, Duration: 1, Velocity: 100}}
	if _, err := NewNES(1).Render(ctx, notes, 44100, 2); !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want %v", err, context.Canceled)
	}
}

func TestNESDefaults(t *testing.T) {
	nes := NewNES(0)
	if nes.Workers() < 1 {
		t.Errorf("Workers() = %d, want at least 1", nes.Workers())
	}
	if nes.Name() != "NES 2A03" {
		t.Errorf("Name() = %q", nes.Name())
	}

	var _ converter.Synth = nes
}

func TestDemo(t *testing.T) {
	out := Demo(44100)
	if len(out) != 88200 {
		t.Fatalf("len = %d, want 88200", len(out))
	}
	// t=0: pulses high, triangle at its trough
	if want := (0.3 + 0.25 - 0.4) / 3; math.Abs(out[0]-want) > 1e-12 {
		t.Errorf("out[0] = %v, want %v", out[0], want)
	}
	for i, s := range out {
		if s < -1 || s > 1 {
			t.Fatalf("out[%d] = %v out of range", i, s)
		}
	}

	gains := []float64{0.3, 0.25, 0.4}
	for i, n := range DemoNotes() {
		if VoiceFor(n.Channel) != Voices()[i] {
			t.Errorf("demo note %d on voice %v, want %v", i, VoiceFor(n.Channel), Voices()[i])
		}
		if g := float64(n.Velocity) / 127 * NoteGain; math.Abs(g-gains[i]) > 0.01 {
			t.Errorf("demo note %d gain = %v, want %v", i, g, gains[i])
		}
	}
}
