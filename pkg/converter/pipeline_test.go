package converter_test

import (
	"context"
	"encoding/binary"
	"math"
	"sort"
	"testing"

	"github.com/james-see/midi2chiptune/pkg/converter"
	"github.com/james-see/midi2chiptune/pkg/converter/chips"
	"github.com/james-see/midi2chiptune/pkg/midifile"
	"github.com/james-see/midi2chiptune/pkg/wav"
)

func TestMIDIToWAVEndToEnd(t *testing.T) {
	track := []byte{
		0x00, 0x90, 69, 100, // A4 on
		0x83, 0x60, 0x80, 69, 0x40, // off after one beat
		0x00, 0xFF, 0x2F, 0x00,
	}
	data := []byte("MThd\x00\x00\x00\x06\x00\x00\x00\x01\x01\xE0MTrk")
	data = binary.BigEndian.AppendUint32(data, uint32(len(track)))
	data = append(data, track...)

	conv := converter.New(chips.NewNES(2), converter.Options{Tempo: 120, SampleRate: 44100})
	out, result, err := conv.MIDIToWAV(context.Background(), data)
	if err != nil {
		t.Fatalf("MIDIToWAV() error = %v", err)
	}

	// One beat at 120 BPM is 0.5s, plus one second of tail.
	const sampleCount = 66150
	const noteSamples = 22050
	if result.Samples != sampleCount || result.Notes != 1 {
		t.Fatalf("Result = %+v, want %d samples and 1 note", result, sampleCount)
	}
	if len(out) != wav.HeaderSize+sampleCount*2 {
		t.Fatalf("len = %d, want %d", len(out), wav.HeaderSize+sampleCount*2)
	}
	if got := binary.LittleEndian.Uint32(out[4:8]); got != 36+sampleCount*2 {
		t.Errorf("RIFF size = %d, want %d", got, 36+sampleCount*2)
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != sampleCount*2 {
		t.Errorf("data size = %d, want %d", got, sampleCount*2)
	}

	pcm := make([]int16, sampleCount)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(out[wav.HeaderSize+i*2:]))
	}

	velocity := 100.0
	peak := int16(velocity / 127 * chips.NoteGain * 32767)
	crossings := 0
	for i := 0; i < noteSamples; i++ {
		if pcm[i] != peak && pcm[i] != -peak {
			t.Fatalf("sample %d = %d, want ±%d", i, pcm[i], peak)
		}
		if i > 0 && (pcm[i] > 0) != (pcm[i-1] > 0) {
			crossings++
		}
	}
	for i := noteSamples; i < sampleCount; i++ {
		if pcm[i] != 0 {
			t.Fatalf("sample %d = %d, want silence after the note", i, pcm[i])
		}
	}

	// 440 Hz over 0.5s is 220 cycles, two sign changes each.
	if crossings < 430 || crossings > 450 {
		t.Errorf("sign changes = %d, want about 440", crossings)
	}
}

func TestGenerateMIDIRoundTrip(t *testing.T) {
	notes := []converter.Note{
		{MIDINote: 60, Channel: 0, StartTime: 0, Duration: 0.5, Velocity: 100},
		{MIDINote: 64, Channel: 1, StartTime: 0.25, Duration: 1, Velocity: 80},
		{MIDINote: 43, Channel: 2, StartTime: 0.5, Duration: 0.75, Velocity: 127},
		{MIDINote: 38, Channel: 3, StartTime: 1, Duration: 0.125, Velocity: 64},
		{MIDINote: 60, Channel: 0, StartTime: 0.5, Duration: 0.5, Velocity: 90},
	}

	data, err := converter.GenerateMIDI(notes, 480, 120)
	if err != nil {
		t.Fatalf("GenerateMIDI() error = %v", err)
	}

	file, err := midifile.Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if file.TicksPerQuarter != 480 {
		t.Errorf("TicksPerQuarter = %d, want 480", file.TicksPerQuarter)
	}

	got := converter.AssembleNotes(file, 120)
	if len(got) != len(notes) {
		t.Fatalf("round trip produced %d notes, want %d: %+v", len(got), len(notes), got)
	}

	byStart := func(n []converter.Note) {
		sort.Slice(n, func(i, j int) bool {
			if n[i].StartTime != n[j].StartTime {
				return n[i].StartTime < n[j].StartTime
			}
			return n[i].Channel < n[j].Channel
		})
	}
	want := append([]converter.Note(nil), notes...)
	byStart(want)
	byStart(got)

	for i := range want {
		g, w := got[i], want[i]
		if g.MIDINote != w.MIDINote || g.Channel != w.Channel || g.Velocity != w.Velocity ||
			math.Abs(g.StartTime-w.StartTime) > 1e-9 || math.Abs(g.Duration-w.Duration) > 1e-9 {
			t.Errorf("note %d = %+v, want %+v", i, g, w)
		}
	}
}

func TestGenerateMIDIInvalid(t *testing.T) {
	if _, err := converter.GenerateMIDI(nil, 0, 120); err == nil {
		t.Error("GenerateMIDI() with zero ticks per quarter should fail")
	}
}
