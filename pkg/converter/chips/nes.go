// Package chips provides chip-style synthesizers for the converter
package chips

import (
	"context"
	"runtime"

	"github.com/james-see/midi2chiptune/pkg/converter"
	"golang.org/x/sync/errgroup"
)

// NoteGain is the peak amplitude of a note at full velocity
const NoteGain = 0.7

// NES renders notes with the 2A03 voice set: two pulses, a triangle and noise
type NES struct {
	workers int
}

// NewNES creates a NES synth that synthesizes up to workers notes at once.
// workers <= 0 means one per CPU.
func NewNES(workers int) *NES {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &NES{workers: workers}
}

// Name returns the synth name
func (n *NES) Name() string {
	return "NES 2A03"
}

// Workers returns the synthesis parallelism
func (n *NES) Workers() int {
	return n.workers
}

// NoteWaveform renders a note's oscillator for its full duration, scaled by velocity
func NoteWaveform(note converter.Note, sampleRate int) []float64 {
	wave := VoiceFor(note.Channel).Generate(Frequency(note.MIDINote), sampleRate, note.Duration)
	volume := float64(note.Velocity) / 127.0 * NoteGain
	for i := range wave {
		wave[i] *= volume
	}
	return wave
}

// PlaceNote returns a buffer spanning the whole piece with the note written
// at its start offset. Samples past the end of the piece are cut off.
func PlaceNote(note converter.Note, sampleRate int, totalDuration float64) []float64 {
	out := make([]float64, sampleCount(sampleRate, totalDuration))
	addAt(out, NoteWaveform(note, sampleRate), noteOffset(note, sampleRate))
	return out
}

// Render synthesizes every note concurrently and then sums them into the
// master buffer in note order, dividing by the note count. The output is
// identical to Mix over PlaceNote buffers but holds one piece-length buffer
// instead of one per note.
func (n *NES) Render(ctx context.Context, notes []converter.Note, sampleRate int, duration float64) ([]float64, error) {
	if len(notes) == 0 {
		return []float64{}, nil
	}

	waves := make([][]float64, len(notes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(n.workers)
	for i, note := range notes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			waves[i] = NoteWaveform(note, sampleRate)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	master := make([]float64, sampleCount(sampleRate, duration))
	for i, note := range notes {
		addAt(master, waves[i], noteOffset(note, sampleRate))
		waves[i] = nil
	}

	count := float64(len(notes))
	for i := range master {
		master[i] /= count
	}
	return master, nil
}

func noteOffset(note converter.Note, sampleRate int) int {
	return max(int(note.StartTime*float64(sampleRate)), 0)
}

// addAt adds src into dst starting at offset, clipped to len(dst)
func addAt(dst, src []float64, offset int) {
	if offset >= len(dst) {
		return
	}
	end := min(offset+len(src), len(dst))
	for i := offset; i < end; i++ {
		dst[i] += src[i-offset]
	}
}
