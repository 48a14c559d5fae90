// Package converter renders Standard MIDI Files through a chip synthesizer into WAV audio
package converter

import (
	"context"
	"io"
	"log/slog"
)

// Defaults used when an option is left unset
const (
	DefaultTempo      = 120.0
	DefaultSampleRate = 44100
	// TailPadding is the silence appended after the last note, in seconds.
	TailPadding = 1.0
)

// Note is a timed note assembled from a NoteOn/NoteOff pair
type Note struct {
	MIDINote  uint8
	Channel   uint8
	StartTime float64 // seconds from the start of the piece
	Duration  float64 // seconds, always > 0
	Velocity  uint8
}

// Result summarizes a finished conversion
type Result struct {
	Format          uint16
	TrackCount      uint16
	TicksPerQuarter uint16
	Notes           int
	Duration        float64 // seconds, including tail padding
	Samples         int
	SampleRate      int
}

// Synth renders notes into a single mixed buffer of float samples in [-1, 1]
type Synth interface {
	Name() string
	Render(ctx context.Context, notes []Note, sampleRate int, duration float64) ([]float64, error)
}

// Options configures a Converter
type Options struct {
	Tempo      float64 // beats per minute, applied to the whole piece
	SampleRate int
	// MaxDuration caps the rendered length in seconds, tail included. 0 means no limit.
	MaxDuration float64
	Logger      *slog.Logger
}

// DefaultOptions returns the options used by the CLI when no flags are given
func DefaultOptions() Options {
	return Options{
		Tempo:      DefaultTempo,
		SampleRate: DefaultSampleRate,
	}
}

func (o Options) withDefaults() Options {
	if o.Tempo <= 0 {
		o.Tempo = DefaultTempo
	}
	if o.SampleRate <= 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Converter handles MIDI to WAV conversions
type Converter struct {
	synth Synth
	opts  Options
}

// New creates a new Converter rendering through synth
func New(synth Synth, opts Options) *Converter {
	return &Converter{synth: synth, opts: opts.withDefaults()}
}

// GetSynth returns the current synthesizer
func (c *Converter) GetSynth() Synth {
	return c.synth
}

// SetSynth sets the synthesizer used for rendering
func (c *Converter) SetSynth(synth Synth) {
	c.synth = synth
}

// Options returns the effective options
func (c *Converter) Options() Options {
	return c.opts
}
