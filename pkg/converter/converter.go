package converter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/james-see/midi2chiptune/pkg/midifile"
	"github.com/james-see/midi2chiptune/pkg/wav"
)

var (
	// ErrNoNotes is returned when a MIDI file contains no playable notes
	ErrNoNotes = errors.New("no notes found")
	// ErrTooLong is returned when the piece is longer than Options.MaxDuration
	ErrTooLong = errors.New("piece too long")
)

// Format represents a file format
type Format string

const (
	FormatMIDI    Format = "midi"
	FormatWAV     Format = "wav"
	FormatUnknown Format = "unknown"
)

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mid", ".midi", ".smf":
		return FormatMIDI
	case ".wav", ".wave":
		return FormatWAV
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	switch {
	case len(data) >= 4 && string(data[:4]) == midifile.HeaderMagic:
		return FormatMIDI
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return FormatWAV
	default:
		return FormatUnknown
	}
}

// OutputPath derives the default WAV path by replacing the input extension
func OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".wav"
}

// Render parses MIDI data and returns the mixed float samples
func (c *Converter) Render(ctx context.Context, midiData []byte) ([]float64, *Result, error) {
	if c.synth == nil {
		return nil, nil, errors.New("no synth configured")
	}

	file, err := midifile.NewParser(c.opts.Logger).Parse(midiData)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}
	return c.render(ctx, file)
}

func (c *Converter) render(ctx context.Context, file *midifile.File) ([]float64, *Result, error) {
	log := c.opts.Logger
	log.Info("parsed MIDI file",
		"format", file.Format,
		"tracks", file.TrackCount,
		"ticks_per_quarter", file.TicksPerQuarter,
		"tracks_read", len(file.Tracks))

	notes := AssembleNotes(file, c.opts.Tempo)
	log.Info("assembled notes", "notes", len(notes), "tempo", c.opts.Tempo)
	if len(notes) == 0 {
		return nil, nil, ErrNoNotes
	}

	duration := TotalDuration(notes)
	if limit := c.opts.MaxDuration; limit > 0 && duration > limit {
		return nil, nil, fmt.Errorf("%w: %.1fs exceeds the %.1fs limit", ErrTooLong, duration, limit)
	}
	log.Debug("rendering", "synth", c.synth.Name(), "duration", duration, "sample_rate", c.opts.SampleRate)

	samples, err := c.synth.Render(ctx, notes, c.opts.SampleRate, duration)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to render: %w", err)
	}

	return samples, &Result{
		Format:          file.Format,
		TrackCount:      file.TrackCount,
		TicksPerQuarter: file.TicksPerQuarter,
		Notes:           len(notes),
		Duration:        duration,
		Samples:         len(samples),
		SampleRate:      c.opts.SampleRate,
	}, nil
}

// MIDIToWAV converts MIDI data to a complete WAV file
func (c *Converter) MIDIToWAV(ctx context.Context, midiData []byte) ([]byte, *Result, error) {
	samples, result, err := c.Render(ctx, midiData)
	if err != nil {
		return nil, nil, err
	}

	out, err := wav.Bytes(samples, c.opts.SampleRate)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode WAV: %w", err)
	}
	return out, result, nil
}

// ConvertFile converts a MIDI file on disk into a WAV file
func (c *Converter) ConvertFile(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	if outputPath == "" {
		outputPath = OutputPath(inputPath)
	}
	if DetectFormat(outputPath) == FormatMIDI {
		return nil, fmt.Errorf("refusing to overwrite MIDI file %s with audio", outputPath)
	}

	if c.synth == nil {
		return nil, errors.New("no synth configured")
	}

	file, err := midifile.NewParser(c.opts.Logger).ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", inputPath, err)
	}

	samples, result, err := c.render(ctx, file)
	if err != nil {
		return nil, err
	}

	if err := wav.WriteFile(outputPath, samples, c.opts.SampleRate); err != nil {
		return nil, fmt.Errorf("failed to write output file: %w", err)
	}
	c.opts.Logger.Info("wrote WAV file", "path", outputPath, "samples", len(samples))

	return result, nil
}
