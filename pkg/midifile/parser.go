package midifile

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Parser decodes MIDI data. The zero value is ready to use.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser that reports dropped tracks to logger
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse decodes a complete MIDI file held in memory
func Parse(data []byte) (*File, error) {
	return (&Parser{}).Parse(data)
}

// ReadFile reads and decodes a MIDI file from disk
func ReadFile(filename string) (*File, error) {
	return (&Parser{}).ReadFile(filename)
}

// ReadFile reads the whole file into memory and decodes it
func (p *Parser) ReadFile(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return p.Parse(data)
}

// Parse decodes the header chunk and then every announced track chunk.
// A bad header is fatal; a bad track is dropped and parsing moves on.
func (p *Parser) Parse(data []byte) (*File, error) {
	file, pos, err := readHeader(data)
	if err != nil {
		return nil, err
	}

	file.Tracks = make([]Track, 0, file.TrackCount)
	for i := 0; i < int(file.TrackCount); i++ {
		track, next, err := readTrack(data, pos)
		pos = next
		if err != nil {
			p.log().Warn("dropping track", "track", i, "error", err)
			continue
		}
		file.Tracks = append(file.Tracks, track)
	}

	return file, nil
}

func (p *Parser) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.logger
}

func readHeader(data []byte) (*File, int, error) {
	if len(data) < HeaderChunkSize || string(data[:4]) != HeaderMagic {
		return nil, 0, ErrInvalidHeader
	}
	if length := binary.BigEndian.Uint32(data[4:8]); length != HeaderLength {
		return nil, 0, fmt.Errorf("%w: chunk length %d, want %d", ErrInvalidHeader, length, HeaderLength)
	}

	return &File{
		Format:          binary.BigEndian.Uint16(data[8:10]),
		TrackCount:      binary.BigEndian.Uint16(data[10:12]),
		TicksPerQuarter: binary.BigEndian.Uint16(data[12:14]),
	}, HeaderChunkSize, nil
}

// readTrack decodes the chunk at pos and returns the position where the next
// chunk starts. Events are read while inside both the chunk and the buffer.
func readTrack(data []byte, pos int) (Track, int, error) {
	if pos+TrackHeaderSize > len(data) {
		return Track{}, len(data), fmt.Errorf("%w: truncated chunk header at offset %d", ErrTrackRead, pos)
	}

	length := int(binary.BigEndian.Uint32(data[pos+4 : pos+8]))
	start := pos + TrackHeaderSize
	end := start + length
	if end < start {
		end = len(data)
	}

	if string(data[pos:pos+4]) != TrackMagic {
		return Track{}, min(end, len(data)), fmt.Errorf("%w: chunk %q at offset %d", ErrTrackRead, data[pos:pos+4], pos)
	}

	var (
		events        []Event
		runningStatus byte
	)
	pos = start
	for pos < end && pos < len(data) {
		delta, next, err := ReadVLQ(data, pos)
		if err != nil {
			break
		}

		// Skipped events are dropped along with their delta.
		var event Event
		event, pos = decodeEvent(data, next, &runningStatus, delta)
		if event.Kind != KindUnknown {
			events = append(events, event)
		}
	}

	return Track{Events: events}, min(end, len(data)), nil
}
