// Package midifile decodes Standard MIDI Files into per-track event lists
package midifile

import "errors"

// Chunk signatures and sizes
const (
	HeaderMagic     = "MThd"
	TrackMagic      = "MTrk"
	HeaderLength    = 6
	HeaderChunkSize = 14 // magic + length + format + track count + division
	TrackHeaderSize = 8
	MetaEventStatus = 0xFF
)

var (
	// ErrInvalidHeader is returned when the MThd chunk is missing or malformed.
	ErrInvalidHeader = errors.New("invalid MIDI header")
	// ErrTrackRead marks a track chunk that could not be read.
	ErrTrackRead = errors.New("invalid MIDI track")
	// ErrUnexpectedEOF is returned when a variable-length quantity runs past the data.
	ErrUnexpectedEOF = errors.New("unexpected end of data while reading VLQ")
)

// EventKind identifies the decoded channel message
type EventKind int

const (
	KindUnknown EventKind = iota
	KindNoteOn
	KindNoteOff
	KindProgramChange
)

func (k EventKind) String() string {
	switch k {
	case KindNoteOn:
		return "NoteOn"
	case KindNoteOff:
		return "NoteOff"
	case KindProgramChange:
		return "ProgramChange"
	default:
		return "Unknown"
	}
}

// Event is a single decoded track event.
// Delta is the tick distance from the previous event in the same track.
type Event struct {
	Kind     EventKind
	Channel  uint8 // 0-15
	Note     uint8 // 0-127, note events only
	Velocity uint8 // 0-127, NoteOn only
	Program  uint8 // ProgramChange only
	Delta    uint32
}

// Track holds the retained events of one MTrk chunk in file order
type Track struct {
	Events []Event
}

// File is a parsed Standard MIDI File
type File struct {
	Format          uint16
	TrackCount      uint16
	TicksPerQuarter uint16
	Tracks          []Track
}
