package converter

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type timedMessage struct {
	tick uint32
	off  bool
	msg  midi.Message
}

// GenerateMIDI writes notes to a single-track Standard MIDI File.
// Note times are quantized to the nearest tick at the given tempo.
func GenerateMIDI(notes []Note, ticksPerQuarter uint16, tempo float64) ([]byte, error) {
	if ticksPerQuarter == 0 {
		return nil, fmt.Errorf("invalid ticks per quarter: %d", ticksPerQuarter)
	}
	if tempo <= 0 {
		tempo = DefaultTempo
	}

	toTicks := func(seconds float64) uint32 {
		return uint32(math.Round(seconds * tempo / 60.0 * float64(ticksPerQuarter)))
	}

	events := make([]timedMessage, 0, len(notes)*2)
	for _, n := range notes {
		ch := n.Channel & 0x0F
		events = append(events,
			timedMessage{tick: toTicks(n.StartTime), msg: midi.NoteOn(ch, n.MIDINote, max(n.Velocity, 1))},
			timedMessage{tick: toTicks(n.StartTime + n.Duration), off: true, msg: midi.NoteOff(ch, n.MIDINote)},
		)
	}
	// Note offs sort ahead of note ons on the same tick so repeated pitches re-trigger.
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var track smf.Track

	microsecondsPerBeat := uint32(60000000.0 / tempo)
	track.Add(0, smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	}))

	var current uint32
	for _, ev := range events {
		track.Add(ev.tick-current, ev.msg)
		current = ev.tick
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteMIDIFile writes notes to a MIDI file
func WriteMIDIFile(filename string, notes []Note, ticksPerQuarter uint16, tempo float64) error {
	data, err := GenerateMIDI(notes, ticksPerQuarter, tempo)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
