package converter

import "github.com/james-see/midi2chiptune/pkg/midifile"

type noteKey struct {
	channel uint8
	note    uint8
}

type pendingNote struct {
	velocity uint8
	start    float64
}

// TicksToSeconds converts an absolute tick position at a fixed tempo
func TicksToSeconds(ticks uint64, ticksPerQuarter uint16, tempo float64) float64 {
	return float64(ticks) / float64(ticksPerQuarter) * 60.0 / tempo
}

// AssembleNotes pairs NoteOn and NoteOff events into timed notes.
//
// Each track keeps its own tick counter and pending-note table. Only one
// NoteOn per (channel, note) is pending at a time: a repeated NoteOn replaces
// the earlier one, and NoteOns still pending at the end of a track are dropped.
// Notes come out in NoteOff order, track by track.
func AssembleNotes(file *midifile.File, tempo float64) []Note {
	if file == nil || file.TicksPerQuarter == 0 || tempo <= 0 {
		return nil
	}

	var notes []Note
	for _, track := range file.Tracks {
		var tick uint64
		pending := make(map[noteKey]pendingNote)

		for _, ev := range track.Events {
			tick += uint64(ev.Delta)
			key := noteKey{channel: ev.Channel, note: ev.Note}

			switch ev.Kind {
			case midifile.KindNoteOn:
				pending[key] = pendingNote{
					velocity: ev.Velocity,
					start:    TicksToSeconds(tick, file.TicksPerQuarter, tempo),
				}
			case midifile.KindNoteOff:
				on, ok := pending[key]
				if !ok {
					continue
				}
				delete(pending, key)

				duration := TicksToSeconds(tick, file.TicksPerQuarter, tempo) - on.start
				if duration > 0 {
					notes = append(notes, Note{
						MIDINote:  ev.Note,
						Channel:   ev.Channel,
						StartTime: on.start,
						Duration:  duration,
						Velocity:  on.velocity,
					})
				}
			}
		}
	}

	return notes
}

// TotalDuration is the end of the last note plus TailPadding
func TotalDuration(notes []Note) float64 {
	var end float64
	for _, n := range notes {
		end = max(end, n.StartTime+n.Duration)
	}
	return end + TailPadding
}
