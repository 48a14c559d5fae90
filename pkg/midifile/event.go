package midifile

// decodeEvent decodes the event at pos using the track's running status.
// It returns the event and the position after it. Events that are skipped,
// or whose data bytes run past the buffer, come back as KindUnknown.
func decodeEvent(data []byte, pos int, runningStatus *byte, delta uint32) (Event, int) {
	if pos >= len(data) {
		return Event{Kind: KindUnknown}, pos
	}

	if data[pos] >= 0x80 {
		*runningStatus = data[pos]
		pos++
	}

	status := *runningStatus
	channel := status & 0x0F

	switch status & 0xF0 {
	case 0x90:
		if pos+1 >= len(data) {
			return Event{Kind: KindUnknown}, pos
		}
		note, velocity := data[pos], data[pos+1]
		pos += 2
		if velocity == 0 {
			return Event{Kind: KindNoteOff, Channel: channel, Note: note, Delta: delta}, pos
		}
		return Event{Kind: KindNoteOn, Channel: channel, Note: note, Velocity: velocity, Delta: delta}, pos

	case 0x80:
		if pos+1 >= len(data) {
			return Event{Kind: KindUnknown}, pos
		}
		note := data[pos]
		pos += 2 // release velocity is ignored
		return Event{Kind: KindNoteOff, Channel: channel, Note: note, Delta: delta}, pos

	case 0xC0:
		if pos >= len(data) {
			return Event{Kind: KindUnknown}, pos
		}
		program := data[pos]
		pos++
		return Event{Kind: KindProgramChange, Channel: channel, Program: program, Delta: delta}, pos
	}

	switch {
	case status == MetaEventStatus:
		if pos >= len(data) {
			break
		}
		pos++ // meta type
		if length, next, err := ReadVLQ(data, pos); err == nil {
			pos = next + int(length)
		} else {
			pos = next
		}
	case status >= 0x80:
		// 0xC0/0xD0 class messages carry one data byte, everything else two.
		if pos < len(data) {
			pos++
			if status&0xE0 != 0xC0 && status&0xE0 != 0xD0 && pos < len(data) {
				pos++
			}
		}
	}

	return Event{Kind: KindUnknown}, pos
}
