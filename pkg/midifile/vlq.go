package midifile

// ReadVLQ decodes a variable-length quantity starting at pos.
// It returns the value and the position of the byte after the quantity.
func ReadVLQ(data []byte, pos int) (uint32, int, error) {
	var value uint32
	for {
		if pos >= len(data) {
			return 0, pos, ErrUnexpectedEOF
		}
		b := data[pos]
		pos++
		value = value<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return value, pos, nil
		}
	}
}
