package sample

// Columns returns the snapshot width needed for the given number of buttons.
// With a matrix (columns > 0) there is one byte per column and up to eight
// rows; without one, buttons are packed eight per byte.
func Columns(buttons, columns int) int {
	if columns > 0 {
		return columns
	}
	return (buttons + 7) / 8
}

// Button reports the state of a single input line.
func (s Snapshot) Button(id, columns int) bool {
	if columns > 0 {
		row := id / columns
		column := id % columns
		return s[column]&(1<<row) != 0
	}
	return s[id/8]&(1<<(id%8)) != 0
}

// SetButton is the producer side of Button.
func (s Snapshot) SetButton(id, columns int, v bool) {
	idx, bit := id/8, id%8
	if columns > 0 {
		idx, bit = id%columns, id/columns
	}
	if v {
		s[idx] |= 1 << bit
	} else {
		s[idx] &^= 1 << bit
	}
}

// EncoderPair returns the encoder that owns the given button. In a matrix,
// encoders span an even row and the odd row below it.
func EncoderPair(id, columns int) int {
	if columns == 0 {
		return id / 2
	}
	row := id / columns
	column := id % columns
	if row%2 != 0 {
		row--
	}
	return (row*columns)/2 + column
}

// EncoderPairState returns the two-bit state of an encoder's A/B lines.
func (s Snapshot) EncoderPairState(encoder, columns int) uint8 {
	if columns == 0 {
		id := encoder * 2
		var st uint8
		if s.Button(id, 0) {
			st = 1
		}
		st <<= 1
		if s.Button(id+1, 0) {
			st |= 1
		}
		return st
	}
	column := encoder % columns
	row := (encoder / columns) * 2
	return (s[column] >> row) & 0x03
}
