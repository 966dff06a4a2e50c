// softuart/frame.go

package softuart

// A frame is the line image of one character, LSB first: bit 0 is the start
// bit, bits 1..8 the data, bit 9 the stop bit. Transmit shifts it out from
// bit 0; receive assembles it so that it ends up in the same layout.
const (
	frameBits = 10

	frameStart = 1 << 0
	frameStop  = 1 << (frameBits - 1)

	// Bit counter loads. Receive is one short because the edge handler has
	// already consumed the start edge; its last handler call samples the
	// stop bit without shifting.
	txBitCount = frameBits
	rxBitCount = frameBits - 1
)

// EncodeFrame returns the frame for c: a mark stop bit above the data and a
// space start bit below it.
func EncodeFrame(c byte) uint16 {
	return (uint16(c) | 0x100) << 1
}

// DecodeFrame validates the start and stop bits of f and returns its data.
func DecodeFrame(f uint16) (byte, bool) {
	if f&(frameStart|frameStop) != frameStop {
		return 0, false
	}
	return byte(f >> 1), true
}

// FrameBits expands f into line levels in transmission order.
func FrameBits(f uint16) [frameBits]bool {
	var bits [frameBits]bool
	for i := range bits {
		bits[i] = f&(1<<i) != 0
	}
	return bits
}
