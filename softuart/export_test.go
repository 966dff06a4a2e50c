package softuart

// BitCount exposes the bit counter to the simulator-driven tests.
func (d *Driver) BitCount() uint8 { return d.bitCount }

// ArmTransmit loads and arms c without waiting for completion, so a test
// can step the handler itself.
func (d *Driver) ArmTransmit(c byte) {
	d.txShift = uint16(c)
	d.armTransmit()
}
