// softuart/isr.go

package softuart

// HandleEdge is the RX falling-edge handler: the line has dropped into a
// start bit. It takes the timer over for sampling and masks further edges
// until the frame is done.
func (d *Driver) HandleEdge() {
	d.receiving.Store(true)
	d.rxShift = 0
	d.bitCount = rxBitCount

	d.hw.SetEdgeInterrupt(false)
	d.hw.ClearEdgeFlag()

	d.hw.StartTimer()
	d.hw.SetCompare(d.hw.Counter() + d.halfBitTime)
	// OutputSet keeps TX at mark while the channel is borrowed.
	d.hw.SetCompareControl(OutputSet, false, true)
	d.dbgEdge()
}

// HandleTimer is the compare handler. It fires once per bit period while a
// transfer is armed and serves whichever direction owns the timer.
func (d *Driver) HandleTimer() {
	if d.vector != nil && !d.vector.CompareVector() {
		d.dbgForeignVector()
		return
	}
	d.dbgTimer()

	d.hw.SetCompare(d.hw.Compare() + d.bitTime)
	if d.receiving.Load() {
		d.receiveBit()
		return
	}
	d.transmitBit()
}

func (d *Driver) transmitBit() {
	if d.bitCount == 0 {
		// Stop bit is on the line.
		d.hw.StopTimer()
		if d.cfg.RX {
			// Edges seen while the line was ours are not start bits.
			d.hw.ClearEdgeFlag()
			d.hw.SetEdgeInterrupt(true)
		}
		// Clearing the enable releases the sender.
		d.hw.DisableCompareInterrupt()
		d.dbgTxByte()
		d.dbgNotify(signal(d.txNotify))
		return
	}
	if d.txShift&1 != 0 {
		d.hw.SetOutputMode(OutputSet)
	} else {
		d.hw.SetOutputMode(OutputReset)
	}
	d.txShift >>= 1
	d.bitCount--
}

func (d *Driver) receiveBit() {
	if d.hw.ReadRX() {
		d.rxShift |= frameStop
	}
	if d.bitCount != 0 {
		d.rxShift >>= 1
		d.bitCount--
		return
	}

	// Middle of the stop bit: the frame is complete.
	d.hw.StopTimer()
	d.hw.DisableCompareInterrupt()
	d.receiving.Store(false)

	d.hw.ClearEdgeFlag()
	d.hw.SetEdgeInterrupt(true)

	if c, ok := DecodeFrame(d.rxShift); ok {
		d.rxSlot.Store(slotReady | uint32(c))
		d.dbgRxByte()
		d.dbgNotify(signal(d.notify))
	} else {
		d.dbgFramingError()
	}
	// A sender may be waiting for the line.
	signal(d.txNotify)
}
