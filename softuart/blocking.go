// softuart/blocking.go

package softuart

import (
	"context"
	"time"
)

// SendByte shifts c out and returns once the stop bit is on the line. It
// first waits for any reception in progress, which can take arbitrarily long
// on a busy line. SendByte is not reentrant.
//
// After Close SendByte returns without sending; use WriteByte to get
// ErrClosed.
func (d *Driver) SendByte(c byte) {
	_ = d.SendByteContext(context.Background(), c)
}

// SendByteContext is SendByte with ctx bounding the wait for the line. Once
// the byte is armed it is always sent in full and ctx is no longer consulted.
func (d *Driver) SendByteContext(ctx context.Context, c byte) error {
	if d.isClosed() {
		return ErrClosed
	}
	d.txShift = uint16(c)

	// Half duplex: the RX path owns the timer until the stop bit is sampled.
	// Start edges stay masked from the last check until the stop bit has
	// been sent; an edge that got in first hands the line back to RX.
	for {
		for d.receiving.Load() {
			if err := d.wait(ctx, d.txNotify); err != nil {
				return err
			}
		}
		if d.cfg.RX {
			d.hw.SetEdgeInterrupt(false)
		}
		if !d.receiving.Load() {
			break
		}
	}

	d.armTransmit()

	for d.hw.CompareInterruptEnabled() {
		if err := d.wait(context.Background(), d.txNotify); err != nil {
			return err
		}
	}
	return nil
}

// armTransmit starts the timer and hands the frame in txShift to the
// compare handler. The first edge (the start bit) lands one bit time after
// the first compare match.
func (d *Driver) armTransmit() {
	d.hw.SetCompareControl(OutputBit, true, false)
	d.hw.StartTimer()

	d.bitCount = txBitCount
	d.hw.SetCompare(d.hw.Counter() + d.bitTime)
	d.txShift = EncodeFrame(byte(d.txShift))

	d.hw.SetCompareControl(OutputBit, true, true)
}

// ReceiveByte blocks until a correctly framed byte has arrived and returns
// it. There is no timeout; frames with a bad start or stop bit are dropped
// and the wait goes on.
func (d *Driver) ReceiveByte() (byte, error) {
	return d.ReceiveByteContext(context.Background())
}

// ReceiveByteContext blocks for a validated byte or until ctx is done.
func (d *Driver) ReceiveByteContext(ctx context.Context) (byte, error) {
	if !d.cfg.RX {
		return 0, ErrNoRX
	}
	for {
		if c, err := d.ReadByte(); err == nil {
			return c, nil
		}
		if err := d.wait(ctx, d.notify); err != nil {
			return 0, err
		}
		if !d.ByteReady() {
			d.dbgSpuriousWake()
		}
	}
}

// ReadWithTimeout blocks like Read for at most t.
func (d *Driver) ReadWithTimeout(p []byte, t time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), t)
	defer cancel()
	return d.ReadContext(ctx, p)
}

// wait blocks until ch fires, the driver is closed or ctx is done. Wakes are
// coalesced; callers re-check their condition after every return.
func (d *Driver) wait(ctx context.Context, ch <-chan struct{}) error {
	d.dbgWait()
	select {
	case <-ch:
		return nil
	case <-d.closed:
		return ErrClosed
	case <-ctx.Done():
		d.dbgTimeout()
		return ctx.Err()
	}
}
