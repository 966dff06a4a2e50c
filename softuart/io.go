// softuart/io.go

package softuart

import (
	"context"
	"io"
)

var (
	_ io.Reader     = (*Driver)(nil)
	_ io.Writer     = (*Driver)(nil)
	_ io.ByteReader = (*Driver)(nil)
	_ io.ByteWriter = (*Driver)(nil)
)

// Readable returns a coalesced notification for a received byte. The
// channel is level-coalesced; callers must re-check with ReadByte after
// waking.
func (d *Driver) Readable() <-chan struct{} { return d.notify }

// ReadByte takes the waiting byte without blocking. If there is none it
// returns ErrBufferEmpty.
func (d *Driver) ReadByte() (byte, error) {
	v := d.rxSlot.Swap(0)
	if v&slotReady == 0 {
		return 0, ErrBufferEmpty
	}
	return byte(v), nil
}

// Buffered returns 1 while a received byte is waiting, 0 otherwise.
func (d *Driver) Buffered() int {
	if d.ByteReady() {
		return 1
	}
	return 0
}

// Read implements io.Reader. It blocks until one byte has been received and
// returns it; there is never more than one byte to hand over.
func (d *Driver) Read(p []byte) (int, error) {
	return d.ReadContext(context.Background(), p)
}

// ReadContext is Read bounded by ctx.
func (d *Driver) ReadContext(ctx context.Context, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	c, err := d.ReceiveByteContext(ctx)
	if err != nil {
		return 0, err
	}
	p[0] = c
	return 1, nil
}

// WriteByte implements io.ByteWriter. It returns once c is on the wire.
func (d *Driver) WriteByte(c byte) error {
	return d.SendByteContext(context.Background(), c)
}

// Write implements io.Writer. Bytes go out one frame at a time and Write
// returns when the last stop bit is on the wire.
func (d *Driver) Write(p []byte) (int, error) {
	for i, c := range p {
		if err := d.WriteByte(c); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// Puts writes s followed by a newline.
func (d *Driver) Puts(s string) error {
	for i := 0; i < len(s); i++ {
		if err := d.WriteByte(s[i]); err != nil {
			return err
		}
	}
	return d.WriteByte('\n')
}
