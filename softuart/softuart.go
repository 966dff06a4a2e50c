// softuart/softuart.go

// Package softuart provides a half-duplex software UART (8N1) built from one
// timer compare channel and, for receive, one GPIO falling-edge interrupt.
//
// The compare channel generates TX edges in hardware: each timer interrupt
// programs the level the pin takes at the next bit boundary. On receive the
// start edge arms the same channel half a bit later and every following
// interrupt samples RX in the middle of a bit. Only one direction is active
// at a time; SendByte waits out a reception in progress.
//
// SendByte and ReceiveByte block until the handlers signal completion through
// coalesced notification channels. Neither has a timeout; the Context
// variants bound the waits that can be abandoned safely.
package softuart

import (
	"errors"
	"sync/atomic"
)

var (
	// ErrBufferEmpty is returned by ReadByte when no received byte is waiting.
	ErrBufferEmpty = errors.New("softuart: no byte ready")
	// ErrNoRX is returned by the receive calls of a transmit-only driver.
	ErrNoRX = errors.New("softuart: receive not configured")
	// ErrClosed is returned once the driver has been closed.
	ErrClosed = errors.New("softuart: closed")
)

// slotReady marks a published byte in Driver.rxSlot.
const slotReady = 1 << 8

// Driver is one soft UART instance. The bit counter and both shift registers
// belong to the handlers while a transfer is armed; the foreground touches
// them only before it enables the compare interrupt.
type Driver struct {
	hw     Hardware
	vector VectorReader
	cfg    Config

	bitTime     uint16
	halfBitTime uint16

	bitCount uint8
	txShift  uint16
	rxShift  uint16

	receiving atomic.Bool
	// rxSlot holds slotReady|data while a validated byte waits for the reader.
	rxSlot atomic.Uint32

	notify   chan struct{} // byte ready
	txNotify chan struct{} // transmit done or line released by a reception
	closed   chan struct{}

	debugState
}

// New validates cfg against hw and returns a driver. Call Initialize before
// the first transfer.
func New(hw Hardware, cfg Config) (*Driver, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Dispatch {
	case DispatchDirect:
		if _, ok := hw.(InterruptBinder); !ok {
			return nil, ErrNoBinder
		}
	case DispatchExternal:
		if o, ok := hw.(VectorOwner); ok && o.OwnsVectors() {
			return nil, ErrVectorsOwned
		}
	}
	d := &Driver{
		hw:          hw,
		cfg:         cfg,
		bitTime:     cfg.BitTime(),
		halfBitTime: cfg.HalfBitTime(),
		notify:      make(chan struct{}, 1),
		txNotify:    make(chan struct{}, 1),
		closed:      make(chan struct{}),
	}
	if cfg.SharedVector {
		v, ok := hw.(VectorReader)
		if !ok {
			return nil, ErrNoVector
		}
		d.vector = v
	}
	return d, nil
}

// Config returns the configuration with defaults applied.
func (d *Driver) Config() Config { return d.cfg }

// Initialize configures the pins and leaves the timer stopped. It may be
// called again at any time the line is idle; the result is the same.
func (d *Driver) Initialize() {
	d.receiving.Store(false)
	d.rxSlot.Store(0)

	if b, ok := d.hw.(InterruptBinder); ok && d.cfg.Dispatch == DispatchDirect {
		b.BindTimer(d.HandleTimer)
		if d.cfg.RX {
			b.BindEdge(d.HandleEdge)
		}
	}

	d.hw.ConfigureTX()
	d.hw.DisableCompareInterrupt()
	d.hw.StopTimer()
	if d.cfg.RX {
		d.hw.ConfigureRX()
	}
}

// Receiving reports whether a frame is being sampled.
func (d *Driver) Receiving() bool { return d.receiving.Load() }

// ByteReady reports whether a validated byte waits for ReceiveByte.
func (d *Driver) ByteReady() bool { return d.rxSlot.Load()&slotReady != 0 }

// Close masks both interrupt sources, stops the timer and releases every
// blocked caller with ErrClosed. A byte being shifted out is cut short.
func (d *Driver) Close() error {
	select {
	case <-d.closed:
		return nil
	default:
		close(d.closed)
	}
	if d.cfg.RX {
		d.hw.SetEdgeInterrupt(false)
	}
	d.hw.DisableCompareInterrupt()
	d.hw.StopTimer()
	d.receiving.Store(false)
	return nil
}

func (d *Driver) isClosed() bool {
	select {
	case <-d.closed:
		return true
	default:
		return false
	}
}

// signal is the non-blocking, coalesced wake-up used from handler context.
func signal(ch chan struct{}) bool {
	select {
	case ch <- struct{}{}:
		return true
	default:
		return false
	}
}
