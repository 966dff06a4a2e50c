// softuart/config.go

package softuart

import "errors"

// Defaults match the original MSP430 build: SMCLK at 8 MHz, 115200 baud.
const (
	DefaultClockHz  = 8000000
	DefaultBaudRate = 115200
)

// minBitTime keeps the half-bit delay non-zero.
const minBitTime = 2

var (
	// ErrBaudRate is returned when the clock and baud rate give a bit time
	// the 16-bit compare register cannot express.
	ErrBaudRate = errors.New("softuart: baud rate out of range for clock")
	// ErrNoBinder is returned for direct dispatch on a backend that cannot
	// install interrupt handlers.
	ErrNoBinder = errors.New("softuart: backend cannot bind interrupt handlers")
	// ErrNoVector is returned for a shared compare vector on a backend that
	// cannot tell which channel fired.
	ErrNoVector = errors.New("softuart: backend has no compare vector")
	// ErrVectorsOwned is returned for external dispatch on a backend that
	// owns its interrupt vectors.
	ErrVectorsOwned = errors.New("softuart: backend owns its interrupt vectors")
)

// Dispatch selects how the edge and timer handlers are reached.
type Dispatch uint8

const (
	// DispatchDirect installs the handlers on the backend's interrupt sources.
	DispatchDirect Dispatch = iota
	// DispatchExternal leaves the handlers to an application dispatcher,
	// which calls Driver.HandleEdge and Driver.HandleTimer itself.
	DispatchExternal
)

// Config is the static configuration of one soft UART.
type Config struct {
	// ClockHz is the timer clock. Zero selects DefaultClockHz.
	ClockHz uint32
	// BaudRate is the line rate. Zero selects DefaultBaudRate.
	BaudRate uint32
	// RX enables the receive direction. The backend must have an RX pin.
	RX bool
	// Dispatch selects direct or external handler dispatch.
	Dispatch Dispatch
	// SharedVector is set when the compare channel is not the timer's
	// dedicated vector and the handler must check the source first.
	SharedVector bool
}

func (c *Config) setDefaults() {
	if c.ClockHz == 0 {
		c.ClockHz = DefaultClockHz
	}
	if c.BaudRate == 0 {
		c.BaudRate = DefaultBaudRate
	}
}

// BitTime returns the bit period in timer ticks, rounded to nearest.
func (c Config) BitTime() uint16 {
	t := c.bitTicks()
	if t > 0xFFFF {
		return 0
	}
	return uint16(t)
}

// HalfBitTime returns half the bit period, the delay from a start edge to
// the middle of the start bit.
func (c Config) HalfBitTime() uint16 {
	return c.BitTime() / 2
}

func (c Config) bitTicks() uint32 {
	if c.BaudRate == 0 {
		return 0
	}
	return uint32((uint64(c.ClockHz) + uint64(c.BaudRate)/2) / uint64(c.BaudRate))
}

// Validate checks the configuration against the limits of the compare
// register.
func (c Config) Validate() error {
	if c.ClockHz == 0 || c.BaudRate == 0 {
		return ErrBaudRate
	}
	if t := c.bitTicks(); t < minBitTime || t > 0xFFFF {
		return ErrBaudRate
	}
	return nil
}
