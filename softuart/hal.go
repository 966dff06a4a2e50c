// softuart/hal.go

package softuart

// OutputMode selects what the compare unit does to the TX pin when the timer
// count reaches the compare register.
type OutputMode uint8

const (
	// OutputBit drives the pin straight from the OUT bit of the control word.
	// A compare match leaves the pin alone.
	OutputBit OutputMode = iota
	// OutputSet drives the pin high (mark) at the next match.
	OutputSet
	// OutputReset drives the pin low (space) at the next match.
	OutputReset
)

func (m OutputMode) String() string {
	switch m {
	case OutputBit:
		return "out"
	case OutputSet:
		return "set"
	case OutputReset:
		return "reset"
	}
	return "invalid"
}

// Hardware is the pin and timer surface the bit-timing state machine runs on.
// One value binds exactly one timer compare channel, the TX pin routed to that
// channel's output and, optionally, an RX pin with a falling-edge interrupt.
//
// Counter, Compare and SetCompare use 16-bit wrap-around arithmetic. Methods
// are called from both the foreground and the two interrupt handlers; an
// implementation must tolerate that, but never sees two handlers at once.
type Hardware interface {
	// ConfigureTX makes the TX pin an output at the idle (mark) level and
	// then hands it to the compare unit.
	ConfigureTX()
	// ConfigureRX makes the RX pin an input with a falling-edge interrupt,
	// clears any pending edge and enables the interrupt.
	ConfigureRX()
	SetEdgeInterrupt(enabled bool)
	ClearEdgeFlag()
	// ReadRX returns the current RX level, true for mark.
	ReadRX() bool

	// StartTimer lets the counter run continuously. Starting a running
	// timer has no effect.
	StartTimer()
	// StopTimer halts the counter to save power.
	StopTimer()
	TimerRunning() bool
	Counter() uint16
	Compare() uint16
	SetCompare(v uint16)

	// SetCompareControl rewrites the whole compare control word.
	SetCompareControl(mode OutputMode, out, irq bool)
	// SetOutputMode changes only the output mode of the control word.
	SetOutputMode(mode OutputMode)
	DisableCompareInterrupt()
	CompareInterruptEnabled() bool
}

// InterruptBinder is implemented by backends that can install the driver's
// handlers directly as interrupt service routines.
type InterruptBinder interface {
	BindEdge(handler func())
	BindTimer(handler func())
}

// VectorReader is implemented by backends whose compare channel shares an
// interrupt vector with other channels of the same timer.
type VectorReader interface {
	// CompareVector reports whether this channel raised the pending timer
	// interrupt. Reading acknowledges it.
	CompareVector() bool
}

// VectorOwner is implemented by backends that claim their interrupt vectors
// themselves, leaving an application dispatcher nothing to hook.
type VectorOwner interface {
	OwnsVectors() bool
}
