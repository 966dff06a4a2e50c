// softuart/hal_rp2040.go

//go:build rp2040

package softuart

import (
	"device/rp"
	"machine"
	"runtime/interrupt"
	"runtime/volatile"
	"sync/atomic"
)

type Pin = machine.Pin

const NoPin = machine.NoPin

// RP2040TimerHz is the tick rate of the RP2040 system timer.
const RP2040TimerHz = 1000000

// RP2040 drives a soft UART from one alarm of the RP2040 system timer. The
// alarm stands in for a compare channel: the pending output action is
// applied to TX at the top of the alarm interrupt, a few cycles after the
// match. The system timer cannot be stopped; StopTimer disarms the alarm.
//
// Alarms 0 and 1 are left to the TinyGo runtime. The alarm and GPIO
// interrupts are claimed by the package, so only DispatchDirect is accepted.
type RP2040 struct {
	TX Pin
	RX Pin

	alarm uint8
	irq   interrupt.Interrupt

	running atomic.Bool
	ie      atomic.Bool
	edgeIE  atomic.Bool
	vector  atomic.Bool
	ccr     uint16
	mode    OutputMode
	out     bool

	onEdge  func()
	onTimer func()
}

// Backend instances, one per usable alarm.
var (
	Alarm2 = &_Alarm2
	Alarm3 = &_Alarm3

	_Alarm2 = RP2040{TX: NoPin, RX: NoPin, alarm: 2}
	_Alarm3 = RP2040{TX: NoPin, RX: NoPin, alarm: 3}
)

func init() {
	_Alarm2.irq = interrupt.New(rp.IRQ_TIMER_IRQ_2, _Alarm2.handleAlarm)
	_Alarm3.irq = interrupt.New(rp.IRQ_TIMER_IRQ_3, _Alarm3.handleAlarm)
}

// SetPins binds the TX and RX pins. Pass NoPin for a transmit-only UART.
func (h *RP2040) SetPins(tx, rx Pin) {
	h.TX, h.RX = tx, rx
}

func (h *RP2040) BindEdge(handler func()) { h.onEdge = handler }

func (h *RP2040) BindTimer(handler func()) { h.onTimer = handler }

func (h *RP2040) ConfigureTX() {
	h.out = true
	h.mode = OutputBit
	h.TX.Configure(machine.PinConfig{Mode: machine.PinOutput})
	h.TX.High()

	rp.TIMER.INTR.Set(h.mask()) // clear a stale match
	h.irq.SetPriority(0x40)
	h.irq.Enable()
}

func (h *RP2040) ConfigureRX() {
	if h.RX == NoPin {
		return
	}
	h.RX.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	h.edgeIE.Store(true)
	// The callback stays installed; SetEdgeInterrupt gates it.
	_ = h.RX.SetInterrupt(machine.PinFalling, h.handleEdge)
}

func (h *RP2040) SetEdgeInterrupt(enabled bool) { h.edgeIE.Store(enabled) }

// ClearEdgeFlag is a no-op: the machine package acknowledges GPIO
// interrupts before calling back.
func (h *RP2040) ClearEdgeFlag() {}

func (h *RP2040) ReadRX() bool { return h.RX.Get() }

func (h *RP2040) StartTimer() { h.running.Store(true) }

func (h *RP2040) StopTimer() {
	h.running.Store(false)
	rp.TIMER.ARMED.Set(h.mask()) // write 1 to disarm
}

func (h *RP2040) TimerRunning() bool { return h.running.Load() }

func (h *RP2040) Counter() uint16 { return uint16(rp.TIMER.TIMERAWL.Get()) }

func (h *RP2040) Compare() uint16 { return h.ccr }

func (h *RP2040) SetCompare(v uint16) {
	h.ccr = v
	if h.ie.Load() {
		h.arm()
	}
}

func (h *RP2040) SetCompareControl(mode OutputMode, out, irq bool) {
	h.mode, h.out = mode, out
	if mode == OutputBit {
		h.TX.Set(out)
	}
	h.setIE(irq)
}

func (h *RP2040) SetOutputMode(mode OutputMode) {
	h.mode = mode
	if mode == OutputBit {
		h.TX.Set(h.out)
	}
}

func (h *RP2040) DisableCompareInterrupt() { h.setIE(false) }

func (h *RP2040) CompareInterruptEnabled() bool { return h.ie.Load() }

// CompareVector implements VectorReader. Each alarm has its own IRQ line,
// so this only filters calls that did not come from handleAlarm.
func (h *RP2040) CompareVector() bool { return h.vector.Swap(false) }

// OwnsVectors implements VectorOwner.
func (h *RP2040) OwnsVectors() bool { return true }

// ------------------------------- Internals --------------------------------

func (h *RP2040) mask() uint32 { return 1 << h.alarm }

func (h *RP2040) alarmReg() *volatile.Register32 {
	switch h.alarm {
	case 2:
		return &rp.TIMER.ALARM2
	default:
		return &rp.TIMER.ALARM3
	}
}

func (h *RP2040) setIE(enabled bool) {
	h.ie.Store(enabled)
	if enabled {
		rp.TIMER.INTE.SetBits(h.mask())
		h.arm()
		return
	}
	rp.TIMER.INTE.ClearBits(h.mask())
	rp.TIMER.ARMED.Set(h.mask())
}

// arm extends the 16-bit compare value to the 32-bit alarm, counting
// forward from now.
func (h *RP2040) arm() {
	if !h.running.Load() {
		return
	}
	now := rp.TIMER.TIMERAWL.Get()
	delta := uint32(h.ccr - uint16(now))
	if delta == 0 {
		delta = 1 << 16
	}
	h.alarmReg().Set(now + delta)
}

func (h *RP2040) handleAlarm(interrupt.Interrupt) {
	rp.TIMER.INTR.Set(h.mask())

	switch h.mode {
	case OutputSet:
		h.TX.High()
	case OutputReset:
		h.TX.Low()
	}
	h.vector.Store(true)

	if h.ie.Load() && h.onTimer != nil {
		h.onTimer()
	}
}

func (h *RP2040) handleEdge(machine.Pin) {
	if h.edgeIE.Load() && h.onEdge != nil {
		h.onEdge()
	}
}
