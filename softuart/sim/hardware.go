package sim

import (
	"github.com/golang/glog"

	"github.com/jangala-dev/tinygo-softuart/softuart"
)

var (
	_ softuart.Hardware        = (*Hardware)(nil)
	_ softuart.InterruptBinder = (*Hardware)(nil)
	_ softuart.VectorReader    = (*Hardware)(nil)
)

// Hardware is one simulated pin+timer binding on a Bench.
//
// The compare unit only produces events while the timer runs with the
// compare interrupt enabled. That is the only state in which the driver
// relies on matches, and it keeps a half-written control sequence in the
// foreground from racing the virtual clock.
type Hardware struct {
	bench *Bench
	name  string

	// TX
	txConfigured bool
	txLevel      bool
	trace        []Transition
	peers        []*Hardware

	// RX
	rxConfigured bool
	rxLevel      bool
	edgeIE       bool
	edgeIFG      bool
	stimuli      []Transition

	// Timer and compare channel
	running   bool
	base      uint16 // counter at startedAt, or while stopped
	startedAt uint64
	ccr       uint16
	mode      softuart.OutputMode
	out       bool
	ccie      bool
	vector    bool

	onEdge, onTimer       func()
	edgeCalls, timerCalls int
}

// Name returns the name given to NewHardware.
func (h *Hardware) Name() string { return h.name }

// BindEdge implements softuart.InterruptBinder.
func (h *Hardware) BindEdge(handler func()) {
	h.bench.mu.Lock()
	h.onEdge = handler
	h.bench.mu.Unlock()
}

// BindTimer implements softuart.InterruptBinder.
func (h *Hardware) BindTimer(handler func()) {
	h.bench.mu.Lock()
	h.onTimer = handler
	h.bench.mu.Unlock()
}

func (h *Hardware) ConfigureTX() {
	h.bench.mu.Lock()
	// Mark first, then hand the pin to the compare unit in OUT mode.
	h.out = true
	h.mode = softuart.OutputBit
	h.setTXLocked(true)
	h.txConfigured = true
	h.bench.mu.Unlock()
}

func (h *Hardware) ConfigureRX() {
	h.bench.mu.Lock()
	h.rxConfigured = true
	h.edgeIFG = false
	h.edgeIE = true
	h.bench.mu.Unlock()
	h.bench.kick()
}

func (h *Hardware) SetEdgeInterrupt(enabled bool) {
	h.bench.mu.Lock()
	h.edgeIE = enabled
	h.bench.mu.Unlock()
	h.bench.kick()
}

func (h *Hardware) ClearEdgeFlag() {
	h.bench.mu.Lock()
	h.edgeIFG = false
	h.bench.mu.Unlock()
}

func (h *Hardware) ReadRX() bool {
	h.bench.mu.Lock()
	defer h.bench.mu.Unlock()
	return h.rxLevel
}

func (h *Hardware) StartTimer() {
	h.bench.mu.Lock()
	if !h.running {
		h.running = true
		h.startedAt = h.bench.now
	}
	h.bench.mu.Unlock()
	h.bench.kick()
}

func (h *Hardware) StopTimer() {
	h.bench.mu.Lock()
	if h.running {
		h.base = h.counterLocked()
		h.running = false
	}
	h.bench.mu.Unlock()
}

func (h *Hardware) TimerRunning() bool {
	h.bench.mu.Lock()
	defer h.bench.mu.Unlock()
	return h.running
}

func (h *Hardware) Counter() uint16 {
	h.bench.mu.Lock()
	defer h.bench.mu.Unlock()
	return h.counterLocked()
}

func (h *Hardware) Compare() uint16 {
	h.bench.mu.Lock()
	defer h.bench.mu.Unlock()
	return h.ccr
}

func (h *Hardware) SetCompare(v uint16) {
	h.bench.mu.Lock()
	h.ccr = v
	h.bench.mu.Unlock()
	h.bench.kick()
}

func (h *Hardware) SetCompareControl(mode softuart.OutputMode, out, irq bool) {
	h.bench.mu.Lock()
	h.mode, h.out, h.ccie = mode, out, irq
	if mode == softuart.OutputBit {
		h.setTXLocked(out)
	}
	h.bench.mu.Unlock()
	h.bench.kick()
}

func (h *Hardware) SetOutputMode(mode softuart.OutputMode) {
	h.bench.mu.Lock()
	h.mode = mode
	if mode == softuart.OutputBit {
		h.setTXLocked(h.out)
	}
	h.bench.mu.Unlock()
}

func (h *Hardware) DisableCompareInterrupt() {
	h.bench.mu.Lock()
	h.ccie = false
	h.bench.mu.Unlock()
}

func (h *Hardware) CompareInterruptEnabled() bool {
	h.bench.mu.Lock()
	defer h.bench.mu.Unlock()
	return h.ccie
}

// CompareVector implements softuart.VectorReader.
func (h *Hardware) CompareVector() bool {
	h.bench.mu.Lock()
	defer h.bench.mu.Unlock()
	v := h.vector
	h.vector = false
	return v
}

// RaiseForeignVector calls the bound timer handler as another channel of
// the same timer would, without flagging this channel.
func (h *Hardware) RaiseForeignVector() {
	h.bench.mu.Lock()
	handler := h.onTimer
	h.bench.mu.Unlock()
	if handler != nil {
		handler()
	}
}

// ---------- internals (bench lock held) ----------

func (h *Hardware) counterLocked() uint16 {
	if !h.running {
		return h.base
	}
	return h.base + uint16(h.bench.now-h.startedAt)
}

// nextMatchLocked returns the tick of the next compare match.
func (h *Hardware) nextMatchLocked() (uint64, bool) {
	if !h.running || !h.ccie {
		return 0, false
	}
	delta := uint64(h.ccr - h.counterLocked())
	if delta == 0 {
		// The count has just passed the compare value; it comes round
		// again after a full wrap.
		delta = 1 << 16
	}
	return h.bench.now + delta, true
}

// matchLocked applies the compare output action and flags the channel.
func (h *Hardware) matchLocked() {
	glog.V(3).Infof("%s: compare match ccr=%d mode=%v @%d", h.name, h.ccr, h.mode, h.bench.now)
	switch h.mode {
	case softuart.OutputSet:
		h.setTXLocked(true)
	case softuart.OutputReset:
		h.setTXLocked(false)
	}
	h.vector = true
}

func (h *Hardware) setTXLocked(level bool) {
	if level == h.txLevel && len(h.trace) > 0 {
		return
	}
	h.txLevel = level
	h.trace = append(h.trace, Transition{Tick: h.bench.now, Level: level})
	glog.V(2).Infof("%s: tx=%v @%d", h.name, b2i(level), h.bench.now)
	for _, p := range h.peers {
		p.setRXLocked(level)
	}
}

func (h *Hardware) setRXLocked(level bool) {
	if level == h.rxLevel {
		return
	}
	if h.rxLevel && !level {
		h.edgeIFG = true
	}
	h.rxLevel = level
	glog.V(2).Infof("%s: rx=%v @%d", h.name, b2i(level), h.bench.now)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
