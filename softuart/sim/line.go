package sim

import (
	"sort"

	"github.com/jangala-dev/tinygo-softuart/softuart"
)

// Inject schedules the RX pin of h to change to level at tick at.
func (h *Hardware) Inject(at uint64, level bool) {
	h.bench.mu.Lock()
	h.stimuli = append(h.stimuli, Transition{Tick: at, Level: level})
	sort.SliceStable(h.stimuli, func(i, j int) bool { return h.stimuli[i].Tick < h.stimuli[j].Tick })
	h.bench.mu.Unlock()
	h.bench.kick()
}

// InjectFrame drives a 10-bit line image onto RX starting at tick at, one
// bit every bitTime ticks, then returns the line to mark. It returns the
// tick at which the line is back at mark.
func (h *Hardware) InjectFrame(at uint64, bitTime uint16, frame uint16) uint64 {
	t := at
	for _, level := range softuart.FrameBits(frame) {
		h.Inject(t, level)
		t += uint64(bitTime)
	}
	h.Inject(t, true)
	return t
}

// InjectByte drives a correctly framed c onto RX. See InjectFrame.
func (h *Hardware) InjectByte(at uint64, bitTime uint16, c byte) uint64 {
	return h.InjectFrame(at, bitTime, softuart.EncodeFrame(c))
}

// Trace returns a copy of the TX transitions recorded so far. The first
// entry is the level set by ConfigureTX.
func (h *Hardware) Trace() []Transition {
	h.bench.mu.Lock()
	defer h.bench.mu.Unlock()
	return append([]Transition(nil), h.trace...)
}

// LevelAt returns the TX level at tick t according to the trace. Before the
// first transition the pin reads mark.
func (h *Hardware) LevelAt(t uint64) bool {
	h.bench.mu.Lock()
	defer h.bench.mu.Unlock()
	level := true
	for _, tr := range h.trace {
		if tr.Tick > t {
			break
		}
		level = tr.Level
	}
	return level
}

// TX returns the current TX level.
func (h *Hardware) TX() bool {
	h.bench.mu.Lock()
	defer h.bench.mu.Unlock()
	return h.txLevel
}

// TimerCalls returns how many times the timer handler has been called by
// the bench.
func (h *Hardware) TimerCalls() int {
	h.bench.mu.Lock()
	defer h.bench.mu.Unlock()
	return h.timerCalls
}

// EdgeCalls returns how many times the edge handler has been called by the
// bench.
func (h *Hardware) EdgeCalls() int {
	h.bench.mu.Lock()
	defer h.bench.mu.Unlock()
	return h.edgeCalls
}

// State is a snapshot of the pin and timer configuration.
type State struct {
	TXConfigured bool
	TXLevel      bool
	OutputMode   softuart.OutputMode
	RXConfigured bool
	EdgeEnabled  bool
	EdgePending  bool
	TimerRunning bool
	CompareIRQ   bool
}

// Snapshot returns the current configuration of h.
func (h *Hardware) Snapshot() State {
	h.bench.mu.Lock()
	defer h.bench.mu.Unlock()
	return State{
		TXConfigured: h.txConfigured,
		TXLevel:      h.txLevel,
		OutputMode:   h.mode,
		RXConfigured: h.rxConfigured,
		EdgeEnabled:  h.edgeIE,
		EdgePending:  h.edgeIFG,
		TimerRunning: h.running,
		CompareIRQ:   h.ccie,
	}
}
