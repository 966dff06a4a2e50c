// Package sim is a simulated backend for softuart. A Bench owns a virtual
// tick clock shared by any number of Hardware devices; each device models a
// 16-bit continuous-mode timer with one compare channel driving a TX pin and
// an RX pin with a falling-edge interrupt.
//
// Time only moves when Step is called, either directly by a test or by Run
// in a goroutine. Step jumps straight to the next event, so a transfer that
// takes milliseconds on a wire completes in microseconds of host time.
package sim

import (
	"context"
	"math"
	"sync"

	"github.com/golang/glog"
)

// Transition is a pin level change at a tick.
type Transition struct {
	Tick  uint64
	Level bool
}

// Bench is the shared clock and event scheduler.
type Bench struct {
	mu   sync.Mutex
	now  uint64
	devs []*Hardware
	wake chan struct{}
}

// NewBench returns an empty bench at tick 0.
func NewBench() *Bench {
	return &Bench{wake: make(chan struct{}, 1)}
}

// NewHardware adds a device to the bench. Both pins idle at mark.
func (b *Bench) NewHardware(name string) *Hardware {
	h := &Hardware{
		bench:   b,
		name:    name,
		txLevel: true,
		rxLevel: true,
	}
	b.mu.Lock()
	b.devs = append(b.devs, h)
	b.mu.Unlock()
	return h
}

// Wire connects the TX pin of from to the RX pin of to. The RX level
// follows TX from this tick on.
func (b *Bench) Wire(from, to *Hardware) {
	b.mu.Lock()
	from.peers = append(from.peers, to)
	to.setRXLocked(from.txLevel)
	b.mu.Unlock()
	b.kick()
}

// Now returns the current tick.
func (b *Bench) Now() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.now
}

// Advance moves the clock forward by n ticks without processing events. It
// is meant for tests that want idle time between transfers; events that
// fall inside the skipped span fire late on the next Step.
func (b *Bench) Advance(n uint64) {
	b.mu.Lock()
	b.now += n
	b.mu.Unlock()
}

type eventKind uint8

const (
	eventNone eventKind = iota
	eventEdge
	eventStimulus
	eventCompare
)

// Step processes the next event and calls at most one handler. It returns
// false when nothing is scheduled.
func (b *Bench) Step() bool {
	b.mu.Lock()
	var (
		when = uint64(math.MaxUint64)
		dev  *Hardware
		kind = eventNone
	)
	for _, h := range b.devs {
		// A pending, enabled edge interrupt is taken at once.
		if h.edgeIE && h.edgeIFG && h.onEdge != nil {
			when, dev, kind = b.now, h, eventEdge
			break
		}
		if len(h.stimuli) > 0 && h.stimuli[0].Tick < when {
			when, dev, kind = h.stimuli[0].Tick, h, eventStimulus
		}
		if t, ok := h.nextMatchLocked(); ok && t < when {
			when, dev, kind = t, h, eventCompare
		}
	}
	if kind == eventNone {
		b.mu.Unlock()
		return false
	}
	if when > b.now {
		b.now = when
	}

	var handler func()
	switch kind {
	case eventEdge:
		dev.edgeCalls++
		handler = dev.onEdge
		glog.V(3).Infof("%s: edge irq @%d", dev.name, b.now)
	case eventStimulus:
		s := dev.stimuli[0]
		dev.stimuli = dev.stimuli[1:]
		dev.setRXLocked(s.Level)
	case eventCompare:
		dev.matchLocked()
		if dev.ccie && dev.onTimer != nil {
			dev.timerCalls++
			handler = dev.onTimer
		}
	}
	b.mu.Unlock()

	// Handlers run outside the lock so they can use the Hardware methods.
	if handler != nil {
		handler()
	}
	return true
}

// Drain steps until no event is left or limit steps have been taken, and
// returns the number of steps.
func (b *Bench) Drain(limit int) int {
	n := 0
	for n < limit && b.Step() {
		n++
	}
	return n
}

// Run steps the bench until ctx is done, sleeping while nothing is
// scheduled. Hardware calls from other goroutines wake it.
func (b *Bench) Run(ctx context.Context) error {
	for {
		if b.Step() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			continue
		}
		select {
		case <-b.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *Bench) kick() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}
