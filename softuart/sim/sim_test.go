package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jangala-dev/tinygo-softuart/softuart"
)

func TestCounterFreezesWhileStopped(t *testing.T) {
	b := NewBench()
	h := b.NewHardware("t")

	b.Advance(50)
	require.Equal(t, uint16(0), h.Counter())

	h.StartTimer()
	b.Advance(30)
	require.Equal(t, uint16(30), h.Counter())

	h.StopTimer()
	b.Advance(1000)
	require.Equal(t, uint16(30), h.Counter())

	h.StartTimer()
	h.StartTimer() // no restart
	b.Advance(5)
	require.Equal(t, uint16(35), h.Counter())
}

func TestCompareMatchAppliesOutputMode(t *testing.T) {
	b := NewBench()
	h := b.NewHardware("t")
	h.ConfigureTX()

	var calls []uint64
	h.BindTimer(func() {
		calls = append(calls, b.Now())
		h.SetCompare(h.Compare() + 10)
		if len(calls) == 2 {
			h.DisableCompareInterrupt()
		}
	})

	h.StartTimer()
	h.SetCompare(h.Counter() + 10)
	h.SetCompareControl(softuart.OutputReset, true, true)
	require.True(t, h.TX(), "reset mode waits for a match")

	require.True(t, b.Step())
	require.False(t, h.TX())
	h.SetOutputMode(softuart.OutputSet)
	require.True(t, b.Step())
	require.True(t, h.TX())
	require.False(t, b.Step(), "no events once the interrupt is off")

	require.Equal(t, []uint64{10, 20}, calls)
}

func TestCompareWrapsAround(t *testing.T) {
	b := NewBench()
	h := b.NewHardware("t")
	h.BindTimer(func() {})

	h.StartTimer()
	b.Advance(0xFFF0)
	h.SetCompare(h.Counter() + 0x20) // wraps past zero
	h.SetCompareControl(softuart.OutputBit, true, true)

	before := b.Now()
	require.True(t, b.Step())
	require.Equal(t, before+0x20, b.Now())
	require.Equal(t, uint16(0x10), h.Counter())
}

func TestWirePropagatesEdges(t *testing.T) {
	b := NewBench()
	a := b.NewHardware("a")
	c := b.NewHardware("c")
	a.ConfigureTX()
	c.ConfigureRX()
	b.Wire(a, c)

	edges := 0
	c.BindEdge(func() {
		edges++
		c.ClearEdgeFlag()
	})

	require.True(t, c.ReadRX())
	a.SetCompareControl(softuart.OutputBit, false, false)
	require.False(t, c.ReadRX())
	require.True(t, c.Snapshot().EdgePending)

	require.True(t, b.Step())
	require.Equal(t, 1, edges)
	require.False(t, b.Step())

	// Rising edges do not interrupt.
	a.SetCompareControl(softuart.OutputBit, true, false)
	require.False(t, b.Step())
}

func TestEdgeMaskedUntilEnabled(t *testing.T) {
	b := NewBench()
	h := b.NewHardware("rx")
	h.ConfigureRX()
	h.SetEdgeInterrupt(false)

	edges := 0
	h.BindEdge(func() {
		edges++
		h.ClearEdgeFlag()
	})
	h.Inject(10, false)
	b.Drain(10)
	require.Equal(t, 0, edges)
	require.True(t, h.Snapshot().EdgePending)

	h.SetEdgeInterrupt(true)
	b.Drain(10)
	require.Equal(t, 1, edges)
}

func TestInjectFrameLevels(t *testing.T) {
	b := NewBench()
	h := b.NewHardware("rx")
	end := h.InjectByte(100, 10, 0x41)
	require.Equal(t, uint64(200), end)

	var levels []bool
	for i := 0; i < 10; i++ {
		for b.Now() < uint64(100+i*10) && b.Step() {
		}
		levels = append(levels, h.ReadRX())
	}
	require.Equal(t, []bool{false, true, false, false, false, false, false, true, false, true}, levels)
}

func TestCompareVectorReadClears(t *testing.T) {
	b := NewBench()
	h := b.NewHardware("t")
	seen := []bool{}
	h.BindTimer(func() {
		seen = append(seen, h.CompareVector(), h.CompareVector())
		h.DisableCompareInterrupt()
	})
	h.StartTimer()
	h.SetCompare(5)
	h.SetCompareControl(softuart.OutputBit, true, true)
	b.Drain(10)
	require.Equal(t, []bool{true, false}, seen)

	h.RaiseForeignVector()
	require.Equal(t, []bool{true, false, false, false}, seen)
}

func TestRunWakesOnHardwareCalls(t *testing.T) {
	b := NewBench()
	h := b.NewHardware("t")
	fired := make(chan struct{}, 1)
	h.BindTimer(func() {
		h.DisableCompareInterrupt()
		fired <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	h.StartTimer()
	h.SetCompare(h.Counter() + 100)
	h.SetCompareControl(softuart.OutputBit, true, true)

	select {
	case <-fired:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting for the timer handler")
	}
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
