//go:build softuartdebug

package softuart_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jangala-dev/tinygo-softuart/softuart"
	"github.com/jangala-dev/tinygo-softuart/softuart/sim"
)

func TestDebugStatsCountsFrames(t *testing.T) {
	b := sim.NewBench()
	d, hw := newTestDriver(t, b, "rx", true)

	end := hw.InjectByte(1000, bitTime, 'A')
	end = hw.InjectFrame(end+bitTime, bitTime, softuart.EncodeFrame('B')&^(1<<9))
	hw.InjectByte(end+4*bitTime, bitTime, 'C')
	b.Drain(200)

	s := d.DebugStats()
	require.Equal(t, uint32(3), s.Edges)
	require.Equal(t, uint32(30), s.TimerCalls)
	require.Equal(t, uint32(2), s.RxBytes)
	require.Equal(t, uint32(1), s.FramingErrors)

	d.DebugReset()
	require.Equal(t, softuart.Stats{}, d.DebugStats())
}
