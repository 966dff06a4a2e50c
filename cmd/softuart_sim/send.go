package main

import (
	"fmt"
	"strconv"

	"github.com/golang/glog"

	"github.com/jangala-dev/tinygo-softuart/softuart"
	"github.com/jangala-dev/tinygo-softuart/softuart/sim"
)

type SendCmd struct {
	Text string `arg name:"text" help:"Text to transmit."`
	Hex  bool   `optional help:"Treat text as a hex string."`
}

func (l *SendCmd) Run(c *Context) error {
	data, err := parsePayload(l.Text, l.Hex)
	if err != nil {
		return err
	}

	b := sim.NewBench()
	tx, err := c.newDevice(b, "tx", false)
	if err != nil {
		return err
	}
	defer tx.d.Close()
	stop := start(b)
	defer stop()

	bt := c.cfg.BitTime()
	begin := b.Now()
	for _, ch := range data {
		// The bench is idle between bytes, so the clock has not moved
		// since the last transfer finished.
		t0 := b.Now()
		tx.d.SendByte(ch)
		glog.V(1).Infof("sent %#02x in %d ticks", ch, b.Now()-t0)

		// Line: one idle bit, the frame, one idle bit.
		fmt.Printf("%-6s 0x%02x  %s  %s\n",
			strconv.QuoteRune(rune(ch)), ch,
			frameString(softuart.EncodeFrame(ch)),
			waveform(tx.hw, t0+uint64(bt), bt, 12))
	}
	fmt.Printf("%d bytes, %d ticks, %d timer interrupts\n", len(data), b.Now()-begin, tx.hw.TimerCalls())
	return nil
}
