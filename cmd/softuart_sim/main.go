// softuart_sim drives soft UART instances on a simulated timer bench.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/golang/glog"

	"github.com/jangala-dev/tinygo-softuart/softuart"
)

type Context struct {
	cfg softuart.Config
}

var CLI struct {
	Clock   uint32 `optional help:"Timer clock in Hz." default:"8000000" env:"SOFTUART_CLOCK"`
	Baud    uint32 `optional help:"Line rate in bits per second." default:"115200" env:"SOFTUART_BAUD"`
	Verbose int    `short:"v" type:"counter" help:"Log more (-v bytes, -vv pin transitions, -vvv compare events)."`

	Send     SendCmd     `cmd help:"Transmit text on a simulated line and draw the waveform."`
	Loopback LoopbackCmd `cmd help:"Send text from one simulated UART to another and compare."`
	Bridge   BridgeCmd   `cmd help:"Pass bytes from a serial port through a simulated line and back."`
}

func main() {
	k, err := kong.New(&CLI,
		kong.Name("softuart_sim"),
		kong.Description("Soft UART simulator."))
	if err != nil {
		fmt.Println(err)
		return
	}

	ctx, err := k.Parse(os.Args[1:])
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	// glog reads its settings from the standard flag set.
	_ = flag.CommandLine.Parse(nil)
	_ = flag.Set("logtostderr", "true")
	_ = flag.Set("v", strconv.Itoa(CLI.Verbose))
	defer glog.Flush()

	c := &Context{cfg: softuart.Config{
		ClockHz:  CLI.Clock,
		BaudRate: CLI.Baud,
	}}
	if err := c.cfg.Validate(); err != nil {
		ctx.FatalIfErrorf(err)
	}
	glog.V(1).Infof("clock=%d baud=%d bit=%d ticks", c.cfg.ClockHz, c.cfg.BaudRate, c.cfg.BitTime())

	err = ctx.Run(c)
	ctx.FatalIfErrorf(err)
}
