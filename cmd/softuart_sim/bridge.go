package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"

	"github.com/jangala-dev/tinygo-softuart/softuart/sim"
)

type BridgeCmd struct {
	Port     string `optional help:"Serial port to bridge, e.g. /dev/ttyUSB0."`
	PortBaud int    `optional help:"Serial port rate." default:"115200"`
	List     bool   `optional help:"List serial ports and exit."`
}

func (l *BridgeCmd) Run(c *Context) error {
	if l.List {
		ports, err := serial.GetPortsList()
		if err != nil {
			return err
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return nil
	}

	if l.Port == "" {
		return errors.New("--port is required")
	}

	port, err := serial.Open(l.Port, &serial.Mode{BaudRate: l.PortBaud})
	if err != nil {
		return fmt.Errorf("open %s: %w", l.Port, err)
	}
	defer port.Close()
	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		return err
	}

	b := sim.NewBench()
	tx, err := c.newDevice(b, "a", false)
	if err != nil {
		return err
	}
	rx, err := c.newDevice(b, "b", true)
	if err != nil {
		return err
	}
	b.Wire(tx.hw, rx.hw)
	defer tx.d.Close()
	defer rx.d.Close()
	stop := start(b)
	defer stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	glog.Infof("bridging %s at %d baud through a %d baud soft line", l.Port, l.PortBaud, c.cfg.BaudRate)

	buf := make([]byte, 64)
	total := 0
	for ctx.Err() == nil {
		n, err := port.Read(buf)
		if err != nil {
			return err
		}
		for _, ch := range buf[:n] {
			if err := tx.d.SendByteContext(ctx, ch); err != nil {
				return nil
			}
			r, err := rx.d.ReceiveByteContext(ctx)
			if err != nil {
				return nil
			}
			if _, err := port.Write([]byte{r}); err != nil {
				return err
			}
			total++
		}
		if n > 0 {
			glog.V(1).Infof("%d bytes bridged", total)
		}
	}
	glog.Infof("stopped after %d bytes", total)
	return nil
}
