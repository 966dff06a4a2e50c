package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/sigurn/crc16"

	"github.com/jangala-dev/tinygo-softuart/softuart"
	"github.com/jangala-dev/tinygo-softuart/softuart/sim"
)

var crcTab = crc16.MakeTable(crc16.CRC16_XMODEM)

type LoopbackCmd struct {
	Text    string        `arg name:"text" help:"Text to send."`
	Hex     bool          `optional help:"Treat text as a hex string."`
	BadStop bool          `optional help:"Inject a frame with a broken stop bit first."`
	Timeout time.Duration `optional help:"How long to wait for each byte." default:"200ms"`
}

func parsePayload(text string, isHex bool) ([]byte, error) {
	if !isHex {
		return []byte(text), nil
	}
	return hex.DecodeString(text)
}

func (l *LoopbackCmd) Run(c *Context) error {
	data, err := parsePayload(l.Text, l.Hex)
	if err != nil {
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan byte)
	go func() {
		for {
			ch, err := rx.d.ReceiveByteContext(ctx)
			if err != nil {
				return
			}
			select {
			case got <- ch:
			case <-ctx.Done():
				return
			}
		}
	}()

	// The receiver holds one byte; the sender waits for each one to be
	// taken before starting the next.
	next := func() (byte, bool) {
		select {
		case ch := <-got:
			return ch, true
		case <-time.After(l.Timeout):
			return 0, false
		}
	}

	if l.BadStop {
		bt := c.cfg.BitTime()
		f := softuart.EncodeFrame('!') &^ (1 << 9)
		rx.hw.InjectFrame(b.Now()+uint64(bt), bt, f)
		fmt.Printf("injected %s (stop bit low)\n", frameString(f))
		if ch, ok := next(); ok {
			fmt.Println(badColor.Sprintf("  accepted 0x%02x, expected the frame to be dropped", ch))
		} else {
			fmt.Println(markColor.Sprint("  dropped"))
		}
	}

	var recv []byte
	var lost []int
	for i, ch := range data {
		if err := tx.d.SendByteContext(ctx, ch); err != nil {
			return err
		}
		if r, ok := next(); ok {
			recv = append(recv, r)
			glog.V(1).Infof("0x%02x -> 0x%02x", ch, r)
		} else {
			lost = append(lost, i)
			glog.Warningf("0x%02x lost", ch)
		}
	}

	glog.V(1).Infof("receiver stats %+v", rx.d.DebugStats())

	fmt.Print(hexdump(recv, diff(data, recv)))
	if len(lost) > 0 {
		fmt.Println(lostLine(lost, len(data)))
	}
	sent, back := crc16.Checksum(data, crcTab), crc16.Checksum(recv, crcTab)
	fmt.Printf("sent %d bytes crc %04x, received %d bytes crc %04x\n", len(data), sent, len(recv), back)
	if sent != back || len(data) != len(recv) {
		return errors.New("loopback mismatch")
	}
	fmt.Println(markColor.Sprint("OK"))
	return nil
}
