//go:build rp2040

// softuart_selftest runs two soft UARTs against each other on one board.
// Wire GP2 (A.TX) to GP3 (B.RX) before flashing.
package main

import (
	"context"
	"crypto/sha1"
	"time"

	"machine"

	"github.com/jangala-dev/tinygo-softuart/softuart"
)

var (
	baud = uint32(19200)

	aTX = machine.GP2
	bRX = machine.GP3
	bTX = machine.GP4 // unused by the test, a soft UART always owns a TX pin
)

func ledBlink(times int, on time.Duration) {
	for i := 0; i < times; i++ {
		machine.LED.High()
		time.Sleep(on)
		machine.LED.Low()
		time.Sleep(on)
	}
}

func setup(hw *softuart.RP2040, rx bool) *softuart.Driver {
	d, err := softuart.New(hw, softuart.Config{
		ClockHz:  softuart.RP2040TimerHz,
		BaudRate: baud,
		RX:       rx,
	})
	if err != nil {
		println("New failed:", err.Error())
		for {
			ledBlink(1, 500*time.Millisecond)
		}
	}
	d.Initialize()
	return d
}

// exchange sends each byte of src from a and reads it back on b before
// sending the next one.
func exchange(ctx context.Context, a, b *softuart.Driver, src []byte) ([]byte, error) {
	out := make([]byte, 0, len(src))
	for _, c := range src {
		if err := a.SendByteContext(ctx, c); err != nil {
			return out, err
		}
		r, err := b.ReceiveByteContext(ctx)
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, nil
}

func main() {
	// Give the monitor time to attach.
	time.Sleep(3 * time.Second)

	println("softuart self-test starting")
	machine.LED.Configure(machine.PinConfig{Mode: machine.PinOutput})

	softuart.Alarm2.SetPins(aTX, softuart.NoPin)
	softuart.Alarm3.SetPins(bTX, bRX)
	a := setup(softuart.Alarm2, false)
	b := setup(softuart.Alarm3, true)
	println("  bit time =", a.Config().BitTime(), "ticks")

	pass, fail := 0, 0
	defer func() {
		println("\nsummary: passed", pass, "failed", fail)
		for fail > 0 {
			ledBlink(1, 600*time.Millisecond)
		}
		ledBlink(3, 120*time.Millisecond)
	}()

	run := func(name string, f func() string) {
		println("")
		println("[Test]", name)
		if msg := f(); msg == "" {
			println("  PASS")
			pass++
		} else {
			println("  FAIL:", msg)
			fail++
		}
	}

	run("idle: line at mark after Initialize", func() string {
		if !bRX.Get() {
			return "RX reads space; check the GP2-GP3 jumper"
		}
		if b.ByteReady() || b.Receiving() {
			return "receiver not idle"
		}
		return ""
	})

	run("single byte: 'A'", func() string {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		got, err := exchange(ctx, a, b, []byte{'A'})
		if err != nil {
			return "timeout"
		}
		if got[0] != 'A' {
			return "got " + itoa(int(got[0]))
		}
		return ""
	})

	run("round trip: all 256 byte values", func() string {
		src := make([]byte, 256)
		for i := range src {
			src[i] = byte(i)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		got, err := exchange(ctx, a, b, src)
		if err != nil {
			return "timeout after " + itoa(len(got)) + " bytes"
		}
		for i := range src {
			if got[i] != src[i] {
				return "mismatch at " + itoa(i)
			}
		}
		return ""
	})

	run("timeout: ReceiveByteContext with no traffic", func() string {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		if _, err := b.ReceiveByteContext(ctx); err != context.DeadlineExceeded {
			return "expected deadline exceeded"
		}
		return ""
	})

	run("ReadWithTimeout: one byte", func() string {
		go func() { a.SendByte('Z') }()
		var p [4]byte
		n, err := b.ReadWithTimeout(p[:], 500*time.Millisecond)
		if err != nil || n != 1 || p[0] != 'Z' {
			return "wrong read"
		}
		return ""
	})

	run("binary: 1 KiB integrity (SHA-1)", func() string {
		n := 1024
		src := make([]byte, n)
		var x uint32 = 0x12345678
		for i := range src {
			x = 1664525*x + 1013904223
			src[i] = byte(x >> 24)
		}
		want := sha1.Sum(src)

		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		got, err := exchange(ctx, a, b, src)
		if err != nil || len(got) != n {
			return "timeout/short read"
		}
		if sha1.Sum(got) != want {
			return "hash mismatch"
		}

		ms := int(time.Since(start) / time.Millisecond)
		if ms <= 0 {
			ms = 1
		}
		println("  speed =", kbps(n*8, ms), "kbps")
		return ""
	})

}

// --- tiny helpers (no fmt) ---

// itoa formats a non-negative count.
func itoa(n int) string {
	var buf [10]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			return string(buf[i:])
		}
	}
}

// kbps formats bits/ms with two decimals.
func kbps(bits, ms int) string {
	x := (bits*100 + ms/2) / ms
	frac := itoa(x % 100)
	if len(frac) == 1 {
		frac = "0" + frac
	}
	return itoa(x/100) + "." + frac
}
