package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/jangala-dev/tinygo-softuart/softuart"
	"github.com/jangala-dev/tinygo-softuart/softuart/sim"
)

var (
	markColor  = color.New(color.FgGreen)
	spaceColor = color.New(color.FgYellow)
	badColor   = color.New(color.FgRed)
)

// frameString lists the ten line bits of f, start bit first.
func frameString(f uint16) string {
	var sb strings.Builder
	for i, level := range softuart.FrameBits(f) {
		if i == 1 || i == 9 {
			sb.WriteByte(' ')
		}
		if level {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// waveform draws the TX line of hw from tick from for n bit periods, one
// character per bit sampled mid-bit.
func waveform(hw *sim.Hardware, from uint64, bitTime uint16, n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		t := from + uint64(i)*uint64(bitTime) + uint64(bitTime/2)
		if hw.LevelAt(t) {
			sb.WriteString(markColor.Sprint("‾"))
		} else {
			sb.WriteString(spaceColor.Sprint("_"))
		}
	}
	return sb.String()
}

// hexdump prints data 16 bytes per row, marked bytes in red.
func hexdump(data []byte, mark []bool) string {
	var result string
	offset := 0
	for len(data) > 0 {
		l := len(data)
		if l > 16 {
			l = 16
		}
		work := data[:l]
		data = data[l:]
		var workMark []bool
		if mark != nil {
			workMark = mark[:l]
			mark = mark[l:]
		}

		var workHex, workASCII string
		for i := 0; i < 16; i++ {
			if i >= len(work) {
				workHex += "   "
				workASCII += " "
				continue
			}
			m := work[i]
			p := m
			if p < 32 || p > 126 {
				p = '.'
			}
			if workMark != nil && workMark[i] {
				workHex += badColor.Sprintf("%02x ", m)
				workASCII += badColor.Sprintf("%c", p)
			} else {
				workHex += fmt.Sprintf("%02x ", m)
				workASCII += fmt.Sprintf("%c", p)
			}
			if i%8 == 7 {
				workHex += " "
			}
		}
		result += fmt.Sprintf("%04x  %s|%s|\n", offset, workHex, workASCII)
		offset += l
	}
	return result
}

// diff marks the bytes of got that differ from want or run past its end.
func diff(want, got []byte) []bool {
	mark := make([]bool, len(got))
	for i := range got {
		mark[i] = i >= len(want) || want[i] != got[i]
	}
	return mark
}

// lostLine reports the offsets of sent bytes that never arrived.
func lostLine(lost []int, total int) string {
	var sb strings.Builder
	for i, off := range lost {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%04x", off)
	}
	return badColor.Sprintf("%d of %d bytes lost at %s", len(lost), total, sb.String())
}
