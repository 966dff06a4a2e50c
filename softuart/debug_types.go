//go:build softuartdebug

package softuart

import "sync/atomic"

// Stats holds counters since the last reset.
type Stats struct {
	// Handler level
	Edges          uint32 // start edges taken
	TimerCalls     uint32 // compare handler entries for this channel
	ForeignVectors uint32 // shared-vector entries for another channel

	// Frames
	TxBytes       uint32 // bytes fully shifted out
	RxBytes       uint32 // bytes received with valid framing
	FramingErrors uint32 // frames dropped for a bad start or stop bit

	NotifySent    uint32 // notify channel sends that succeeded
	NotifyDropped uint32 // notify channel sends that were dropped (already pending)

	// Blocking API behaviour
	Waits         uint32 // times a blocking call had to wait
	SpuriousWakes uint32 // receive woke without a byte ready
	Timeouts      uint32 // context expiries in blocking calls
}

type debugState struct {
	stats Stats
}

func (d *Driver) DebugReset() {
	d.stats = Stats{}
}

func (d *Driver) DebugStats() Stats {
	return Stats{
		Edges:          atomic.LoadUint32(&d.stats.Edges),
		TimerCalls:     atomic.LoadUint32(&d.stats.TimerCalls),
		ForeignVectors: atomic.LoadUint32(&d.stats.ForeignVectors),

		TxBytes:       atomic.LoadUint32(&d.stats.TxBytes),
		RxBytes:       atomic.LoadUint32(&d.stats.RxBytes),
		FramingErrors: atomic.LoadUint32(&d.stats.FramingErrors),

		NotifySent:    atomic.LoadUint32(&d.stats.NotifySent),
		NotifyDropped: atomic.LoadUint32(&d.stats.NotifyDropped),

		Waits:         atomic.LoadUint32(&d.stats.Waits),
		SpuriousWakes: atomic.LoadUint32(&d.stats.SpuriousWakes),
		Timeouts:      atomic.LoadUint32(&d.stats.Timeouts),
	}
}
