//go:build softuartdebug

package softuart

import "sync/atomic"

// Handler entry points.
func (d *Driver) dbgEdge()          { atomic.AddUint32(&d.stats.Edges, 1) }
func (d *Driver) dbgTimer()         { atomic.AddUint32(&d.stats.TimerCalls, 1) }
func (d *Driver) dbgForeignVector() { atomic.AddUint32(&d.stats.ForeignVectors, 1) }

// Frame outcomes.
func (d *Driver) dbgTxByte()       { atomic.AddUint32(&d.stats.TxBytes, 1) }
func (d *Driver) dbgRxByte()       { atomic.AddUint32(&d.stats.RxBytes, 1) }
func (d *Driver) dbgFramingError() { atomic.AddUint32(&d.stats.FramingErrors, 1) }

func (d *Driver) dbgNotify(sent bool) {
	if sent {
		atomic.AddUint32(&d.stats.NotifySent, 1)
	} else {
		atomic.AddUint32(&d.stats.NotifyDropped, 1)
	}
}

func (d *Driver) dbgWait() {
	atomic.AddUint32(&d.stats.Waits, 1)
}
func (d *Driver) dbgSpuriousWake() {
	atomic.AddUint32(&d.stats.SpuriousWakes, 1)
}
func (d *Driver) dbgTimeout() {
	atomic.AddUint32(&d.stats.Timeouts, 1)
}
