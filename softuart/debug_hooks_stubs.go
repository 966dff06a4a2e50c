//go:build !softuartdebug

package softuart

func (d *Driver) dbgEdge()          {}
func (d *Driver) dbgTimer()         {}
func (d *Driver) dbgForeignVector() {}
func (d *Driver) dbgTxByte()        {}
func (d *Driver) dbgRxByte()        {}
func (d *Driver) dbgFramingError()  {}
func (d *Driver) dbgNotify(bool)    {}
func (d *Driver) dbgWait()          {}
func (d *Driver) dbgSpuriousWake()  {}
func (d *Driver) dbgTimeout()       {}
