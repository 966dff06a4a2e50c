//go:build !softuartdebug

package softuart

type debugState struct{}

type Stats struct{}

func (d *Driver) DebugReset()       {}
func (d *Driver) DebugStats() Stats { return Stats{} }
