package main

import (
	"context"

	"github.com/golang/glog"

	"github.com/jangala-dev/tinygo-softuart/softuart"
	"github.com/jangala-dev/tinygo-softuart/softuart/sim"
)

type device struct {
	d  *softuart.Driver
	hw *sim.Hardware
}

func (c *Context) newDevice(b *sim.Bench, name string, rx bool) (*device, error) {
	hw := b.NewHardware(name)
	cfg := c.cfg
	cfg.RX = rx
	d, err := softuart.New(hw, cfg)
	if err != nil {
		return nil, err
	}
	d.Initialize()
	return &device{d: d, hw: hw}, nil
}

// start runs the bench until the returned stop function is called.
func start(b *sim.Bench) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := b.Run(ctx); err != nil && err != context.Canceled {
			glog.Errorf("bench: %v", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
