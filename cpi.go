// Package cpi is a polling driver for a parallel camera interface (CPI)
// peripheral that clocks an OV7670 image sensor, writes its configuration
// over SCCB and captures frames into a buffer read out one pixel at a time.
//
// Every state change of the peripheral is visible only through the interface
// status register, so each step of the driver waits on a fresh read of it.
package cpi

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Device represents one CPI peripheral instance
type Device struct {
	// regs is the register window of the interface
	regs RegisterFile
	cfg  Config

	clock        clock.Clock
	ioTimeout    time.Duration
	pollInterval time.Duration
	didTimeout   bool
	timeoutStart time.Time

	state  State
	stream *PixelStream

	// log logger for debugging
	log golog.Logger
}

// New returns a device driving the given register window. The interface is
// not touched until Initialize is called.
func New(regs RegisterFile, cfg Config) (*Device, error) {
	return NewWithLog(regs, cfg, zap.NewNop().Sugar())
}

// NewWithLog returns a device that reports its register traffic to logger
func NewWithLog(regs RegisterFile, cfg Config, logger golog.Logger) (*Device, error) {

	d, err := new(regs, cfg)

	if err != nil {
		return nil, err
	}

	// set logger
	d.log = logger

	return d, nil
}

// new returns a new Device instance
func new(regs RegisterFile, cfg Config) (*Device, error) {

	if regs == nil {
		return nil, errors.New("register file is nil")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	d := &Device{
		regs:         regs,
		cfg:          cfg,
		clock:        clock.New(),
		ioTimeout:    time.Duration(cfg.Timeout),
		pollInterval: time.Duration(cfg.PollInterval),
		state:        Idle,
	}

	return d, nil
}

// SetClock replaces the time source used by wait timeouts
func (d *Device) SetClock(c clock.Clock) {
	d.clock = c
}

// Config returns the configuration the device was created with
func (d *Device) Config() Config {
	return d.cfg
}
