package cpi

import (
	"time"

	"github.com/pkg/errors"
)

// ErrTimedOut is returned by a wait that gave up after the configured timeout
var ErrTimedOut = errors.New("timed out")

// SetTimeout sets the bound on every status wait. Zero waits forever, which
// is how the hardware is specified to be driven.
func (d *Device) SetTimeout(timeout time.Duration) {
	d.ioTimeout = timeout
}

// Timeout returns the current wait bound
func (d *Device) Timeout() time.Duration {
	return d.ioTimeout
}

// SetPollInterval sets a pause between status reads while waiting. Zero spins.
func (d *Device) SetPollInterval(interval time.Duration) {
	d.pollInterval = interval
}

// TimeoutOccurred reports whether a timeout has occurred
func (d *Device) TimeoutOccurred() bool {
	tmp := d.didTimeout
	d.didTimeout = false
	return tmp
}

// startTimeout starts the timeout counter
func (d *Device) startTimeout() {
	d.timeoutStart = d.clock.Now()
}

// checkTimeoutExpired checks if timeout has expired
func (d *Device) checkTimeoutExpired() bool {
	return (d.ioTimeout > 0) && (d.clock.Since(d.timeoutStart) > d.ioTimeout)
}

// poll re-reads the status register until cond holds. The condition is always
// evaluated on a fresh read.
func (d *Device) poll(what string, cond func(InterfaceStatus) bool) error {

	d.startTimeout()

	for {
		if cond(Decode(d.readReg(INTERFACE_STATUS))) {
			return nil
		}

		if d.checkTimeoutExpired() {
			d.didTimeout = true
			d.log.Warnw("wait timed out", "waiting_for", what, "timeout", d.ioTimeout)
			return errors.Wrapf(ErrTimedOut, "waiting for %s", what)
		}

		if d.pollInterval > 0 {
			d.clock.Sleep(d.pollInterval)
		}
	}
}
