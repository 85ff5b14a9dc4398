package cpi_test

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"go.viam.com/test"

	cpi "github.com/DucVu20/CameraInterface"
	"github.com/DucVu20/CameraInterface/sim"
)

// newDevice returns a device on a fresh model, not yet initialized
func newDevice(t *testing.T) (*cpi.Device, *sim.Model) {
	t.Helper()

	m := sim.NewModel()
	d, err := cpi.NewWithLog(m, cpi.DefaultConfig(), golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	return d, m
}

// newReadyDevice returns a device on a model that went through bring-up
func newReadyDevice(t *testing.T) (*cpi.Device, *sim.Model) {
	t.Helper()

	d, m := newDevice(t)
	d.Initialize()

	return d, m
}

// bound makes every wait of d give up after timeout, with hardware time
// advancing one millisecond per status read
func bound(d *cpi.Device, m *sim.Model, timeout time.Duration) *clock.Mock {

	mock := clock.NewMock()
	m.OnStatusRead = func() { mock.Add(time.Millisecond) }

	d.SetClock(mock)
	d.SetTimeout(timeout)

	return mock
}
