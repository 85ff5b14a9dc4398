package cpi

import (
	"image"

	"github.com/pkg/errors"
)

// State is the position of the device in the capture cycle
type State int

const (
	// Idle means no capture is pending
	Idle State = iota
	// Triggered means a capture was armed and the frame is not ready yet
	Triggered
	// FrameReady means a new frame was reported and the resolution is valid
	FrameReady
	// Draining means pixels of the current frame are being read out
	Draining
)

// String implement Stringer interface for State
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Triggered:
		return "triggered"
	case FrameReady:
		return "frame ready"
	case Draining:
		return "draining"
	default:
		return "unknown state"
	}
}

// State returns where the device is in the capture cycle
func (d *Device) State() State {
	return d.state
}

// TriggerCapture arms a one-shot capture. It does not wait.
func (d *Device) TriggerCapture() {

	d.writeReg(CAPTURE, 1)

	// a new capture starts a new frame, the old stream is finished
	if d.stream != nil {
		d.stream.done = true
		d.stream = nil
	}
	d.state = Triggered

	d.log.Debug("generated a capture signal")
}

// WaitCapturing blocks until the interface reports the camera is writing a
// frame
func (d *Device) WaitCapturing() error {
	return d.poll("camera capturing", func(s InterfaceStatus) bool {
		return s.Capturing
	})
}

// WaitFrame blocks until the interface reports a new frame
func (d *Device) WaitFrame() error {

	if err := d.poll("new frame", func(s InterfaceStatus) bool {
		return s.NewFrame
	}); err != nil {
		return err
	}

	d.state = FrameReady
	d.log.Debug("new frame")

	return nil
}

// Capture triggers a capture, waits for the frame and returns its resolution
func (d *Device) Capture() (Resolution, error) {

	d.TriggerCapture()

	if err := d.WaitFrame(); err != nil {
		return Resolution{}, err
	}

	return d.ReadResolution(), nil
}

// Settle captures and discards frames after a format change. The sensor needs
// several frames before it reports the new size, so only the resolution of
// the last of the n frames is returned. n of zero captures a single frame.
func (d *Device) Settle(n int) (Resolution, error) {

	if n < 1 {
		n = 1
	}

	var res Resolution

	for i := 0; i < n; i++ {
		r, err := d.Capture()

		if err != nil {
			return Resolution{}, errors.Wrapf(err, "settle frame %d", i)
		}

		d.log.Debugw("settle frame", "frame", i, "resolution", r)
		res = r
	}

	return res, nil
}

// ReadFrame captures one frame and drains it into a Gray16 image holding the
// raw 16-bit samples in readout order.
func (d *Device) ReadFrame() (*image.Gray16, error) {

	res, err := d.Capture()

	if err != nil {
		return nil, err
	}

	if res.Pixels() == 0 {
		return nil, errors.Errorf("frame has no pixels (%s)", res)
	}

	img := image.NewGray16(image.Rect(0, 0, int(res.Width), int(res.Height)))
	want := res.Pixels()
	n := 0

	for px := range d.Pixels().All() {
		if n < want {
			img.Pix[2*n] = byte(px >> 8)
			img.Pix[2*n+1] = byte(px)
		}
		n++
	}

	if n < want {
		return nil, errors.Errorf("short frame: read %d of %d samples for %s", n, want, res)
	}

	if n > want {
		d.log.Warnw("frame buffer held more samples than the resolution", "samples", n, "resolution", res)
	}

	return img, nil
}
