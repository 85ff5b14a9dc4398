package cpi

import "fmt"

// Resolution is the frame size the interface reports after a capture
type Resolution struct {
	Width  uint16
	Height uint16
}

// String implement Stringer interface for Resolution
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Pixels returns the number of samples in a frame of this size
func (r Resolution) Pixels() int {
	return int(r.Width) * int(r.Height)
}

// ReadResolution returns the width and height of the last captured frame.
// The registers are only meaningful right after a new frame was reported;
// read at any other time they still hold the previous frame's values.
func (d *Device) ReadResolution() Resolution {

	res := Resolution{
		Width:  d.readReg16Bit(RETURN_IMAGE_WIDTH),
		Height: d.readReg16Bit(RETURN_IMAGE_HEIGHT),
	}

	if d.state != FrameReady {
		d.log.Debugw("resolution read outside of a ready frame", "state", d.state, "resolution", res)
	} else {
		d.log.Debugw("returned image", "width", res.Width, "height", res.Height)
	}

	return res
}
