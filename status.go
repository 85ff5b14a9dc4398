package cpi

import "strings"

// INTERFACE_STATUS bits
const (
	CAM_CAPTURING         uint8 = 0x01
	NEW_FRAME             uint8 = 0x02
	FRAME_FULL            uint8 = 0x04
	SCCB_READY            uint8 = 0x08
	VIDEO_OR_CAPTURE_MODE uint8 = 0x10
)

// InterfaceStatus is one decoded snapshot of the interface status register.
// The hardware changes the register on its own, so a snapshot is only good
// for the decision it was read for.
type InterfaceStatus struct {
	Raw uint8

	// Capturing is set while the camera is writing a frame
	Capturing bool
	// NewFrame is set once a captured frame is available and stays set until
	// the next capture is triggered
	NewFrame bool
	// FrameNotDrained is set while the frame buffer still holds unread pixels
	FrameNotDrained bool
	// SCCBReady is set when the SCCB core can accept a configuration write
	SCCBReady bool
	// VideoMode is set when the interface streams continuously instead of
	// capturing single frames
	VideoMode bool
}

// Decode maps a raw status register value to its flags
func Decode(raw uint8) InterfaceStatus {
	return InterfaceStatus{
		Raw:             raw,
		Capturing:       raw&CAM_CAPTURING != 0,
		NewFrame:        raw&NEW_FRAME != 0,
		FrameNotDrained: raw&FRAME_FULL != 0,
		SCCBReady:       raw&SCCB_READY != 0,
		VideoMode:       raw&VIDEO_OR_CAPTURE_MODE != 0,
	}
}

// String implement Stringer interface for InterfaceStatus
func (s InterfaceStatus) String() string {

	var b strings.Builder

	if s.Capturing {
		b.WriteString("camera working")
	} else {
		b.WriteString("camera idle")
	}

	if s.NewFrame {
		b.WriteString(", new frame captured")
	}

	if s.FrameNotDrained {
		b.WriteString(", frame not read out")
	} else {
		b.WriteString(", frame read out")
	}

	if s.SCCBReady {
		b.WriteString(", sccb ready")
	} else {
		b.WriteString(", sccb busy")
	}

	if s.VideoMode {
		b.WriteString(", video mode")
	} else {
		b.WriteString(", capture mode")
	}

	return b.String()
}

// Status reads the interface status register and decodes it
func (d *Device) Status() InterfaceStatus {

	st := Decode(d.readReg(INTERFACE_STATUS))
	d.log.Debugw("interface status", "raw", st.Raw, "status", st.String())

	return st
}
