package sim

import (
	cpi "github.com/DucVu20/CameraInterface"
)

const (
	// DefaultSCCBLatency is how many status reads an SCCB write keeps the
	// core busy
	DefaultSCCBLatency = 3
	// DefaultCaptureLatency is how many status reads a capture stays in
	// progress
	DefaultCaptureLatency = 4
	// DefaultSettleFrames is how many captures still report the old size
	// after a format change
	DefaultSettleFrames = 2
)

// Write is one register write seen by the model
type Write struct {
	Offset uint32
	Width  int
	Value  uint16
	// StatusReads is the number of status reads that preceded the write
	StatusReads int
}

// Model simulates the CPI peripheral with an OV7670 attached. Hardware time
// advances on every status register read, so a driver polling the model sees
// the same sequence of states on every run.
type Model struct {
	SCCBLatency    int
	CaptureLatency int
	SettleFrames   int

	// OnStatusRead runs before every status register read
	OnStatusRead func()

	mem *Memory

	sccbBusy   int
	violations int
	sensor     [256]uint8

	current    cpi.Resolution
	pending    cpi.Resolution
	hasPending bool
	settleLeft int

	captureLeft int
	capturing   bool
	newFrame    bool
	notDrained  bool

	width, height uint16
	frameLen      int
	pos           int
	pixels        []uint16
	override      *frameOverride

	writes      []Write
	statusReads int
	captures    int
}

type frameOverride struct {
	width, height uint16
	pixels        []uint16
}

// NewModel returns a model with the interface disabled and the sensor in its
// reset state (VGA, YUV)
func NewModel() *Model {
	return &Model{
		SCCBLatency:    DefaultSCCBLatency,
		CaptureLatency: DefaultCaptureLatency,
		SettleFrames:   DefaultSettleFrames,
		mem:            NewMemory(),
		current:        cpi.VGA.Resolution(),
	}
}

// SetFrame makes every following capture report width x height and read out
// exactly the given samples, whatever the sensor format
func (m *Model) SetFrame(width, height uint16, pixels []uint16) {
	m.override = &frameOverride{
		width:  width,
		height: height,
		pixels: append([]uint16(nil), pixels...),
	}
}

// ClearFrame returns to frames generated from the sensor format
func (m *Model) ClearFrame() {
	m.override = nil
}

// HoldSCCB keeps the SCCB core busy for the next n status reads
func (m *Model) HoldSCCB(n int) {
	m.sccbBusy = n
}

// Read8 implements cpi.RegisterFile
func (m *Model) Read8(offset uint32) uint8 {

	if offset == cpi.INTERFACE_STATUS {
		return m.readStatus()
	}

	return uint8(m.Read16(offset))
}

// Read16 implements cpi.RegisterFile
func (m *Model) Read16(offset uint32) uint16 {

	switch offset {
	case cpi.INTERFACE_STATUS:
		return uint16(m.readStatus())
	case cpi.RETURN_IMAGE_WIDTH:
		return m.width
	case cpi.RETURN_IMAGE_HEIGHT:
		return m.height
	case cpi.PIXEL:
		return m.readPixel()
	default:
		return m.mem.Read16(offset)
	}
}

// Write8 implements cpi.RegisterFile
func (m *Model) Write8(offset uint32, value uint8) {
	m.write(offset, 8, uint16(value))
}

// Write16 implements cpi.RegisterFile
func (m *Model) Write16(offset uint32, value uint16) {
	m.write(offset, 16, value)
}

func (m *Model) write(offset uint32, width int, value uint16) {

	m.writes = append(m.writes, Write{
		Offset:      offset,
		Width:       width,
		Value:       value,
		StatusReads: m.statusReads,
	})

	switch offset {
	case cpi.INTERFACE_STATUS, cpi.RETURN_IMAGE_WIDTH, cpi.RETURN_IMAGE_HEIGHT, cpi.PIXEL:
		// read only
	case cpi.SCCB_DATA:
		m.sccbWrite(value)
	case cpi.CAPTURE:
		if value&0x01 != 0 {
			m.trigger()
		}
	default:
		m.mem.Write16(offset, value)
	}
}

func (m *Model) setup() uint8 {
	return m.mem.Read8(cpi.INTERFACE_SETUP)
}

func (m *Model) sccbEnabled() bool {
	want := cpi.ACTIVATE_XCLK | cpi.I2C_CORE_ENA
	return m.setup()&want == want
}

func (m *Model) sccbReady() bool {
	return m.sccbEnabled() && m.sccbBusy == 0
}

// readStatus returns the status snapshot and then lets hardware time pass
func (m *Model) readStatus() uint8 {

	if m.OnStatusRead != nil {
		m.OnStatusRead()
	}

	m.statusReads++

	var raw uint8

	if m.capturing {
		raw |= cpi.CAM_CAPTURING
	}

	if m.newFrame {
		raw |= cpi.NEW_FRAME
	}

	if m.notDrained {
		raw |= cpi.FRAME_FULL
	}

	if m.sccbReady() {
		raw |= cpi.SCCB_READY
	}

	if m.setup()&cpi.VIDEO_MODE != 0 {
		raw |= cpi.VIDEO_OR_CAPTURE_MODE
	}

	m.tick()

	return raw
}

func (m *Model) tick() {

	if m.sccbBusy > 0 {
		m.sccbBusy--
	}

	if m.capturing {
		m.captureLeft--

		if m.captureLeft <= 0 {
			m.finishCapture()
		}
	}
}

func (m *Model) sccbWrite(value uint16) {

	if !m.sccbReady() {
		m.violations++
		return
	}

	reg, val := uint8(value>>8), uint8(value)
	m.sccbBusy = m.SCCBLatency

	if reg == cpi.REG_COM7 && val&cpi.COM7_RESET != 0 {
		m.sensor = [256]uint8{}
		m.setFormat(cpi.VGA)
		return
	}

	m.sensor[reg] = val

	if reg == cpi.REG_COM7 {
		f, err := cpi.FormatFromCOM7(val)

		if err != nil {
			f = cpi.VGA
		}

		m.setFormat(f)
	}
}

func (m *Model) setFormat(f cpi.Format) {

	res := f.Resolution()

	if res == m.current && !m.hasPending {
		return
	}

	m.pending = res
	m.hasPending = true
	m.settleLeft = m.SettleFrames
}

func (m *Model) trigger() {

	// the sensor needs XCLK to produce a frame
	if m.setup()&cpi.ACTIVATE_XCLK == 0 {
		return
	}

	m.captures++
	m.newFrame = false
	m.notDrained = false
	m.capturing = true
	m.captureLeft = m.CaptureLatency

	if m.captureLeft <= 0 {
		m.finishCapture()
	}
}

func (m *Model) finishCapture() {

	m.capturing = false

	if m.hasPending {
		if m.settleLeft > 0 {
			m.settleLeft--
		} else {
			m.current = m.pending
			m.hasPending = false
		}
	}

	if m.override != nil {
		m.width, m.height = m.override.width, m.override.height
		m.pixels = m.override.pixels
		m.frameLen = len(m.pixels)
	} else {
		m.width, m.height = m.current.Width, m.current.Height
		m.pixels = nil
		m.frameLen = m.current.Pixels()
	}

	m.pos = 0
	m.newFrame = true
	m.notDrained = m.frameLen > 0
}

func (m *Model) readPixel() uint16 {

	if !m.notDrained {
		return 0
	}

	var px uint16

	if m.pixels != nil {
		px = m.pixels[m.pos]
	} else {
		px = Pattern(m.pos, m.width)
	}

	m.pos++

	if m.pos >= m.frameLen {
		m.notDrained = false
	}

	return px
}

// Pattern is the sample the model returns at index i of a generated frame:
// a diagonal luma ramp in the low byte, the sample row in the high byte
func Pattern(i int, width uint16) uint16 {

	if width == 0 {
		return 0
	}

	x, y := i%int(width), i/int(width)

	return uint16(y&0xFF)<<8 | uint16((x+y)&0xFF)
}

// Writes returns every write the model has seen, in order
func (m *Model) Writes() []Write {
	return append([]Write(nil), m.writes...)
}

// WritesTo returns the writes to one register
func (m *Model) WritesTo(offset uint32) []Write {

	var out []Write

	for _, w := range m.writes {
		if w.Offset == offset {
			out = append(out, w)
		}
	}

	return out
}

// Violations returns the number of SCCB writes issued while the core was not
// ready. The model drops them.
func (m *Model) Violations() int {
	return m.violations
}

// Sensor returns the latched value of an OV7670 register
func (m *Model) Sensor(reg uint8) uint8 {
	return m.sensor[reg]
}

// Captures returns the number of accepted capture triggers
func (m *Model) Captures() int {
	return m.captures
}

// StatusReads returns the number of status register reads
func (m *Model) StatusReads() int {
	return m.statusReads
}

// Remaining returns the number of samples left in the frame buffer
func (m *Model) Remaining() int {

	if !m.notDrained {
		return 0
	}

	return m.frameLen - m.pos
}
