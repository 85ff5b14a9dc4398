package cpi

const (
	// BaseAddr is the physical address of the CPI register window
	BaseAddr uint64 = 0x10020000
	// WindowSize is the number of bytes spanned by the register window
	WindowSize int = 0x2C
)

// CPI register offsets from BaseAddr
const (
	// Interface control
	INTERFACE_SETUP  uint32 = 0x00
	INTERFACE_STATUS uint32 = 0x04

	// Sensor clock divider
	XCLK_PRESCALER uint32 = 0x08

	// SCCB configuration write, (sensor_register << 8) | value
	SCCB_DATA uint32 = 0x0C

	// Write 1 to arm a one-shot capture
	CAPTURE uint32 = 0x10

	// Resolution of the last captured frame
	RETURN_IMAGE_WIDTH  uint32 = 0x14
	RETURN_IMAGE_HEIGHT uint32 = 0x18

	// Pixel readout, every read advances the frame buffer
	PIXEL      uint32 = 0x1C
	PIXEL_ADDR uint32 = 0x20

	// SCCB bus clock divider halves
	I2C_PRESCALER_LOW  uint32 = 0x24
	I2C_PRESCALER_HIGH uint32 = 0x28
)

// INTERFACE_SETUP bits
const (
	ACTIVATE_XCLK uint8 = 0x01
	I2C_CORE_ENA  uint8 = 0x02
	VIDEO_MODE    uint8 = 0x04
	// RGB888 configures the hardware to pack RGB888 pixels
	RGB888 uint8 = 0x08
)

// RegisterFile gives raw access to the CPI register window. Offsets are
// relative to the window base. Accesses never fail; an offset outside the
// register map is a programming error.
type RegisterFile interface {
	Read8(offset uint32) uint8
	Read16(offset uint32) uint16
	Write8(offset uint32, value uint8)
	Write16(offset uint32, value uint16)
}

// readReg reads an 8-bit register
func (d *Device) readReg(reg uint32) uint8 {
	return d.regs.Read8(reg)
}

// readReg16Bit reads a 16-bit register
func (d *Device) readReg16Bit(reg uint32) uint16 {
	return d.regs.Read16(reg)
}

// writeReg writes an 8-bit value to the register
func (d *Device) writeReg(reg uint32, value uint8) {
	d.regs.Write8(reg, value)
}

// writeReg16Bit writes a 16-bit value to the register
func (d *Device) writeReg16Bit(reg uint32, value uint16) {
	d.regs.Write16(reg, value)
}

// Setup returns the current value of the interface setup register
func (d *Device) Setup() uint8 {
	return d.readReg(INTERFACE_SETUP)
}
