package cpi_test

import (
	"testing"

	"go.viam.com/test"

	cpi "github.com/DucVu20/CameraInterface"
	"github.com/DucVu20/CameraInterface/sim"
)

var allRegisters = []uint32{
	cpi.INTERFACE_SETUP,
	cpi.INTERFACE_STATUS,
	cpi.XCLK_PRESCALER,
	cpi.SCCB_DATA,
	cpi.CAPTURE,
	cpi.RETURN_IMAGE_WIDTH,
	cpi.RETURN_IMAGE_HEIGHT,
	cpi.PIXEL,
	cpi.PIXEL_ADDR,
	cpi.I2C_PRESCALER_LOW,
	cpi.I2C_PRESCALER_HIGH,
}

func TestRegisterMap(t *testing.T) {
	for i, reg := range allRegisters {
		test.That(t, reg, test.ShouldEqual, uint32(i*4))
		test.That(t, int(reg), test.ShouldBeLessThan, cpi.WindowSize)
	}
	test.That(t, cpi.BaseAddr, test.ShouldEqual, uint64(0x10020000))
}

func TestMemoryRoundTrip(t *testing.T) {
	m := sim.NewMemory()

	t.Run("8 bit", func(t *testing.T) {
		for _, reg := range allRegisters {
			for _, v := range []uint8{0x00, 0x01, 0x5A, 0xA5, 0xFF} {
				m.Write8(reg, v)
				test.That(t, m.Read8(reg), test.ShouldEqual, v)
			}
		}
	})

	t.Run("16 bit", func(t *testing.T) {
		for _, reg := range allRegisters {
			for _, v := range []uint16{0x0000, 0x1280, 0x8001, 0xFFFF} {
				m.Write16(reg, v)
				test.That(t, m.Read16(reg), test.ShouldEqual, v)
			}
		}
	})

	t.Run("registers are independent", func(t *testing.T) {
		m := sim.NewMemory()
		m.Write8(cpi.I2C_PRESCALER_LOW, 49)
		m.Write8(cpi.I2C_PRESCALER_HIGH, 0)
		test.That(t, m.Read8(cpi.I2C_PRESCALER_LOW), test.ShouldEqual, uint8(49))
		test.That(t, m.Read8(cpi.XCLK_PRESCALER), test.ShouldEqual, uint8(0))
	})
}

func TestModelPlainRegisters(t *testing.T) {
	m := sim.NewModel()

	for _, reg := range []uint32{cpi.XCLK_PRESCALER, cpi.I2C_PRESCALER_LOW, cpi.I2C_PRESCALER_HIGH, cpi.PIXEL_ADDR} {
		m.Write8(reg, 0x31)
		test.That(t, m.Read8(reg), test.ShouldEqual, uint8(0x31))
	}

	// status is driven by the hardware, writes do not stick
	m.Write8(cpi.INTERFACE_STATUS, 0xFF)
	test.That(t, m.Read8(cpi.INTERFACE_STATUS), test.ShouldEqual, uint8(0))
}
