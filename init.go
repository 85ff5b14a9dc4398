package cpi

// I2CPrescaler returns the SCCB core divider for the wanted SIOC frequency,
// sysHz / (5 * sclHz) - 1. The result is split over I2C_PRESCALER_LOW and
// I2C_PRESCALER_HIGH. A zero or unreachable sclHz gives 0, the fastest
// divider.
func I2CPrescaler(sysHz, sclHz uint32) uint32 {

	div := 5 * uint64(sclHz)

	if div == 0 || div > uint64(sysHz) {
		return 0
	}

	return uint32(uint64(sysHz)/div - 1)
}

// XCLKPrescaler returns the divider that derives the sensor clock from the
// system clock, clamped to 1..0xFF. A zero xclkHz gives the slowest clock.
func XCLKPrescaler(sysHz, xclkHz uint32) uint8 {

	if xclkHz == 0 {
		return 0xFF
	}

	switch div := sysHz / xclkHz; {
	case div == 0:
		return 1
	case div > 0xFF:
		return 0xFF
	default:
		return uint8(div)
	}
}

// Initialize brings the interface up: it programs the SCCB and sensor clock
// dividers and then enables XCLK and the SCCB core. It must run before any
// Configure or TriggerCapture call. Running it again rewrites the same values,
// which can disturb a capture in progress.
func (d *Device) Initialize() {

	low, high, xclk := d.cfg.prescalers()

	// SCCB bus clock first, the core is still disabled
	d.writeReg(I2C_PRESCALER_LOW, low)
	d.writeReg(I2C_PRESCALER_HIGH, high)

	d.writeReg(XCLK_PRESCALER, xclk)

	setup := d.cfg.setupBits()
	d.writeReg(INTERFACE_SETUP, setup)

	d.log.Debugw("interface initialized",
		"i2c_prescaler_low", low, "i2c_prescaler_high", high,
		"xclk_prescaler", xclk, "setup", setup)
}

// Shutdown disables XCLK and the SCCB core
func (d *Device) Shutdown() {

	d.writeReg(INTERFACE_SETUP, 0)
	d.state = Idle

	d.log.Debug("interface disabled")
}
