package cpi

// Configurer writes one register of the image sensor
type Configurer interface {
	Configure(reg, value uint8) error
}

// Pack encodes a sensor register write as the SCCB_DATA transaction
func Pack(reg, value uint8) uint16 {
	return uint16(reg)<<8 | uint16(value)
}

// Configure writes value to the sensor register reg through the SCCB core.
// It waits for the core to be ready, issues the write and waits again until
// the transaction has completed. With no timeout set a dead bus blocks
// forever.
func (d *Device) Configure(reg, value uint8) error {

	if err := d.poll("sccb ready", sccbReady); err != nil {
		return err
	}

	mode := Pack(reg, value)
	d.writeReg16Bit(SCCB_DATA, mode)

	// the core drops SCCB_READY while it shifts the transaction out
	if err := d.poll("sccb write completion", sccbReady); err != nil {
		return err
	}

	d.log.Debugf("camera mode: %08X", mode)

	return nil
}

func sccbReady(s InterfaceStatus) bool {
	return s.SCCBReady
}
