// Package sccb talks to the OV7670 directly over a Linux I2C adapter wired to
// its SIOC/SIOD pins. SCCB write transactions are plain I2C writes; reads must
// be split in a write of the register address and a separate read.
package sccb

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/swdee/go-i2c"
	"go.uber.org/zap"
)

// Address is the 7-bit SCCB address of the OV7670 (0x42 write, 0x43 read)
const Address uint8 = 0x21

// Bus is an OV7670 reached over /dev/i2c-N. It satisfies cpi.Configurer.
type Bus struct {
	bus *i2c.Options
	log golog.Logger
}

// Open opens the I2C adapter at dev (e.g. /dev/i2c-1) for the sensor address
func Open(dev string) (*Bus, error) {
	return OpenWithLog(dev, zap.NewNop().Sugar())
}

// OpenWithLog opens the adapter and reports every transaction to logger
func OpenWithLog(dev string, logger golog.Logger) (*Bus, error) {

	conn, err := i2c.New(Address, dev)

	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", dev)
	}

	if conn.GetAddr() == 0 {
		conn.Close()
		return nil, errors.New("I2C device is not initiated")
	}

	return &Bus{bus: conn, log: logger}, nil
}

// Configure writes value to the sensor register reg
func (b *Bus) Configure(reg, value uint8) error {

	n, err := b.bus.WriteBytes([]byte{reg, value})

	if err != nil {
		return errors.Wrapf(err, "sccb write 0x%02X=0x%02X", reg, value)
	}

	if n < 2 {
		return errors.Errorf("sccb write 0x%02X: short write (%d bytes)", reg, n)
	}

	b.log.Debugf("sccb write 0x%02X=0x%02X", reg, value)

	return nil
}

// ReadRegister reads one sensor register. SCCB has no repeated start, so the
// address phase and the data phase are two transactions.
func (b *Bus) ReadRegister(reg uint8) (uint8, error) {

	if _, err := b.bus.WriteBytes([]byte{reg}); err != nil {
		return 0, errors.Wrapf(err, "sccb address phase 0x%02X", reg)
	}

	buf := make([]byte, 1)
	n, err := b.bus.ReadBytes(buf)

	if err != nil {
		return 0, errors.Wrapf(err, "sccb read 0x%02X", reg)
	}

	if n < 1 {
		return 0, errors.Errorf("sccb read 0x%02X: insufficient data", reg)
	}

	b.log.Debugf("sccb read 0x%02X=0x%02X", reg, buf[0])

	return buf[0], nil
}

// Close releases the I2C adapter
func (b *Bus) Close() error {
	return b.bus.Close()
}
