package cpi

import (
	"fmt"

	"github.com/pkg/errors"
)

// OV7670 control registers used by the driver
const (
	// COM7, common control 7
	REG_COM7      uint8 = 0x12
	COM7_RESET    uint8 = 0x80 // register reset
	COM7_FMT_MASK uint8 = 0x38
	COM7_FMT_VGA  uint8 = 0x00
	COM7_FMT_CIF  uint8 = 0x20 // CIF format
	COM7_FMT_QVGA uint8 = 0x10 // QVGA format
	COM7_FMT_QCIF uint8 = 0x08 // QCIF format
	COM7_RGB      uint8 = 0x04 // bits 0 and 2, RGB format
	COM7_YUV      uint8 = 0x00

	// COM15, common control 15
	REG_COM15    uint8 = 0x40
	COM15_R10F0  uint8 = 0x00 // data range 10 to F0
	COM15_R01FE  uint8 = 0x80 // 01 to FE
	COM15_R00FF  uint8 = 0xC0 // 00 to FF
	COM15_RGB565 uint8 = 0x10 // RGB565 output
	COM15_RGB555 uint8 = 0x30 // RGB555 output
)

// Format is the output frame size selected in COM7
type Format int

const (
	// VGA is 640x480
	VGA Format = iota
	// CIF is 352x288
	CIF
	// QVGA is 320x240
	QVGA
	// QCIF is 176x144
	QCIF
)

// String implement Stringer interface for Format
func (f Format) String() string {
	switch f {
	case VGA:
		return "VGA"
	case CIF:
		return "CIF"
	case QVGA:
		return "QVGA"
	case QCIF:
		return "QCIF"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// COM7 returns the COM7 format bits
func (f Format) COM7() uint8 {
	switch f {
	case CIF:
		return COM7_FMT_CIF
	case QVGA:
		return COM7_FMT_QVGA
	case QCIF:
		return COM7_FMT_QCIF
	default:
		return COM7_FMT_VGA
	}
}

// Resolution returns the nominal frame size of the format
func (f Format) Resolution() Resolution {
	switch f {
	case CIF:
		return Resolution{Width: 352, Height: 288}
	case QVGA:
		return Resolution{Width: 320, Height: 240}
	case QCIF:
		return Resolution{Width: 176, Height: 144}
	default:
		return Resolution{Width: 640, Height: 480}
	}
}

// ParseFormat returns the Format with the given name
func ParseFormat(name string) (Format, error) {
	for _, f := range []Format{VGA, CIF, QVGA, QCIF} {
		if f.String() == name {
			return f, nil
		}
	}

	return VGA, errors.Errorf("unknown format %q", name)
}

// FormatFromCOM7 decodes the format bits of a COM7 value
func FormatFromCOM7(com7 uint8) (Format, error) {
	switch com7 & COM7_FMT_MASK {
	case COM7_FMT_VGA:
		return VGA, nil
	case COM7_FMT_CIF:
		return CIF, nil
	case COM7_FMT_QVGA:
		return QVGA, nil
	case COM7_FMT_QCIF:
		return QCIF, nil
	default:
		return VGA, errors.Errorf("invalid COM7 format bits 0x%02X", com7&COM7_FMT_MASK)
	}
}

// ResetSensor returns all sensor registers to their defaults
func ResetSensor(c Configurer) error {

	if err := c.Configure(REG_COM7, COM7_RESET); err != nil {
		return errors.Wrap(err, "sensor reset")
	}

	return nil
}

// SetFormat selects the frame size in YUV output. The sensor keeps reporting
// the old size for a few frames, see Device.Settle.
func SetFormat(c Configurer, f Format) error {

	if err := c.Configure(REG_COM7, f.COM7()|COM7_YUV); err != nil {
		return errors.Wrapf(err, "set format %s", f)
	}

	return nil
}

// SetRGBFormat selects the frame size with RGB output, the pixel encoding is
// chosen with SetOutputFormat
func SetRGBFormat(c Configurer, f Format) error {

	if err := c.Configure(REG_COM7, f.COM7()|COM7_RGB); err != nil {
		return errors.Wrapf(err, "set rgb format %s", f)
	}

	return nil
}

// SetOutputFormat writes COM15, the data range and RGB encoding
// (e.g. COM15_R00FF|COM15_RGB565)
func SetOutputFormat(c Configurer, com15 uint8) error {

	if err := c.Configure(REG_COM15, com15); err != nil {
		return errors.Wrapf(err, "set output format 0x%02X", com15)
	}

	return nil
}
