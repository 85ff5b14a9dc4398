package cpi_test

import (
	"testing"

	"go.viam.com/test"

	cpi "github.com/DucVu20/CameraInterface"
)

func TestSensorConstants(t *testing.T) {
	// values the OV7670 expects on the wire
	test.That(t, cpi.REG_COM7, test.ShouldEqual, uint8(0x12))
	test.That(t, cpi.COM7_RESET, test.ShouldEqual, uint8(0x80))
	test.That(t, cpi.REG_COM15, test.ShouldEqual, uint8(0x40))
	test.That(t, cpi.COM15_R00FF|cpi.COM15_RGB565, test.ShouldEqual, uint8(0xD0))
}

func TestFormat(t *testing.T) {
	for _, tc := range []struct {
		f    cpi.Format
		name string
		com7 uint8
		res  cpi.Resolution
	}{
		{cpi.VGA, "VGA", 0x00, cpi.Resolution{Width: 640, Height: 480}},
		{cpi.CIF, "CIF", 0x20, cpi.Resolution{Width: 352, Height: 288}},
		{cpi.QVGA, "QVGA", 0x10, cpi.Resolution{Width: 320, Height: 240}},
		{cpi.QCIF, "QCIF", 0x08, cpi.Resolution{Width: 176, Height: 144}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, tc.f.String(), test.ShouldEqual, tc.name)
			test.That(t, tc.f.COM7(), test.ShouldEqual, tc.com7)
			test.That(t, tc.f.Resolution(), test.ShouldResemble, tc.res)

			parsed, err := cpi.ParseFormat(tc.name)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, parsed, test.ShouldEqual, tc.f)

			// the RGB and reset bits are not format bits
			decoded, err := cpi.FormatFromCOM7(tc.com7 | cpi.COM7_RGB)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, decoded, test.ShouldEqual, tc.f)
		})
	}

	_, err := cpi.ParseFormat("SXGA")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = cpi.FormatFromCOM7(0x30)
	test.That(t, err, test.ShouldNotBeNil)

	test.That(t, cpi.Format(9).String(), test.ShouldEqual, "Format(9)")
}

func TestSensorHelpers(t *testing.T) {
	d, m := newReadyDevice(t)

	test.That(t, cpi.SetOutputFormat(d, cpi.COM15_R00FF|cpi.COM15_RGB565), test.ShouldBeNil)
	test.That(t, m.Sensor(cpi.REG_COM15), test.ShouldEqual, uint8(0xD0))

	test.That(t, cpi.SetRGBFormat(d, cpi.QVGA), test.ShouldBeNil)
	test.That(t, m.Sensor(cpi.REG_COM7), test.ShouldEqual, uint8(0x14))

	test.That(t, cpi.SetFormat(d, cpi.CIF), test.ShouldBeNil)
	test.That(t, m.Sensor(cpi.REG_COM7), test.ShouldEqual, uint8(0x20))

	// reset clears every sensor register
	test.That(t, cpi.ResetSensor(d), test.ShouldBeNil)
	test.That(t, m.Sensor(cpi.REG_COM7), test.ShouldEqual, uint8(0))
	test.That(t, m.Sensor(cpi.REG_COM15), test.ShouldEqual, uint8(0))

	var got []uint16
	for _, w := range m.WritesTo(cpi.SCCB_DATA) {
		got = append(got, w.Value)
	}
	test.That(t, got, test.ShouldResemble, []uint16{0x40D0, 0x1214, 0x1220, 0x1280})
}

type failingConfigurer struct{}

func (failingConfigurer) Configure(reg, value uint8) error {
	return cpi.ErrTimedOut
}

func TestSensorHelpersWrapErrors(t *testing.T) {
	err := cpi.SetFormat(failingConfigurer{}, cpi.QCIF)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "set format QCIF")

	err = cpi.ResetSensor(failingConfigurer{})
	test.That(t, err.Error(), test.ShouldContainSubstring, "sensor reset")

	err = cpi.SetOutputFormat(failingConfigurer{}, 0xD0)
	test.That(t, err.Error(), test.ShouldContainSubstring, "0xD0")
}
