package sim

import (
	"testing"

	"go.viam.com/test"

	cpi "github.com/DucVu20/CameraInterface"
)

func enable(m *Model) {
	m.Write8(cpi.INTERFACE_SETUP, cpi.ACTIVATE_XCLK|cpi.I2C_CORE_ENA)
}

func status(m *Model) cpi.InterfaceStatus {
	return cpi.Decode(m.Read8(cpi.INTERFACE_STATUS))
}

func TestModelSCCB(t *testing.T) {
	t.Run("needs clock and core enabled", func(t *testing.T) {
		m := NewModel()
		test.That(t, status(m).SCCBReady, test.ShouldBeFalse)

		m.Write8(cpi.INTERFACE_SETUP, cpi.I2C_CORE_ENA)
		test.That(t, status(m).SCCBReady, test.ShouldBeFalse)

		enable(m)
		test.That(t, status(m).SCCBReady, test.ShouldBeTrue)
	})

	t.Run("write while busy is dropped", func(t *testing.T) {
		m := NewModel()
		enable(m)

		m.Write16(cpi.SCCB_DATA, 0x40D0)
		test.That(t, m.Sensor(0x40), test.ShouldEqual, uint8(0xD0))

		m.Write16(cpi.SCCB_DATA, 0x4010)
		test.That(t, m.Violations(), test.ShouldEqual, 1)
		test.That(t, m.Sensor(0x40), test.ShouldEqual, uint8(0xD0))

		for i := 0; i < m.SCCBLatency; i++ {
			test.That(t, status(m).SCCBReady, test.ShouldBeFalse)
		}
		test.That(t, status(m).SCCBReady, test.ShouldBeTrue)
	})

	t.Run("write while disabled is dropped", func(t *testing.T) {
		m := NewModel()
		m.Write16(cpi.SCCB_DATA, 0x1280)
		test.That(t, m.Violations(), test.ShouldEqual, 1)
	})
}

func TestModelCapture(t *testing.T) {
	t.Run("needs clock", func(t *testing.T) {
		m := NewModel()
		m.Write8(cpi.CAPTURE, 1)
		test.That(t, m.Captures(), test.ShouldEqual, 0)
		test.That(t, status(m).Capturing, test.ShouldBeFalse)
	})

	t.Run("capture then frame", func(t *testing.T) {
		m := NewModel()
		enable(m)
		m.CaptureLatency = 2
		m.SetFrame(3, 1, []uint16{5, 6, 7})

		m.Write8(cpi.CAPTURE, 1)
		test.That(t, status(m).Capturing, test.ShouldBeTrue)
		test.That(t, status(m).Capturing, test.ShouldBeTrue)

		st := status(m)
		test.That(t, st.Capturing, test.ShouldBeFalse)
		test.That(t, st.NewFrame, test.ShouldBeTrue)
		test.That(t, st.FrameNotDrained, test.ShouldBeTrue)
		test.That(t, m.Read16(cpi.RETURN_IMAGE_WIDTH), test.ShouldEqual, uint16(3))
		test.That(t, m.Read16(cpi.RETURN_IMAGE_HEIGHT), test.ShouldEqual, uint16(1))

		test.That(t, m.Remaining(), test.ShouldEqual, 3)
		test.That(t, m.Read16(cpi.PIXEL), test.ShouldEqual, uint16(5))
		test.That(t, m.Read16(cpi.PIXEL), test.ShouldEqual, uint16(6))
		test.That(t, m.Read16(cpi.PIXEL), test.ShouldEqual, uint16(7))

		st = status(m)
		test.That(t, st.FrameNotDrained, test.ShouldBeFalse)
		test.That(t, st.NewFrame, test.ShouldBeTrue)

		// reading past the end does not advance anything
		test.That(t, m.Read16(cpi.PIXEL), test.ShouldEqual, uint16(0))

		// trigger clears the frame flag
		m.Write8(cpi.CAPTURE, 1)
		test.That(t, status(m).NewFrame, test.ShouldBeFalse)
	})

	t.Run("writing zero does not arm", func(t *testing.T) {
		m := NewModel()
		enable(m)
		m.Write8(cpi.CAPTURE, 0)
		test.That(t, m.Captures(), test.ShouldEqual, 0)
		test.That(t, m.WritesTo(cpi.CAPTURE), test.ShouldHaveLength, 1)
	})
}

func TestModelFormatSettling(t *testing.T) {
	m := NewModel()
	enable(m)
	m.CaptureLatency = 0
	m.SettleFrames = 1

	m.Write16(cpi.SCCB_DATA, uint16(cpi.REG_COM7)<<8|uint16(cpi.COM7_FMT_QVGA))

	m.Write8(cpi.CAPTURE, 1)
	test.That(t, m.Read16(cpi.RETURN_IMAGE_WIDTH), test.ShouldEqual, uint16(640))

	m.Write8(cpi.CAPTURE, 1)
	test.That(t, m.Read16(cpi.RETURN_IMAGE_WIDTH), test.ShouldEqual, uint16(320))
	test.That(t, m.Read16(cpi.RETURN_IMAGE_HEIGHT), test.ShouldEqual, uint16(240))
	test.That(t, m.Remaining(), test.ShouldEqual, 320*240)
}

func TestPattern(t *testing.T) {
	test.That(t, Pattern(0, 4), test.ShouldEqual, uint16(0x0000))
	test.That(t, Pattern(3, 4), test.ShouldEqual, uint16(0x0003))
	test.That(t, Pattern(5, 4), test.ShouldEqual, uint16(0x0102))
	test.That(t, Pattern(7, 0), test.ShouldEqual, uint16(0))
}

func TestStatusHook(t *testing.T) {
	m := NewModel()
	calls := 0
	m.OnStatusRead = func() { calls++ }

	m.Read8(cpi.INTERFACE_STATUS)
	m.Read16(cpi.INTERFACE_STATUS)
	m.Read8(cpi.XCLK_PRESCALER)

	test.That(t, calls, test.ShouldEqual, 2)
	test.That(t, m.StatusReads(), test.ShouldEqual, 2)
}
