package cpi

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultSystemClock is the peripheral bus clock the prescalers divide
	DefaultSystemClock uint32 = 50_000_000
	// DefaultSCCBClock is the nominal SIOC frequency
	DefaultSCCBClock uint32 = 200_000
	// DefaultXCLK is the nominal sensor clock
	DefaultXCLK uint32 = 25_000_000
	// DefaultSettleFrames is how many frames are thrown away after a format
	// change before the reported resolution is trusted
	DefaultSettleFrames = 10
)

// Config holds the bring-up and polling parameters of the interface
type Config struct {
	BaseAddr uint64 `json:"base_addr,omitempty"`

	SystemClockHz uint32 `json:"system_clock_hz,omitempty"`
	SCCBClockHz   uint32 `json:"sccb_clock_hz,omitempty"`
	XCLKHz        uint32 `json:"xclk_hz,omitempty"`

	// Explicit prescaler values, derived from the clocks above when zero
	I2CPrescalerLow  uint8 `json:"i2c_prescaler_low,omitempty"`
	I2CPrescalerHigh uint8 `json:"i2c_prescaler_high,omitempty"`
	XCLKPrescaler    uint8 `json:"xclk_prescaler,omitempty"`

	VideoMode bool `json:"video_mode,omitempty"`
	RGB888    bool `json:"rgb888,omitempty"`

	// Timeout bounds every status wait, zero waits forever
	Timeout      Duration `json:"timeout,omitempty"`
	PollInterval Duration `json:"poll_interval,omitempty"`

	SettleFrames int `json:"settle_frames,omitempty"`
}

// Duration is a time.Duration that reads and writes as a string such as "500ms"
type Duration time.Duration

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(data []byte) error {

	var s string

	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "duration must be a string")
	}

	v, err := time.ParseDuration(s)

	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", s)
	}

	*d = Duration(v)
	return nil
}

// DefaultConfig returns the stock bring-up configuration:
// 200kHz SCCB and 25MHz XCLK from a 50MHz system clock, no timeout.
func DefaultConfig() Config {
	return Config{
		BaseAddr:      BaseAddr,
		SystemClockHz: DefaultSystemClock,
		SCCBClockHz:   DefaultSCCBClock,
		XCLKHz:        DefaultXCLK,
		SettleFrames:  DefaultSettleFrames,
	}
}

// LoadConfig reads a JSON config file on top of DefaultConfig
func LoadConfig(path string) (Config, error) {

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)

	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}

	return cfg, cfg.Validate()
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate() error {

	if c.I2CPrescalerLow == 0 && c.I2CPrescalerHigh == 0 {
		if c.SystemClockHz == 0 || c.SCCBClockHz == 0 {
			return errors.New("sccb prescaler needs system_clock_hz and sccb_clock_hz")
		}

		if uint64(c.SCCBClockHz)*5 > uint64(c.SystemClockHz) {
			return errors.Errorf("sccb clock %d Hz too fast for system clock %d Hz",
				c.SCCBClockHz, c.SystemClockHz)
		}

		if I2CPrescaler(c.SystemClockHz, c.SCCBClockHz) > 0xFFFF {
			return errors.Errorf("sccb clock %d Hz too slow for system clock %d Hz",
				c.SCCBClockHz, c.SystemClockHz)
		}
	}

	if c.XCLKPrescaler == 0 {
		if c.SystemClockHz == 0 || c.XCLKHz == 0 {
			return errors.New("xclk prescaler needs system_clock_hz and xclk_hz")
		}

		if c.XCLKHz > c.SystemClockHz {
			return errors.Errorf("xclk %d Hz faster than system clock %d Hz",
				c.XCLKHz, c.SystemClockHz)
		}

		if c.SystemClockHz/c.XCLKHz > 0xFF {
			return errors.Errorf("xclk %d Hz too slow for system clock %d Hz",
				c.XCLKHz, c.SystemClockHz)
		}
	}

	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}

	if c.PollInterval < 0 {
		return errors.New("poll_interval must not be negative")
	}

	if c.SettleFrames < 0 {
		return errors.New("settle_frames must not be negative")
	}

	return nil
}

// prescalers returns the three divider register values for the config
func (c *Config) prescalers() (low, high, xclk uint8) {

	low, high = c.I2CPrescalerLow, c.I2CPrescalerHigh

	if low == 0 && high == 0 {
		p := I2CPrescaler(c.SystemClockHz, c.SCCBClockHz)
		low, high = uint8(p), uint8(p>>8)
	}

	xclk = c.XCLKPrescaler

	if xclk == 0 {
		xclk = XCLKPrescaler(c.SystemClockHz, c.XCLKHz)
	}

	return low, high, xclk
}

// setupBits returns the INTERFACE_SETUP value that enables the interface
func (c *Config) setupBits() uint8 {

	bits := ACTIVATE_XCLK | I2C_CORE_ENA

	if c.VideoMode {
		bits |= VIDEO_MODE
	}

	if c.RGB888 {
		bits |= RGB888
	}

	return bits
}
