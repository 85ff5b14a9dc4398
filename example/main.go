// Package main runs the CPI bring-up and capture sequence against real
// hardware or the simulated model and reports what the interface returns.
package main

import (
	"fmt"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	host "periph.io/x/host/v3"

	cpi "github.com/DucVu20/CameraInterface"
	"github.com/DucVu20/CameraInterface/mmio"
	"github.com/DucVu20/CameraInterface/sccb"
	"github.com/DucVu20/CameraInterface/sim"
)

const (
	flagConfig  = "config"
	flagBackend = "backend"
	flagBase    = "base"
	flagSCCBI2C = "sccb-i2c"
	flagTimeout = "timeout"
	flagSettle  = "settle"
	flagDump    = "dump"
	flagPNG     = "png"
	flagDebug   = "debug"

	backendMem = "mem"
	backendSim = "sim"
)

func main() {

	app := &cli.App{
		Name:  "cpi-diag",
		Usage: "exercise the camera interface across resolutions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagConfig,
				Usage: "load interface configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:  flagBackend,
				Value: backendSim,
				Usage: "register backend, mem (/dev/mem) or sim",
			},
			&cli.StringFlag{
				Name:  flagBase,
				Usage: "physical base address of the register window",
			},
			&cli.StringFlag{
				Name:  flagSCCBI2C,
				Usage: "configure the sensor directly through this I2C `DEVICE` instead of the SCCB core",
			},
			&cli.DurationFlag{
				Name:  flagTimeout,
				Usage: "give up on a status wait after this long, 0 waits forever",
			},
			&cli.IntFlag{
				Name:  flagSettle,
				Usage: "frames to capture after each format change",
			},
			&cli.BoolFlag{
				Name:  flagDump,
				Usage: "print the luma of every pixel of the settled frames",
			},
			&cli.StringFlag{
				Name:  flagPNG,
				Usage: "write the last settled frame to `FILE`",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "log register traffic",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// hardware is everything run needs closed on the way out
type hardware struct {
	regs   cpi.RegisterFile
	window *mmio.Window
	sensor *sccb.Bus
}

func (h *hardware) Close() error {

	var err error

	if h.sensor != nil {
		err = multierr.Combine(err, h.sensor.Close())
	}

	if h.window != nil {
		err = multierr.Combine(err, h.window.Close())
	}

	return err
}

func loadConfig(c *cli.Context) (cpi.Config, error) {

	cfg := cpi.DefaultConfig()

	if path := c.String(flagConfig); path != "" {
		var err error

		if cfg, err = cpi.LoadConfig(path); err != nil {
			return cfg, err
		}
	}

	if s := c.String(flagBase); s != "" {
		base, err := strconv.ParseUint(s, 0, 64)

		if err != nil {
			return cfg, errors.Wrapf(err, "invalid base address %q", s)
		}

		cfg.BaseAddr = base
	}

	if c.IsSet(flagTimeout) {
		cfg.Timeout = cpi.Duration(c.Duration(flagTimeout))
	}

	if c.IsSet(flagSettle) {
		cfg.SettleFrames = c.Int(flagSettle)
	}

	return cfg, cfg.Validate()
}

func open(c *cli.Context, cfg cpi.Config, logger golog.Logger) (*hardware, error) {

	h := &hardware{}

	switch c.String(flagBackend) {
	case backendSim:
		h.regs = sim.NewModel()

	case backendMem:
		if _, err := host.Init(); err != nil {
			logger.Debugw("error initializing host", "error", err)
		}

		w, err := mmio.Open(cfg.BaseAddr)

		if err != nil {
			return nil, err
		}

		h.window, h.regs = w, w

	default:
		return nil, errors.Errorf("unknown backend %q", c.String(flagBackend))
	}

	if dev := c.String(flagSCCBI2C); dev != "" {
		bus, err := sccb.OpenWithLog(dev, logger.Named("sccb"))

		if err != nil {
			return nil, multierr.Combine(err, h.Close())
		}

		h.sensor = bus
	}

	return h, nil
}

func run(c *cli.Context) (err error) {

	var logger golog.Logger

	if c.Bool(flagDebug) {
		logger = golog.NewDebugLogger("cpi")
	} else {
		logger = golog.NewDevelopmentLogger("cpi")
	}

	cfg, err := loadConfig(c)

	if err != nil {
		return err
	}

	h, err := open(c, cfg, logger)

	if err != nil {
		return err
	}

	defer func() {
		err = multierr.Combine(err, h.Close())
	}()

	d, err := cpi.NewWithLog(h.regs, cfg, logger)

	if err != nil {
		return err
	}

	// sensor registers go through the SCCB core unless a direct bus was given
	var sensor cpi.Configurer = d

	if h.sensor != nil {
		sensor = h.sensor
	}

	s := &script{
		d:      d,
		sensor: sensor,
		log:    logger,
		settle: cfg.SettleFrames,
		dump:   c.Bool(flagDump),
		png:    c.String(flagPNG),
	}

	return s.run()
}

// script is the diagnostic sequence
type script struct {
	d      *cpi.Device
	sensor cpi.Configurer
	log    golog.Logger
	settle int
	dump   bool
	png    string
}

func (s *script) run() error {

	s.log.Infof("status: %s", s.d.Status())

	s.d.Initialize()
	s.log.Infof("interface setup: 0x%02X", s.d.Setup())

	s.log.Info("reset the camera")

	if err := cpi.ResetSensor(s.sensor); err != nil {
		return err
	}

	res, err := s.d.Capture()

	if err != nil {
		return err
	}

	s.log.Infof("returned image: %s", res)

	s.log.Info("configure YUV mode")

	if err := s.sensor.Configure(cpi.REG_COM7, cpi.COM7_YUV); err != nil {
		return err
	}

	s.log.Infof("status: %s", s.d.Status())

	if err := s.firstShot(); err != nil {
		return err
	}

	for _, f := range []cpi.Format{cpi.CIF, cpi.QCIF} {
		if err := s.format(f); err != nil {
			return err
		}
	}

	s.log.Info("disable XCLK, I2C core")
	s.d.Shutdown()

	return s.disabled()
}

// firstShot follows one capture through every status change
func (s *script) firstShot() error {

	s.log.Info("take the first shot")
	s.d.TriggerCapture()

	if err := s.d.WaitCapturing(); err != nil {
		return err
	}

	s.log.Infof("status: %s", s.d.Status())

	if err := s.d.WaitFrame(); err != nil {
		return err
	}

	s.log.Infof("status: %s", s.d.Status())
	s.log.Infof("returned image: %s", s.d.ReadResolution())

	return nil
}

// format switches the sensor to f and watches the reported size settle
func (s *script) format(f cpi.Format) error {

	want := f.Resolution()
	s.log.Infof("configure %s: %s", f, want)

	if err := cpi.SetFormat(s.sensor, f); err != nil {
		return err
	}

	res, err := s.d.Settle(s.settle)

	if err != nil {
		return err
	}

	s.log.Infof("settled after %d frames: %s", max(s.settle, 1), res)
	s.log.Infof("status: %s", s.d.Status())

	if res != want {
		s.log.Warnf("%s settled at %s, expected %s", f, res, want)
		return nil
	}

	if s.dump {
		s.dumpPixels()
	}

	if s.png != "" {
		return s.writePNG()
	}

	return nil
}

// dumpPixels prints the Y component of every sample of the current frame
func (s *script) dumpPixels() {

	var b strings.Builder
	stream := s.d.Pixels()

	for px := range stream.All() {
		fmt.Fprintf(&b, "%04X ", px&0x00FF)
	}

	fmt.Println(b.String())
	s.log.Infof("read out %d pixels", stream.Count())
}

func (s *script) writePNG() error {

	img, err := s.d.ReadFrame()

	if err != nil {
		return err
	}

	f, err := os.Create(s.png)

	if err != nil {
		return err
	}

	if err := png.Encode(f, img); err != nil {
		return multierr.Combine(err, f.Close())
	}

	s.log.Infof("wrote %s (%s)", s.png, img.Bounds().Size())

	return f.Close()
}

// disabled checks whether the SCCB core still transmits with the interface
// shut. Without a timeout every wait here blocks forever, so the step only
// runs bounded.
func (s *script) disabled() error {

	if s.d.Timeout() == 0 {
		s.log.Info("skipping disabled-interface checks, they need --timeout")
		return nil
	}

	s.log.Info("reset the camera with the interface disabled")

	if err := cpi.ResetSensor(s.sensor); err != nil {
		if !errors.Is(err, cpi.ErrTimedOut) {
			return err
		}

		s.log.Infof("reset did not complete: %v", err)
	}

	for i := 0; i < max(s.settle, 1); i++ {
		r, err := s.d.Capture()

		if errors.Is(err, cpi.ErrTimedOut) {
			s.log.Infof("frame %d: no frame with the interface disabled", i)
			return nil
		}

		if err != nil {
			return err
		}

		s.log.Infof("frame %d: %s", i, r)
	}

	return nil
}
