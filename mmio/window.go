// Package mmio maps the CPI register window from physical memory.
//
// All CPI registers sit on 32-bit boundaries, so every access is a single
// aligned word load or store narrowed to the register width.
package mmio

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"periph.io/x/host/v3/pmem"

	cpi "github.com/DucVu20/CameraInterface"
)

// Window is a cpi.RegisterFile backed by a /dev/mem mapping
type Window struct {
	view *pmem.View
	regs []uint32
}

// Open maps the register window at the physical address base. It needs
// access to /dev/mem, usually root.
func Open(base uint64) (*Window, error) {

	if base%4 != 0 {
		return nil, errors.Errorf("register window 0x%X is not word aligned", base)
	}

	view, err := pmem.Map(base, cpi.WindowSize)

	if err != nil {
		return nil, errors.Wrapf(err, "mapping register window at 0x%X", base)
	}

	return &Window{view: view, regs: view.Uint32()}, nil
}

// word returns the register word at offset
func (w *Window) word(offset uint32) *uint32 {
	return &w.regs[offset/4]
}

// Read8 implements cpi.RegisterFile
func (w *Window) Read8(offset uint32) uint8 {
	return uint8(atomic.LoadUint32(w.word(offset)))
}

// Read16 implements cpi.RegisterFile
func (w *Window) Read16(offset uint32) uint16 {
	return uint16(atomic.LoadUint32(w.word(offset)))
}

// Write8 implements cpi.RegisterFile
func (w *Window) Write8(offset uint32, value uint8) {
	atomic.StoreUint32(w.word(offset), uint32(value))
}

// Write16 implements cpi.RegisterFile
func (w *Window) Write16(offset uint32, value uint16) {
	atomic.StoreUint32(w.word(offset), uint32(value))
}

// Close unmaps the window
func (w *Window) Close() error {

	if w.view == nil {
		return nil
	}

	err := w.view.Close()
	w.view, w.regs = nil, nil

	return err
}
