// Package sim provides register files that stand in for the CPI hardware:
// a plain memory and a behavioural model of the interface and its OV7670.
package sim

// Memory is a register file without behaviour, every register reads back the
// last value written to it
type Memory struct {
	regs map[uint32]uint16
}

// NewMemory returns an empty Memory, all registers read as zero
func NewMemory() *Memory {
	return &Memory{regs: make(map[uint32]uint16)}
}

// Read8 returns the low byte of the register
func (m *Memory) Read8(offset uint32) uint8 {
	return uint8(m.regs[offset])
}

// Read16 returns the register
func (m *Memory) Read16(offset uint32) uint16 {
	return m.regs[offset]
}

// Write8 stores value in the register
func (m *Memory) Write8(offset uint32, value uint8) {
	m.regs[offset] = uint16(value)
}

// Write16 stores value in the register
func (m *Memory) Write16(offset uint32, value uint16) {
	m.regs[offset] = value
}
