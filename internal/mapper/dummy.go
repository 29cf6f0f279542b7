package mapper

import (
	"math"

	"github.com/retrobit/nescore/internal/cartridge"
)

// dummyMapper is a bare memory-backed Mapper used by the bus package's
// tests so they don't need a real cartridge image.
type dummyMapper struct {
	memory []uint8
	MM     uint8 // mirroring mode - tests can set as needed
}

func (dm *dummyMapper) ID() uint16 {
	return 0
}

func (dm *dummyMapper) Init(r *cartridge.ROM) {}

func (dm *dummyMapper) Name() string {
	return "dummy mapper"
}

func (dm *dummyMapper) PrgRead(addr uint16) uint8 {
	return dm.memory[addr]
}

func (dm *dummyMapper) PrgWrite(addr uint16, val uint8) {
	dm.memory[addr] = val
}

func (dm *dummyMapper) ChrRead(addr uint16) uint8 {
	return dm.memory[addr]
}

func (dm *dummyMapper) ChrWrite(addr uint16, val uint8) {
	dm.memory[addr] = val
}

func (dm *dummyMapper) MirroringMode() uint8 {
	return dm.MM
}

func (dm *dummyMapper) HasSaveRAM() bool {
	return true
}

// NewDummy returns a fresh, independently-addressable dummy mapper so
// concurrent tests don't share state through a single package-level
// instance.
func NewDummy() Mapper {
	return &dummyMapper{memory: make([]uint8, math.MaxUint16+1)}
}
