// Package bus wires the CPU, PPU, cartridge mapper and controller into a
// single 64KiB CPU address space plus the frame scheduler that co-ticks
// them at cycle granularity.
package bus

import (
	"github.com/retrobit/nescore/internal/controller"
	"github.com/retrobit/nescore/internal/cpu"
	"github.com/retrobit/nescore/internal/mapper"
	"github.com/retrobit/nescore/internal/ppu"
)

// CPU address space layout.
// https://www.nesdev.org/wiki/CPU_memory_map
const (
	nesBaseMemory      = 0x0800 // 2KB built-in work RAM
	maxNESBaseRAM      = 0x1FFF // 0x0800-0x1FFF mirrors 0x0000-0x07FF
	maxPPURegMirrored  = 0x3FFF // PPU registers mirrored every 8 bytes up to here
	controllerPort1    = 0x4016
	maxIORegion        = 0x4020 // APU and I/O registers; audio is out of scope
	maxSRAM            = 0x6000 // start of the cartridge save-RAM window; from here up, accesses go to the mapper
	oamDMA             = 0x4014
	framesCPUCycles    = 29780 // §4.4: one frame's worth of CPU cycles, ±1 tolerance
	ppuTicksPerCPUTick = 3
)

// Bus owns the CPU's 2KB work RAM and routes every other address to the
// PPU, the cartridge mapper, or the controller. It implements cpu.Bus and
// ppu.Bus so a single borrow serves both components without either storing
// a reference to it.
type Bus struct {
	cpu    *cpu.CPU
	ppu    *ppu.PPU
	mapper mapper.Mapper
	pad1   controller.Controller

	ram [nesBaseMemory]uint8

	cyclesLeft int
	pendingNMI bool
}

// New builds a Bus wired to a loaded cartridge mapper, with a fresh CPU and
// PPU in their power-up states.
func New(m mapper.Mapper) *Bus {
	b := &Bus{mapper: m, cpu: cpu.New(), ppu: ppu.New()}
	b.ppu.SetMirrorMode(m.MirroringMode())
	return b
}

// Reset performs a hardware reset: the CPU loads PC from the reset vector.
func (b *Bus) Reset() {
	b.cpu.Reset(b)
	b.cyclesLeft = 0
	b.pendingNMI = false
}

// SetControllerInput publishes the host's polled button byte for the next
// frame's reads of 0x4016 (bit0=A .. bit7=Right; see internal/controller).
func (b *Bus) SetControllerInput(buttons uint8) {
	b.pad1.SetInput(buttons)
}

// SetDrawCallback installs the per-pixel sink the PPU calls during
// rendering; at most 256x240 calls per frame.
func (b *Bus) SetDrawCallback(fn func(x, y int, r, g, b uint8)) {
	b.ppu.Draw = fn
}

// GetPixels and GetResolution expose the PPU's frame buffer for a host that
// wants to present the whole frame at once rather than via the draw
// callback (used by the ebiten-backed CLI).
func (b *Bus) GetPixels() []ppu.Color    { return b.ppu.GetPixels() }
func (b *Bus) GetResolution() (int, int) { return b.ppu.GetResolution() }

// CPU exposes the register file for an inspector; the debugger reads it
// between StepInstruction calls but never holds it across one.
func (b *Bus) CPU() *cpu.CPU { return b.cpu }

// PPUPosition reports the current (scanline, dot), for an inspector's
// status line.
func (b *Bus) PPUPosition() (line, cycle int) { return b.ppu.Line(), b.ppu.Cycle() }

func mirrorPPUReg(addr uint16) uint16 {
	return 0x2000 + (addr-0x2000)%8
}

// Read implements cpu.Bus: a byte-level load from anywhere in the 64KiB CPU
// address space.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= maxNESBaseRAM:
		return b.ram[addr&0x07FF]
	case addr <= maxPPURegMirrored:
		return b.ppu.ReadReg(b, mirrorPPUReg(addr))
	case addr == controllerPort1:
		return b.pad1.Read()
	case addr < maxIORegion:
		return 0 // remaining APU/IO registers: audio is a stated Non-goal
	case addr < maxSRAM:
		return 0 // 0x4020-0x5FFF expansion area: nothing mapped
	default:
		return b.mapper.PrgRead(addr)
	}
}

// Write implements cpu.Bus: a byte-level store, applying PPU register,
// OAM DMA and controller-strobe side effects where the target address
// requires them (spec's cpu_write_with_ppu_side_effects).
func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr <= maxNESBaseRAM:
		b.ram[addr&0x07FF] = val
	case addr <= maxPPURegMirrored:
		b.ppu.WriteReg(b, mirrorPPUReg(addr), val)
	case addr == oamDMA:
		b.doOAMDMA(val)
	case addr == controllerPort1:
		b.pad1.Write(val)
	case addr < maxIORegion:
		// remaining APU/IO registers: audio is a stated Non-goal
	case addr < maxSRAM:
		// 0x4020-0x5FFF expansion area: nothing mapped
	default:
		b.mapper.PrgWrite(addr, val)
	}
}

// doOAMDMA copies 256 bytes starting at page*0x100 of CPU address space
// into OAM, linearly, byte for byte through the CPU read path.
//
// TODO: real hardware stalls the CPU for 513-514 cycles during this
// transfer; the scheduler below does not charge that stall.
func (b *Bus) doOAMDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.ppu.DMAWrite(uint8(i), b.Read(base+uint16(i)))
	}
}

// ChrRead implements ppu.Bus, routing pattern-table fetches to the
// cartridge mapper's CHR space.
func (b *Bus) ChrRead(addr uint16) uint8 {
	return b.mapper.ChrRead(addr)
}
