// Package cpu implements the MOS Technology 6502-family interpreter at
// the heart of the emulator: register file, addressing modes, the
// official instruction set and the two-phase load/execute split that
// lets the frame loop co-schedule CPU and PPU ticks.
// https://en.wikipedia.org/wiki/MOS_Technology_6502
package cpu

import (
	"github.com/pkg/errors"
)

// 6502 interrupt and reset vectors.
// https://en.wikipedia.org/wiki/Interrupts_in_65xx_processors
const (
	vectorNMI   = 0xFFFA
	vectorReset = 0xFFFC
	vectorIRQ   = 0xFFFE
	vectorBRK   = vectorIRQ
)

// Processor status flags.
// https://www.nesdev.org/obelisk-6502-guide/registers.html
const (
	FlagCarry     = 1 << 0 // C
	FlagZero      = 1 << 1 // Z
	FlagInterrupt = 1 << 2 // I
	FlagDecimal   = 1 << 3 // D - carried in the register but never consulted; decimal mode is not implemented
	FlagBreak     = 1 << 4 // B
	FlagUnused    = 1 << 5 // always reads 1
	FlagOverflow  = 1 << 6 // V
	FlagNegative  = 1 << 7 // N
)

const stackPage = 0x0100

// Bus is the minimal surface the CPU needs from the shared bus: plain
// byte-level access to the 64KiB CPU address space. Writes that land on
// PPU registers or OAM DMA carry their side effects inside the Bus
// implementation itself, so the CPU never needs a PPU reference.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// CPU holds the 6502 register file and the (mnemonic, mode) pair
// decoded by the most recent LoadInstruction call. It never stores a
// Bus reference between calls; one is passed explicitly to every method
// that needs memory access, per the single-owner borrowing model.
type CPU struct {
	A, X, Y uint8
	P       uint8
	S       uint8
	PC      uint16

	TotalCycles uint64

	cur          opcodeEntry
	operandPC    uint16 // PC immediately after the opcode byte was consumed
	loadedCycles int    // cycles_returned_by_load_instruction for the pending instruction
}

// New returns a CPU in its power-on state: https://www.nesdev.org/wiki/CPU_power_up_state
func New() *CPU {
	return &CPU{
		S: 0xFD,
		P: FlagUnused | FlagBreak | FlagInterrupt,
	}
}

// Reset performs a hardware reset: PC from the reset vector, S := 0xFD,
// P := I|unused. Costs 7 cycles, which Reset adds to TotalCycles itself;
// nothing is pushed to the stack.
func (c *CPU) Reset(bus Bus) {
	c.S = 0xFD
	c.P = FlagUnused | FlagInterrupt
	c.PC = c.read16(bus, vectorReset)
	c.TotalCycles += 7
}

// NMI services a non-maskable interrupt asserted by the PPU at VBlank
// start: push PC, push P with the break bit cleared, set I, and jump
// through the NMI vector. Costs 7 cycles, which the caller folds into
// the active cycles_left countdown rather than a separate queue.
func (c *CPU) NMI(bus Bus) {
	c.pushAddress(bus, c.PC)
	c.push(bus, c.P&^uint8(FlagBreak))
	c.P |= FlagInterrupt
	c.PC = c.read16(bus, vectorNMI)
}

// LoadInstruction fetches the opcode byte at PC, decodes it against the
// static opcode table, and returns the number of cycles the instruction
// bills in total (base cost plus any page-cross or branch-taken
// penalty, computed now from the current register/flag state). No
// side effect of the instruction itself is visible yet.
func (c *CPU) LoadInstruction(bus Bus) (int, error) {
	b := bus.Read(c.PC)
	entry := opcodeTable[b]
	if !entry.valid {
		return 0, errors.Errorf("cpu: unrecognized opcode 0x%02X at PC=0x%04X", b, c.PC)
	}

	c.cur = entry
	c.PC++
	c.operandPC = c.PC

	cycles := int(entry.cycles)
	if entry.isBranch {
		cycles += c.branchPenalty(bus, entry.mode)
	} else if entry.extraOnCross {
		cycles += c.crossPenalty(bus, entry.mode)
	}

	c.loadedCycles = cycles
	return cycles, nil
}

// ExecuteInstruction performs the decoded instruction's effects:
// resolves the addressing mode, reads the operand if applicable,
// applies the operation, updates flags, and advances PC by whatever
// remains of the instruction's length (unless the operation itself
// already redirected PC, e.g. a taken branch, JMP, JSR, RTS, RTI). The
// unused status bit 5 always reads 1 afterwards.
func (c *CPU) ExecuteInstruction(bus Bus) error {
	entry := c.cur
	if entry.exec == nil {
		return errors.Errorf("cpu: no implementation registered for %s", entry.mnemonic)
	}

	before := c.PC
	entry.exec(c, bus, entry.mode)
	c.P |= FlagUnused
	c.TotalCycles += uint64(c.loadedCycles)

	if c.PC == before {
		c.PC += uint16(entry.bytes) - 1
	}
	return nil
}

// CurrentMnemonic names the instruction latched by the most recent
// LoadInstruction call, for a debugger's disassembly view.
func (c *CPU) CurrentMnemonic() string {
	return c.cur.mnemonic
}

// --- addressing ---

// operandAddr resolves the effective address for mode, per §4.2's
// addressing table. ACCUMULATOR and IMPLIED have no address and must
// not be routed through this.
func (c *CPU) operandAddr(bus Bus, mode addressingMode) uint16 {
	switch mode {
	case Immediate:
		return c.operandPC
	case ZeroPage:
		return uint16(bus.Read(c.operandPC))
	case ZeroPageX:
		return uint16(bus.Read(c.operandPC) + c.X)
	case ZeroPageY:
		return uint16(bus.Read(c.operandPC) + c.Y)
	case Absolute:
		return c.read16(bus, c.operandPC)
	case AbsoluteX:
		base := c.read16(bus, c.operandPC)
		return base + uint16(c.X)
	case AbsoluteY:
		base := c.read16(bus, c.operandPC)
		return base + uint16(c.Y)
	case Indirect:
		p := c.read16(bus, c.operandPC)
		return c.read16PageWrap(bus, p)
	case IndexedIndirect: // IDX
		zp := bus.Read(c.operandPC) + c.X
		return c.readZPPointer(bus, zp)
	case IndirectIndexed: // IDY
		zp := bus.Read(c.operandPC)
		base := c.readZPPointer(bus, zp)
		return base + uint16(c.Y)
	case Relative:
		return c.operandPC + 1 + uint16(int8(bus.Read(c.operandPC)))
	default:
		panic("cpu: operandAddr called with an addressless mode")
	}
}

// readZPPointer reads a little-endian pointer out of the zero page
// starting at zp, with the high byte fetched from (zp+1) mod 256 —
// IDX/IDY never carry into page 1.
func (c *CPU) readZPPointer(bus Bus, zp uint8) uint16 {
	lo := bus.Read(uint16(zp))
	hi := bus.Read(uint16(zp + 1))
	return uint16(hi)<<8 | uint16(lo)
}

// read16PageWrap reproduces the JMP ($xxFF) page-wrap bug: when the
// pointer's low byte is 0xFF, the high byte is fetched from the start
// of the SAME page rather than the next one.
func (c *CPU) read16PageWrap(bus Bus, p uint16) uint16 {
	lo := bus.Read(p)
	hiAddr := (p & 0xFF00) | uint16(uint8(p)+1)
	hi := bus.Read(hiAddr)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) read16(bus Bus, addr uint16) uint16 {
	lo := uint16(bus.Read(addr))
	hi := uint16(bus.Read(addr + 1))
	return hi<<8 | lo
}

// crossPenalty returns 1 if mode's effective address crosses a page
// from its base, 0 otherwise. Only meaningful for ABX/ABY/IDY; it must
// consider the full 16-bit sum, not just the low byte (the source bug
// this spec calls out).
func (c *CPU) crossPenalty(bus Bus, mode addressingMode) int {
	switch mode {
	case AbsoluteX:
		base := c.read16(bus, c.operandPC)
		return crosses(base, base+uint16(c.X))
	case AbsoluteY:
		base := c.read16(bus, c.operandPC)
		return crosses(base, base+uint16(c.Y))
	case IndirectIndexed:
		zp := bus.Read(c.operandPC)
		base := c.readZPPointer(bus, zp)
		return crosses(base, base+uint16(c.Y))
	default:
		return 0
	}
}

func crosses(base, effective uint16) int {
	if base&0xFF00 != effective&0xFF00 {
		return 1
	}
	return 0
}

// branchPenalty computes, at decode time, the total extra cycles for a
// branch instruction: +1 if the branch is taken, +1 more if the taken
// branch crosses a page from PC+2 (the address right after the
// instruction).
func (c *CPU) branchPenalty(bus Bus, mode addressingMode) int {
	if !c.branchTaken(c.cur.mnemonic) {
		return 0
	}
	target := c.operandAddr(bus, mode)
	extra := 1
	if crosses(c.operandPC+1, target) == 1 {
		extra++
	}
	return extra
}

func (c *CPU) branchTaken(mnemonic string) bool {
	switch mnemonic {
	case "BCC":
		return c.P&FlagCarry == 0
	case "BCS":
		return c.P&FlagCarry != 0
	case "BEQ":
		return c.P&FlagZero != 0
	case "BNE":
		return c.P&FlagZero == 0
	case "BMI":
		return c.P&FlagNegative != 0
	case "BPL":
		return c.P&FlagNegative == 0
	case "BVC":
		return c.P&FlagOverflow == 0
	case "BVS":
		return c.P&FlagOverflow != 0
	}
	return false
}

// --- flags ---

func (c *CPU) setZN(v uint8) {
	if v == 0 {
		c.P |= FlagZero
	} else {
		c.P &^= FlagZero
	}
	if v&0x80 != 0 {
		c.P |= FlagNegative
	} else {
		c.P &^= FlagNegative
	}
}

// --- stack ---
//
// S wraps modulo 256 on both push and pull: it is a uint8, so Go's
// unsigned arithmetic already gives the hardware's wrap-on-overflow
// behavior without an explicit mask. Per §7's resolved open question,
// stack under/overflow is not treated as fatal here.

func (c *CPU) push(bus Bus, v uint8) {
	bus.Write(stackPage+uint16(c.S), v)
	c.S--
}

func (c *CPU) pull(bus Bus) uint8 {
	c.S++
	return bus.Read(stackPage + uint16(c.S))
}

func (c *CPU) pushAddress(bus Bus, addr uint16) {
	c.push(bus, uint8(addr>>8))
	c.push(bus, uint8(addr))
}

func (c *CPU) pullAddress(bus Bus) uint16 {
	lo := uint16(c.pull(bus))
	hi := uint16(c.pull(bus))
	return hi<<8 | lo
}

// addWithCarry is the shared core of ADC and SBC: SBC is implemented as
// ADC with the operand bitwise-inverted, which folds subtraction's
// borrow into the same carry/overflow math.
func (c *CPU) addWithCarry(m uint8) {
	carry := uint16(c.P & FlagCarry)
	sum := uint16(c.A) + uint16(m) + carry
	result := uint8(sum)

	if sum&0x100 != 0 {
		c.P |= FlagCarry
	} else {
		c.P &^= FlagCarry
	}
	if (c.A^result)&(m^result)&0x80 != 0 {
		c.P |= FlagOverflow
	} else {
		c.P &^= FlagOverflow
	}

	c.A = result
	c.setZN(c.A)
}

func (c *CPU) compare(reg, m uint8) {
	c.setZN(reg - m)
	if reg >= m {
		c.P |= FlagCarry
	} else {
		c.P &^= FlagCarry
	}
}
