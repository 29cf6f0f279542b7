package cpu

// addressingMode identifies one of the 13 canonical 6502 addressing
// modes. https://www.nesdev.org/obelisk-6502-guide/addressing.html
type addressingMode uint8

const (
	Implied addressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // IDX
	IndirectIndexed // IDY
)

// opcodeEntry is one row of the static opcode table: the decoded
// (mnemonic, mode, byte length, base cycle count) plus the method value
// that implements it. A 256-entry array indexed directly by opcode byte
// replaces the source's reflect-based dispatch and match cascade, and
// gives a single place to audit for the duplicate-assignment bugs the
// spec calls out.
type opcodeEntry struct {
	valid        bool
	mnemonic     string
	mode         addressingMode
	bytes        uint8
	cycles       uint8
	isBranch     bool
	extraOnCross bool // read instructions in ABX/ABY/IDY bill +1 on page cross
	exec         func(c *CPU, bus Bus, mode addressingMode)
}

var opcodeTable [256]opcodeEntry

func op(code uint8, mnemonic string, mode addressingMode, bytes, cycles uint8, fn func(c *CPU, bus Bus, mode addressingMode)) {
	if opcodeTable[code].valid {
		panic("cpu: opcode 0x" + hexByte(code) + " already registered as " + opcodeTable[code].mnemonic)
	}
	opcodeTable[code] = opcodeEntry{
		valid:    true,
		mnemonic: mnemonic,
		mode:     mode,
		bytes:    bytes,
		cycles:   cycles,
		exec:     fn,
	}
}

func branchOp(code uint8, mnemonic string, fn func(c *CPU, bus Bus, mode addressingMode)) {
	op(code, mnemonic, Relative, 2, 2, fn)
	e := opcodeTable[code]
	e.isBranch = true
	opcodeTable[code] = e
}

// crossOp marks an already-registered read opcode as billing +1 on
// page cross (ABX/ABY/IDY). Write instructions (STA et al.) never call
// this: they always charge the higher fixed count.
func crossOp(code uint8) {
	e := opcodeTable[code]
	e.extraOnCross = true
	opcodeTable[code] = e
}

const hexDigits = "0123456789ABCDEF"

func hexByte(b uint8) string {
	return string([]byte{hexDigits[b>>4], hexDigits[b&0xF]})
}

func init() {
	op(0x69, "ADC", Immediate, 2, 2, (*CPU).ADC)
	op(0x65, "ADC", ZeroPage, 2, 3, (*CPU).ADC)
	op(0x75, "ADC", ZeroPageX, 2, 4, (*CPU).ADC)
	op(0x6D, "ADC", Absolute, 3, 4, (*CPU).ADC)
	op(0x7D, "ADC", AbsoluteX, 3, 4, (*CPU).ADC)
	op(0x79, "ADC", AbsoluteY, 3, 4, (*CPU).ADC)
	op(0x61, "ADC", IndexedIndirect, 2, 6, (*CPU).ADC)
	op(0x71, "ADC", IndirectIndexed, 2, 5, (*CPU).ADC)
	crossOp(0x7D)
	crossOp(0x79)
	crossOp(0x71)

	op(0x29, "AND", Immediate, 2, 2, (*CPU).AND)
	op(0x25, "AND", ZeroPage, 2, 3, (*CPU).AND)
	op(0x35, "AND", ZeroPageX, 2, 4, (*CPU).AND)
	op(0x2D, "AND", Absolute, 3, 4, (*CPU).AND)
	op(0x3D, "AND", AbsoluteX, 3, 4, (*CPU).AND)
	op(0x39, "AND", AbsoluteY, 3, 4, (*CPU).AND)
	op(0x21, "AND", IndexedIndirect, 2, 6, (*CPU).AND)
	op(0x31, "AND", IndirectIndexed, 2, 5, (*CPU).AND)
	crossOp(0x3D)
	crossOp(0x39)
	crossOp(0x31)

	op(0x0A, "ASL", Accumulator, 1, 2, (*CPU).ASL)
	op(0x06, "ASL", ZeroPage, 2, 5, (*CPU).ASL)
	op(0x16, "ASL", ZeroPageX, 2, 6, (*CPU).ASL)
	op(0x0E, "ASL", Absolute, 3, 6, (*CPU).ASL)
	op(0x1E, "ASL", AbsoluteX, 3, 7, (*CPU).ASL)

	branchOp(0x90, "BCC", (*CPU).BCC)
	branchOp(0xB0, "BCS", (*CPU).BCS)
	branchOp(0xF0, "BEQ", (*CPU).BEQ)
	branchOp(0x30, "BMI", (*CPU).BMI)
	branchOp(0xD0, "BNE", (*CPU).BNE)
	branchOp(0x10, "BPL", (*CPU).BPL)
	branchOp(0x50, "BVC", (*CPU).BVC)
	branchOp(0x70, "BVS", (*CPU).BVS)

	op(0x24, "BIT", ZeroPage, 2, 3, (*CPU).BIT)
	op(0x2C, "BIT", Absolute, 3, 4, (*CPU).BIT)

	op(0x00, "BRK", Implied, 2, 7, (*CPU).BRK)

	op(0x18, "CLC", Implied, 1, 2, (*CPU).CLC)
	op(0xD8, "CLD", Implied, 1, 2, (*CPU).CLD)
	op(0x58, "CLI", Implied, 1, 2, (*CPU).CLI)
	op(0xB8, "CLV", Implied, 1, 2, (*CPU).CLV)

	op(0xC9, "CMP", Immediate, 2, 2, (*CPU).CMP)
	op(0xC5, "CMP", ZeroPage, 2, 3, (*CPU).CMP)
	op(0xD5, "CMP", ZeroPageX, 2, 4, (*CPU).CMP)
	op(0xCD, "CMP", Absolute, 3, 4, (*CPU).CMP)
	op(0xDD, "CMP", AbsoluteX, 3, 4, (*CPU).CMP)
	op(0xD9, "CMP", AbsoluteY, 3, 4, (*CPU).CMP)
	op(0xC1, "CMP", IndexedIndirect, 2, 6, (*CPU).CMP)
	op(0xD1, "CMP", IndirectIndexed, 2, 5, (*CPU).CMP)
	crossOp(0xDD)
	crossOp(0xD9)
	crossOp(0xD1)

	op(0xE0, "CPX", Immediate, 2, 2, (*CPU).CPX)
	op(0xE4, "CPX", ZeroPage, 2, 3, (*CPU).CPX)
	op(0xEC, "CPX", Absolute, 3, 4, (*CPU).CPX)

	op(0xC0, "CPY", Immediate, 2, 2, (*CPU).CPY)
	op(0xC4, "CPY", ZeroPage, 2, 3, (*CPU).CPY)
	op(0xCC, "CPY", Absolute, 3, 4, (*CPU).CPY)

	op(0xC6, "DEC", ZeroPage, 2, 5, (*CPU).DEC)
	op(0xD6, "DEC", ZeroPageX, 2, 6, (*CPU).DEC)
	op(0xCE, "DEC", Absolute, 3, 6, (*CPU).DEC)
	op(0xDE, "DEC", AbsoluteX, 3, 7, (*CPU).DEC)
	op(0xCA, "DEX", Implied, 1, 2, (*CPU).DEX)
	op(0x88, "DEY", Implied, 1, 2, (*CPU).DEY)

	op(0x49, "EOR", Immediate, 2, 2, (*CPU).EOR)
	op(0x45, "EOR", ZeroPage, 2, 3, (*CPU).EOR)
	op(0x55, "EOR", ZeroPageX, 2, 4, (*CPU).EOR)
	op(0x4D, "EOR", Absolute, 3, 4, (*CPU).EOR)
	op(0x5D, "EOR", AbsoluteX, 3, 4, (*CPU).EOR)
	op(0x59, "EOR", AbsoluteY, 3, 4, (*CPU).EOR)
	op(0x41, "EOR", IndexedIndirect, 2, 6, (*CPU).EOR)
	op(0x51, "EOR", IndirectIndexed, 2, 5, (*CPU).EOR)
	crossOp(0x5D)
	crossOp(0x59)
	crossOp(0x51)

	op(0xE6, "INC", ZeroPage, 2, 5, (*CPU).INC)
	op(0xF6, "INC", ZeroPageX, 2, 6, (*CPU).INC)
	op(0xEE, "INC", Absolute, 3, 6, (*CPU).INC)
	op(0xFE, "INC", AbsoluteX, 3, 7, (*CPU).INC)
	op(0xE8, "INX", Implied, 1, 2, (*CPU).INX)
	op(0xC8, "INY", Implied, 1, 2, (*CPU).INY)

	op(0x4C, "JMP", Absolute, 3, 3, (*CPU).JMP)
	op(0x6C, "JMP", Indirect, 3, 5, (*CPU).JMP)
	op(0x20, "JSR", Absolute, 3, 6, (*CPU).JSR)

	op(0xA9, "LDA", Immediate, 2, 2, (*CPU).LDA)
	op(0xA5, "LDA", ZeroPage, 2, 3, (*CPU).LDA)
	op(0xB5, "LDA", ZeroPageX, 2, 4, (*CPU).LDA)
	op(0xAD, "LDA", Absolute, 3, 4, (*CPU).LDA)
	op(0xBD, "LDA", AbsoluteX, 3, 4, (*CPU).LDA)
	op(0xB9, "LDA", AbsoluteY, 3, 4, (*CPU).LDA)
	op(0xA1, "LDA", IndexedIndirect, 2, 6, (*CPU).LDA)
	op(0xB1, "LDA", IndirectIndexed, 2, 5, (*CPU).LDA)
	crossOp(0xBD)
	crossOp(0xB9)
	crossOp(0xB1)

	op(0xA2, "LDX", Immediate, 2, 2, (*CPU).LDX)
	op(0xA6, "LDX", ZeroPage, 2, 3, (*CPU).LDX)
	op(0xB6, "LDX", ZeroPageY, 2, 4, (*CPU).LDX)
	op(0xAE, "LDX", Absolute, 3, 4, (*CPU).LDX)
	op(0xBE, "LDX", AbsoluteY, 3, 4, (*CPU).LDX)
	crossOp(0xBE)

	op(0xA0, "LDY", Immediate, 2, 2, (*CPU).LDY)
	op(0xA4, "LDY", ZeroPage, 2, 3, (*CPU).LDY)
	op(0xB4, "LDY", ZeroPageX, 2, 4, (*CPU).LDY)
	op(0xAC, "LDY", Absolute, 3, 4, (*CPU).LDY)
	op(0xBC, "LDY", AbsoluteX, 3, 4, (*CPU).LDY)
	crossOp(0xBC)

	op(0x4A, "LSR", Accumulator, 1, 2, (*CPU).LSR)
	op(0x46, "LSR", ZeroPage, 2, 5, (*CPU).LSR)
	op(0x56, "LSR", ZeroPageX, 2, 6, (*CPU).LSR)
	op(0x4E, "LSR", Absolute, 3, 6, (*CPU).LSR)
	op(0x5E, "LSR", AbsoluteX, 3, 7, (*CPU).LSR)

	op(0xEA, "NOP", Implied, 1, 2, (*CPU).NOP)

	op(0x09, "ORA", Immediate, 2, 2, (*CPU).ORA)
	op(0x05, "ORA", ZeroPage, 2, 3, (*CPU).ORA)
	op(0x15, "ORA", ZeroPageX, 2, 4, (*CPU).ORA)
	op(0x0D, "ORA", Absolute, 3, 4, (*CPU).ORA)
	op(0x1D, "ORA", AbsoluteX, 3, 4, (*CPU).ORA)
	op(0x19, "ORA", AbsoluteY, 3, 4, (*CPU).ORA)
	op(0x01, "ORA", IndexedIndirect, 2, 6, (*CPU).ORA)
	op(0x11, "ORA", IndirectIndexed, 2, 5, (*CPU).ORA)
	crossOp(0x1D)
	crossOp(0x19)
	crossOp(0x11)

	op(0x48, "PHA", Implied, 1, 3, (*CPU).PHA)
	op(0x08, "PHP", Implied, 1, 3, (*CPU).PHP)
	op(0x68, "PLA", Implied, 1, 4, (*CPU).PLA)
	op(0x28, "PLP", Implied, 1, 4, (*CPU).PLP)

	op(0x2A, "ROL", Accumulator, 1, 2, (*CPU).ROL)
	op(0x26, "ROL", ZeroPage, 2, 5, (*CPU).ROL)
	op(0x36, "ROL", ZeroPageX, 2, 6, (*CPU).ROL)
	op(0x2E, "ROL", Absolute, 3, 6, (*CPU).ROL)
	op(0x3E, "ROL", AbsoluteX, 3, 7, (*CPU).ROL)

	op(0x6A, "ROR", Accumulator, 1, 2, (*CPU).ROR)
	op(0x66, "ROR", ZeroPage, 2, 5, (*CPU).ROR)
	op(0x76, "ROR", ZeroPageX, 2, 6, (*CPU).ROR)
	op(0x6E, "ROR", Absolute, 3, 6, (*CPU).ROR)
	op(0x7E, "ROR", AbsoluteX, 3, 7, (*CPU).ROR)

	op(0x40, "RTI", Implied, 1, 6, (*CPU).RTI)
	op(0x60, "RTS", Implied, 1, 6, (*CPU).RTS)

	op(0xE9, "SBC", Immediate, 2, 2, (*CPU).SBC)
	op(0xE5, "SBC", ZeroPage, 2, 3, (*CPU).SBC)
	op(0xF5, "SBC", ZeroPageX, 2, 4, (*CPU).SBC)
	op(0xED, "SBC", Absolute, 3, 4, (*CPU).SBC)
	op(0xFD, "SBC", AbsoluteX, 3, 4, (*CPU).SBC)
	op(0xF9, "SBC", AbsoluteY, 3, 4, (*CPU).SBC)
	op(0xE1, "SBC", IndexedIndirect, 2, 6, (*CPU).SBC)
	op(0xF1, "SBC", IndirectIndexed, 2, 5, (*CPU).SBC)
	crossOp(0xFD)
	crossOp(0xF9)
	crossOp(0xF1)

	op(0x38, "SEC", Implied, 1, 2, (*CPU).SEC)
	op(0xF8, "SED", Implied, 1, 2, (*CPU).SED)
	op(0x78, "SEI", Implied, 1, 2, (*CPU).SEI)

	op(0x85, "STA", ZeroPage, 2, 3, (*CPU).STA)
	op(0x95, "STA", ZeroPageX, 2, 4, (*CPU).STA)
	op(0x8D, "STA", Absolute, 3, 4, (*CPU).STA)
	op(0x9D, "STA", AbsoluteX, 3, 5, (*CPU).STA)
	op(0x99, "STA", AbsoluteY, 3, 5, (*CPU).STA)
	op(0x81, "STA", IndexedIndirect, 2, 6, (*CPU).STA)
	op(0x91, "STA", IndirectIndexed, 2, 6, (*CPU).STA)

	op(0x86, "STX", ZeroPage, 2, 3, (*CPU).STX)
	op(0x96, "STX", ZeroPageY, 2, 4, (*CPU).STX)
	op(0x8E, "STX", Absolute, 3, 4, (*CPU).STX)

	op(0x84, "STY", ZeroPage, 2, 3, (*CPU).STY)
	op(0x94, "STY", ZeroPageX, 2, 4, (*CPU).STY)
	op(0x8C, "STY", Absolute, 3, 4, (*CPU).STY)

	op(0xAA, "TAX", Implied, 1, 2, (*CPU).TAX)
	op(0xA8, "TAY", Implied, 1, 2, (*CPU).TAY)
	op(0xBA, "TSX", Implied, 1, 2, (*CPU).TSX)
	op(0x8A, "TXA", Implied, 1, 2, (*CPU).TXA)
	op(0x9A, "TXS", Implied, 1, 2, (*CPU).TXS)
	op(0x98, "TYA", Implied, 1, 2, (*CPU).TYA)
}
