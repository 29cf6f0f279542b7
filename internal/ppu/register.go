package ppu

type addrReg struct {
	high, low uint8
	lowB      bool // true if we're writing the low byte, false if writing high byte
}

func (ar *addrReg) get() uint16 {
	return (uint16(ar.high) << 8) | uint16(ar.low)
}

func (ar *addrReg) set(val uint8) {
	switch ar.lowB {
	case true:
		ar.low = val
	default:
		ar.high = val
	}

	ar.lowB = !ar.lowB
}

func (ar *addrReg) reset() {
	ar.low, ar.high = 0, 0
	ar.lowB = false
}

// toggle flips which half the next write targets without touching the
// latched address, used by PPUSCROLL writes which share ADDR's toggle
// on real hardware but never touch its address bits (scrolling itself
// is out of scope here).
func (ar *addrReg) toggle() {
	ar.lowB = !ar.lowB
}

// resetToggle clears only the high/low write-toggle, leaving the
// latched address untouched. STATUS reads clear the toggle this way
// without discarding whatever ADDR/SCROLL had already latched.
func (ar *addrReg) resetToggle() {
	ar.lowB = false
}

// increment adds n to the latched address, wrapping within 14 bits the
// way PPUDATA's auto-increment does.
func (ar *addrReg) increment(n uint16) {
	v := (ar.get() + n) & 0x3FFF
	ar.high = uint8(v >> 8)
	ar.low = uint8(v)
}
