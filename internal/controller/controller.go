// Package controller implements the NES's one-bit-per-read shift-register
// joypad protocol exposed to the CPU at 0x4016.
package controller

// Button bit positions within a polled input byte, fixed by hardware wiring
// order: A, B, Select, Start, Up, Down, Left, Right.
const (
	ButtonA = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller is a single standard NES joypad: an 8-bit shadow register that
// shifts out one button per read while latched, and reloads from the host's
// polled input byte while strobing.
type Controller struct {
	shadow uint8
	strobe bool
	input  uint8
}

// SetInput publishes the host's current button state. The host owns
// key-to-bit translation; this is just the raw byte (bit0=A .. bit7=Right).
func (c *Controller) SetInput(b uint8) {
	c.input = b
}

// Write handles a CPU store to 0x4016. Writing 1 arms the strobe and loads
// the shadow register from the current input; writing 0 releases it,
// letting subsequent reads shift the shadow out one bit at a time.
func (c *Controller) Write(val uint8) {
	if val&0x01 != 0 {
		c.strobe = true
		c.shadow = c.input
	} else {
		c.strobe = false
	}
}

// Read handles a CPU load from 0x4016: the shadow's bit 0, then (unless
// still strobing) shifts the shadow right one bit so the next read sees the
// next button.
func (c *Controller) Read() uint8 {
	ret := c.shadow & 0x01
	if !c.strobe {
		c.shadow >>= 1
	}
	return ret
}
