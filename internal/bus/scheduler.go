package bus

// RunFrame advances the emulation by exactly 29780 CPU cycles, one 1/60s
// frame's worth. An instruction still in flight when the frame ends keeps
// its remaining cycles and finishes in the next call. The host is expected to have already
// published this frame's controller state via SetControllerInput.
func (b *Bus) RunFrame() error {
	for i := 0; i < framesCPUCycles; i++ {
		if err := b.stepCPUCycle(); err != nil {
			return err
		}
	}
	return nil
}

// StepInstruction runs the co-scheduler forward exactly one CPU
// instruction: if one isn't already in flight it loads the next, then
// ticks until that instruction's execute phase has run and the cycle
// countdown returns to zero. Used by the interactive debugger instead of
// RunFrame's fixed 29780-cycle stride.
func (b *Bus) StepInstruction() error {
	if b.cyclesLeft == 0 {
		if err := b.stepCPUCycle(); err != nil {
			return err
		}
	}
	for b.cyclesLeft != 0 {
		if err := b.stepCPUCycle(); err != nil {
			return err
		}
	}
	return nil
}

// stepCPUCycle performs exactly one CPU-cycle tick of the co-scheduler:
// on the cycle an instruction is due, either service a pending NMI or load
// the next instruction and latch its total cost; on the cycle before the
// next load, apply the loaded instruction's effects; every cycle, tick the
// PPU three times. A pending NMI is serviced at the next instruction
// boundary rather than interrupting mid-instruction, matching hardware and
// the ordering guarantee that the handler begins at an instruction
// boundary plus its own 7-cycle charge.
func (b *Bus) stepCPUCycle() error {
	switch b.cyclesLeft {
	case 0:
		if b.pendingNMI {
			b.pendingNMI = false
			b.cpu.NMI(b)
			b.cyclesLeft = 7
		} else {
			n, err := b.cpu.LoadInstruction(b)
			if err != nil {
				return err
			}
			b.cyclesLeft = n
		}
	case 1:
		if err := b.cpu.ExecuteInstruction(b); err != nil {
			return err
		}
	}

	for i := 0; i < ppuTicksPerCPUTick; i++ {
		if n := b.ppu.Tick(b); n > 0 {
			b.pendingNMI = true
		}
	}

	b.cyclesLeft--
	return nil
}
