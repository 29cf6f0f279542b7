// Command nesdebug is an interactive, single-step inspector for the
// emulator core: step one CPU instruction at a time and watch the
// register file, a slice of the address space, and the PPU's scanline
// position update, instead of running the ebiten front end at speed.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/retrobit/nescore/internal/bus"
	"github.com/retrobit/nescore/internal/cpu"
)

// model is the bubbletea state: the running emulator plus just enough
// bookkeeping to render the previous step and surface a fatal error
// once the program quits.
type model struct {
	b      *bus.Bus
	offset uint16 // page-table window start, scrolled with n/p

	prevPC uint16
	err    error
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			m.prevPC = m.b.CPU().PC
			if err := m.b.StepInstruction(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		case "n":
			m.offset += 16 * 10
		case "p":
			m.offset -= 16 * 10
		}
	}
	return m, nil
}

// renderPage renders one 16-byte row of the CPU address space, with the
// byte at PC bracketed.
func (m model) renderPage(start uint16) string {
	pc := m.b.CPU().PC
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		addr := start + i
		v := m.b.Read(addr)
		if addr == pc {
			s += fmt.Sprintf("[%02x] ", v)
		} else {
			s += fmt.Sprintf(" %02x  ", v)
		}
	}
	return s
}

func (m model) pageTable() string {
	header := "addr | "
	for b := 0; b < 16; b++ {
		header += fmt.Sprintf("  %01x  ", b)
	}

	rows := []string{header}
	base := m.offset - (m.offset % 16)
	for i := 0; i < 10; i++ {
		rows = append(rows, m.renderPage(base+uint16(i*16)))
	}
	return strings.Join(rows, "\n")
}

func (m model) status() string {
	c := m.b.CPU()
	line, dot := m.b.PPUPosition()

	var flags string
	for _, set := range []bool{
		c.P&cpu.FlagNegative != 0,
		c.P&cpu.FlagOverflow != 0,
		c.P&cpu.FlagUnused != 0,
		c.P&cpu.FlagBreak != 0,
		c.P&cpu.FlagDecimal != 0,
		c.P&cpu.FlagInterrupt != 0,
		c.P&cpu.FlagZero != 0,
		c.P&cpu.FlagCarry != 0,
	} {
		if set {
			flags += "/ "
		} else {
			flags += "  "
		}
	}

	return fmt.Sprintf(`
PC: %04x (%04x)
 A: %02x
 X: %02x
 Y: %02x
 S: %02x
cyc: %d
ppu: line %d dot %d
N V _ B D I Z C
%s`,
		c.PC, m.prevPC, c.A, c.X, c.Y, c.S, c.TotalCycles, line, dot, flags)
}

// View renders the page table, register status, and a structured dump
// of the most recently decoded mnemonic: after a step, the instruction
// that step executed (the one at PC is not decoded yet).
func (m model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		spew.Sdump(m.b.CPU().CurrentMnemonic()),
		"space/j: step one instruction    n/p: scroll memory    q: quit",
	)
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("usage: %s <cartridge.nes>", os.Args[0])
	}

	b, err := bus.Load(flag.Arg(0))
	if err != nil {
		log.Fatalf("couldn't load cartridge: %v", err)
	}
	b.Reset()

	final, err := tea.NewProgram(model{b: b}).Run()
	if err != nil {
		log.Fatal(err)
	}

	if m, ok := final.(model); ok && m.err != nil {
		fmt.Fprintln(os.Stderr, "halted:", m.err)
		os.Exit(1)
	}
}
