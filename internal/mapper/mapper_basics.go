// Package mapper implements and registers mappers that are referenced
// numerically by iNES ROM headers. Only mapper 0 (NROM) is supported; any
// other mapper id is a fatal configuration error (spec: cartridge ROM
// parsing beyond mapper 0 is out of scope).
package mapper

import (
	"github.com/pkg/errors"
	"github.com/retrobit/nescore/internal/cartridge"
)

// allMappers is a global registry of mapper constructors, keyed by iNES
// mapper id.
var allMappers = map[uint16]func() Mapper{}

// registerMapper adds a mapper constructor to the registry. Called from
// each mapper implementation's init().
func registerMapper(id uint16, name string, ctor func() Mapper) {
	if _, ok := allMappers[id]; ok {
		panic("mapper id " + name + " already registered")
	}
	allMappers[id] = ctor
}

// Get returns a freshly initialized mapper for rom, or an error if rom
// names a mapper id this emulator doesn't implement.
func Get(rom *cartridge.ROM) (Mapper, error) {
	id := rom.MapperNum()
	ctor, ok := allMappers[id]
	if !ok {
		return nil, errors.Errorf("unsupported mapper id %d (only mapper 0 is implemented)", id)
	}

	m := ctor()
	m.Init(rom)
	return m, nil
}

// Mapper is the interface the Bus uses to route cartridge-space accesses.
// CHR reads/writes also serve the PPU's pattern-table fetches.
type Mapper interface {
	ID() uint16
	Name() string
	Init(*cartridge.ROM)

	PrgRead(uint16) uint8
	PrgWrite(uint16, uint8)
	ChrRead(uint16) uint8
	ChrWrite(uint16, uint8)

	MirroringMode() uint8
	HasSaveRAM() bool
}

// baseMapper carries the fields and trivial passthroughs every mapper
// shares; concrete mappers embed it and only implement cartridge-specific
// address decoding.
type baseMapper struct {
	id   uint16
	name string
	rom  *cartridge.ROM
}

func (bm *baseMapper) ID() uint16 {
	return bm.id
}

func (bm *baseMapper) String() string {
	return bm.name
}

func (bm *baseMapper) Name() string {
	return bm.name
}

func (bm *baseMapper) Init(r *cartridge.ROM) {
	bm.rom = r
}

func (bm *baseMapper) MirroringMode() uint8 {
	return bm.rom.MirroringMode()
}

func (bm *baseMapper) HasSaveRAM() bool {
	return bm.rom.HasSaveRAM()
}
