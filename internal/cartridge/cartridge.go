// Package cartridge implements support for the NES (iNES) ROM format.
// https://www.nesdev.org/wiki/INES
package cartridge

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

type PlayChoicePROM struct {
	Data       [16]byte
	CounterOut [16]byte
}

// ROM holds a fully parsed iNES cartridge image: header plus the raw PRG
// and CHR banks a mapper indexes into.
type ROM struct {
	h         *header
	trainer   []byte // if present
	prg       []byte // 16384 * prgSize bytes
	chr       []byte // 8192 * chrSize bytes
	pcInstRom []byte
	pcPROM    *PlayChoicePROM
}

const (
	TRAINER_SIZE   = 512
	PRG_BLOCK_SIZE = 16384
	CHR_BLOCK_SIZE = 8192
	PC_INST_SIZE   = 8192
	PC_PROM_SIZE   = 32
)

// New parses an iNES image from r: a 16-byte header, an optional 512-byte
// trainer, the PRG bank(s), the CHR bank(s), and (rarely) PlayChoice data.
func New(r io.Reader) (*ROM, error) {
	hbytes := make([]byte, 16)
	if n, err := io.ReadFull(r, hbytes); n != 16 || err != nil {
		return nil, errors.Wrap(err, "couldn't read iNES header")
	}

	rom := &ROM{h: parseHeader(hbytes)}
	if !rom.h.isINesFormat() {
		return nil, errors.Errorf("not an iNES image: bad constant %q", hbytes[0:4])
	}

	if rom.h.hasTrainer() {
		rom.trainer = make([]byte, TRAINER_SIZE)
		if n, err := io.ReadFull(r, rom.trainer); n != TRAINER_SIZE || err != nil {
			return nil, errors.Wrap(err, "couldn't read trainer data")
		}
	}

	s := PRG_BLOCK_SIZE * int(rom.h.prgSize)
	rom.prg = make([]byte, s)
	if n, err := io.ReadFull(r, rom.prg); n != s || err != nil {
		return nil, errors.Wrapf(err, "couldn't read PRG ROM (read %d, wanted %d)", n, s)
	}

	s = CHR_BLOCK_SIZE * int(rom.h.chrSize)
	rom.chr = make([]byte, s)
	if n, err := io.ReadFull(r, rom.chr); n != s || err != nil {
		return nil, errors.Wrapf(err, "couldn't read CHR ROM (read %d, wanted %d)", n, s)
	}

	if rom.h.hasPlayChoice() {
		rom.pcInstRom = make([]byte, PC_INST_SIZE)
		if n, err := io.ReadFull(r, rom.pcInstRom); n != PC_INST_SIZE || err != nil {
			return nil, errors.Wrapf(err, "couldn't read PlayChoice INST ROM (read %d, wanted %d)", n, PC_INST_SIZE)
		}

		pcprom := make([]byte, PC_PROM_SIZE)
		if n, err := io.ReadFull(r, pcprom); n != PC_PROM_SIZE || err != nil {
			return nil, errors.Wrapf(err, "couldn't read PlayChoice PROM (read %d, wanted %d)", n, PC_PROM_SIZE)
		}
		rom.pcPROM = &PlayChoicePROM{}
		copy(rom.pcPROM.Data[:], pcprom)
	}

	return rom, nil
}

// LoadFile opens path and parses it as an iNES image.
func LoadFile(path string) (*ROM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't open ROM file %q", path)
	}
	defer f.Close()

	rom, err := New(f)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't parse ROM file %q", path)
	}
	return rom, nil
}

func (r *ROM) NumPrgBlocks() uint8 {
	return r.h.prgSize
}

func (r *ROM) String() string {
	return r.h.String()
}

func (r *ROM) PrgRead(addr uint16) uint8 {
	return r.prg[int(addr)%len(r.prg)]
}

func (r *ROM) PrgWrite(addr uint16, val uint8) {
	r.prg[int(addr)%len(r.prg)] = val
}

func (r *ROM) ChrRead(addr uint16) uint8 {
	return r.chr[int(addr)%len(r.chr)]
}

func (r *ROM) ChrWrite(addr uint16, val uint8) {
	r.chr[int(addr)%len(r.chr)] = val
}

// MapperNum returns the iNES mapper id assembled from the header.
func (r *ROM) MapperNum() uint16 {
	return uint16(r.h.mapperNum())
}

func (r *ROM) MirroringMode() uint8 {
	return r.h.mirroringMode()
}

func (r *ROM) HasSaveRAM() bool {
	return r.h.hasPrgRAM()
}
