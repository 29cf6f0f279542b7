package bus

import (
	"github.com/pkg/errors"
	"github.com/retrobit/nescore/internal/cartridge"
	"github.com/retrobit/nescore/internal/mapper"
)

// Load parses an iNES image from path, resolves its mapper, and returns a
// Bus ready to Reset and run. Any mapper id other than 0 is a fatal
// configuration error.
func Load(path string) (*Bus, error) {
	rom, err := cartridge.LoadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "bus: couldn't load cartridge")
	}

	m, err := mapper.Get(rom)
	if err != nil {
		return nil, errors.Wrap(err, "bus: couldn't resolve mapper")
	}

	return New(m), nil
}
