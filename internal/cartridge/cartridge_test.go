package cartridge

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	rom, err := LoadFile("../testdata/ram_after_reset.nes")
	require.NoError(t, err)
	require.EqualValues(t, 1, rom.NumPrgBlocks())
	require.EqualValues(t, 0, rom.MapperNum())
	require.False(t, rom.HasSaveRAM())

	// Reset vector baked into the fixture: PC should resolve to 0x8000
	// once the mapper maps PRG offset 0x3FFC/0x3FFD onto 0xFFFC/0xFFFD.
	require.EqualValues(t, 0x00, rom.PrgRead(0x3FFC))
	require.EqualValues(t, 0x80, rom.PrgRead(0x3FFD))
}

func TestNewRejectsBadMagic(t *testing.T) {
	bad := make([]byte, 16+PRG_BLOCK_SIZE+CHR_BLOCK_SIZE)
	copy(bad, "BOB\x1A")
	bad[4], bad[5] = 1, 1

	_, err := New(bytes.NewReader(bad))
	require.Error(t, err)
}
