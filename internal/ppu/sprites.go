package ppu

type priority uint8

const (
	FRONT priority = iota
	BACK
)

// oam is one 4-byte OAM entry decoded into its component fields: the
// sprite's top-left corner, which 8x8 (or 8x16) tile it draws, and the
// attribute byte's palette/priority/flip bits.
type oam struct {
	y, tileId, x uint8

	palette      uint8
	renderP      priority
	flipV, flipH bool
}

// OAMFromBytes decodes one 4-byte OAM entry (Y, tile, attributes, X) as
// laid out by OAMDATA writes.
// https://www.nesdev.org/wiki/PPU_OAM
func OAMFromBytes(in []uint8) oam {
	attr := in[2]
	return oam{
		y:       in[0],
		tileId:  in[1],
		x:       in[3],
		palette: attr & 0x03,
		renderP: priority((attr >> 5) & 0x01),
		flipH:   attr&0x40 != 0,
		flipV:   attr&0x80 != 0,
	}
}

// spriteSlot is a decoded OAM entry latched for rendering during the
// scanline following the one it was evaluated on, plus the OAM index it
// came from (needed to recognize sprite 0 for the sprite-0-hit test).
type spriteSlot struct {
	oam   oam
	index int
}

// evaluateSprites scans all 64 OAM entries for the ones visible on the
// scanline right after the current one, latching up to 8 of them and
// setting the overflow flag when more than 8 qualify. Spec's literal
// selection rule is an exact Y-equality test against a single dot, which
// only ever selects a sprite's first row; it is generalized here to a
// Y-range test so 8x16 sprites (a register bit the spec requires
// observable effects for) actually render their lower rows across
// consecutive scanlines.
func (p *PPU) evaluateSprites() {
	height := int(p.ctrl.spriteSize)
	nextLine := p.line + 1

	p.sprites = p.sprites[:0]
	count := 0
	for i := 0; i < 64; i++ {
		y := int(p.oamData[i*4])
		if nextLine < y || nextLine >= y+height {
			continue
		}
		if count >= 8 {
			p.status |= STATUS_SPRITE_OVERFLOW
			continue
		}
		p.sprites = append(p.sprites, spriteSlot{
			oam:   OAMFromBytes(p.oamData[i*4 : i*4+4]),
			index: i,
		})
		count++
	}
	p.spriteCount = count
}

// spritePatternAddr resolves the CHR address of the low bitplane for
// row (0-based, already flip-adjusted) within sprite s.
func (p *PPU) spritePatternAddr(s spriteSlot, row int) uint16 {
	if p.ctrl.spriteSize == 16 {
		half := uint16(0)
		if s.oam.tileId&0x01 != 0 {
			half = 0x1000
		}
		tile := s.oam.tileId &^ 0x01
		if row >= 8 {
			tile++
			row -= 8
		}
		return half | uint16(tile)<<4 | uint16(row)
	}
	return p.ctrl.spritePatternHalf | uint16(s.oam.tileId)<<4 | uint16(row)
}

// spritePixelAt returns the 2-bit color index sprite s contributes at
// absolute screen column x on the current scanline, honoring flip, and
// whether that index is non-transparent.
func (p *PPU) spritePixelAt(bus Bus, s spriteSlot, x int) (uint8, bool) {
	// p.line here is the scanline being rendered, which is exactly the
	// nextLine value evaluateSprites tested this sprite against, so the
	// row offset is direct with no further +1 adjustment.
	height := int(p.ctrl.spriteSize)
	row := p.line - int(s.oam.y)
	if row < 0 || row >= height {
		return 0, false
	}
	if s.oam.flipV {
		row = height - 1 - row
	}

	deltaX := x - int(s.oam.x)
	if deltaX < 0 || deltaX > 7 {
		return 0, false
	}
	var bit uint
	if s.oam.flipH {
		bit = uint(deltaX)
	} else {
		bit = uint(7 - deltaX)
	}

	addr := p.spritePatternAddr(s, row)
	plane0 := bus.ChrRead(addr)
	plane1 := bus.ChrRead(addr + 8)
	idx := ((plane1>>bit)&1)<<1 | ((plane0 >> bit) & 1)
	return idx, idx != 0
}
