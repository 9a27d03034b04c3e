package convert

// composeBAT implements §4.6's BAT composition over a user-configured
// (bw,bh)-tile grid, with the (tilesW,tilesH) image placed at tile offset
// (ox,oy). Entries outside the image region reference unique-tile index 0
// with palette index 0. Returns the BAT entries in row-major grid order and
// an overflow warning (non-nil, non-fatal, §7) when any in-image entry's
// unique index or VRAM address would not fit the 16-bit word.
func composeBAT(tileToUnique, tileToPalette []int, tilesW, tilesH, bw, bh, ox, oy int, vramBase uint16) (entries []BATEntry, warn *Error) {
	entries = make([]BATEntry, bw*bh)

	for j := 0; j < bh; j++ {
		for i := 0; i < bw; i++ {
			tx, ty := i-ox, j-oy
			gi := j*bw + i
			if tx < 0 || tx >= tilesW || ty < 0 || ty >= tilesH {
				entries[gi] = BATEntry{PaletteIndex: 0, TileOffset: vramBase >> 4}
				continue
			}

			ti := ty*tilesW + tx
			unique := tileToUnique[ti]
			pal := tileToPalette[ti]

			byteOffset := unique*32 + int(vramBase)
			if unique >= 4096 || byteOffset > 0xFFFF {
				if warn == nil {
					warn = newError(VramOverflow, "unique tile %d at VRAM base 0x%04X exceeds 16-bit addressing", unique, vramBase)
				}
			}

			entries[gi] = BATEntry{
				PaletteIndex: uint8(pal),
				TileOffset:   uint16(byteOffset>>4) & 0x0FFF,
			}
		}
	}

	return entries, warn
}
