package convert

// assembleTile implements §4.5 for a single tile: every pixel is mapped to
// its palette-local index. When a pixel's color isn't present in the
// palette (the overflow case from §4.4), the nearest palette entry by
// squared Euclidean RGB333 distance is used, ties broken toward the
// smaller index.
func assembleTile(levels []level3, w, tx, ty int, palette Palette) Tile {
	var t Tile
	for ry := 0; ry < TileSize; ry++ {
		y := ty*TileSize + ry
		for rx := 0; rx < TileSize; rx++ {
			x := tx*TileSize + rx
			c := levelToRGB333(levels[y*w+x])
			t[ry*TileSize+rx] = nearestPaletteIndex(c, palette)
		}
	}
	return t
}

// nearestPaletteIndex finds the palette entry closest to c, ties broken
// toward the smaller index (so an exact match at a low index always wins).
func nearestPaletteIndex(c RGB333, p Palette) uint8 {
	best := 0
	bestDist := dist2(c, p[0])
	for i := 1; i < PaletteSize; i++ {
		if d := dist2(c, p[i]); d < bestDist {
			bestDist, best = d, i
		}
	}
	return uint8(best)
}

// EncodePlanar packs a tile's 64 palette-local indices into the 32-byte
// four-bitplane layout (§4.5): bytes [0..7] carry bit0 of each row's 8
// column indices (MSB = column 0), [8..15] carry bit1, [16..23] bit2,
// [24..31] bit3 — the same bit-shift-and-mask technique the teacher's
// PPU.DrawPatternTables uses to decode the NES's 2-bitplane format,
// generalized here to 4 planes and to encoding rather than decoding.
func (t Tile) EncodePlanar() [32]byte {
	var out [32]byte
	for row := 0; row < TileSize; row++ {
		var planes [4]byte
		for col := 0; col < TileSize; col++ {
			idx := t[row*TileSize+col]
			for bit := 0; bit < 4; bit++ {
				if idx&(1<<uint(bit)) != 0 {
					planes[bit] |= 1 << uint(7-col)
				}
			}
		}
		for bit := 0; bit < 4; bit++ {
			out[bit*TileSize+row] = planes[bit]
		}
	}
	return out
}

// DecodePlanar reverses EncodePlanar, reconstructing the 64 palette-local
// indices from the 32-byte bitplane layout. Used by the round-trip decoder
// (§8 property 7) and by tests.
func DecodePlanar(buf [32]byte) Tile {
	var t Tile
	for row := 0; row < TileSize; row++ {
		var planes [4]byte
		for bit := 0; bit < 4; bit++ {
			planes[bit] = buf[bit*TileSize+row]
		}
		for col := 0; col < TileSize; col++ {
			var idx uint8
			for bit := 0; bit < 4; bit++ {
				if planes[bit]&(1<<uint(7-col)) != 0 {
					idx |= 1 << uint(bit)
				}
			}
			t[row*TileSize+col] = idx
		}
	}
	return t
}
