package convert

import (
	"encoding/binary"
	"image"
	"image/color"
)

// BATLayout carries the geometry needed to decode a previously-emitted set
// of binary artifacts back into pixels — everything EmitBinary's caller
// already knows but that isn't recoverable from the byte streams alone.
type BATLayout struct {
	BATWidth, BATHeight int
	OffsetX, OffsetY    int
	TilesW, TilesH      int
	VRAMBase            uint16
	Endian              StreamEndian
}

// DecodeArtifacts reconstructs the W*8 x H*8 preview image from the three
// binary streams EmitBinary produced, used to validate the round-trip
// property (§8 #7): decoding the BAT + tiles + palette back into an image
// yields the same pixel buffer as ConversionResult.Preview.
func DecodeArtifacts(bat, tiles, palette []byte, layout BATLayout) (*image.RGBA, error) {
	palettes, err := decodePaletteStream(palette, layout.Endian.Palette)
	if err != nil {
		return nil, err
	}

	batEntries, err := decodeBATStream(bat, layout.BATWidth, layout.BATHeight, layout.Endian.BAT)
	if err != nil {
		return nil, err
	}

	tileList, err := decodeTilesStream(tiles, layout.Endian.Tiles)
	if err != nil {
		return nil, err
	}

	w := layout.TilesW * TileSize
	h := layout.TilesH * TileSize
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for ty := 0; ty < layout.TilesH; ty++ {
		for tx := 0; tx < layout.TilesW; tx++ {
			bi := (ty+layout.OffsetY)*layout.BATWidth + (tx + layout.OffsetX)
			entry := batEntries[bi]

			byteOffset := int(entry.TileOffset)<<4 - int(layout.VRAMBase)
			uniqueIdx := byteOffset / 32
			if uniqueIdx < 0 || uniqueIdx >= len(tileList) {
				return nil, newError(InvalidInput, "decode: BAT entry references out-of-range tile %d", uniqueIdx)
			}

			pal := palettes[entry.PaletteIndex]
			tile := tileList[uniqueIdx]

			for ry := 0; ry < TileSize; ry++ {
				for rx := 0; rx < TileSize; rx++ {
					c := pal[tile[ry*TileSize+rx]]
					img.SetRGBA(tx*TileSize+rx, ty*TileSize+ry, color.RGBA{
						R: expand3to8(c.R), G: expand3to8(c.G), B: expand3to8(c.B), A: 0xFF,
					})
				}
			}
		}
	}

	return img, nil
}

// expand3to8 rescales an RGB333 channel (0-7) back to 8-bit for display,
// using the same round(level*255/7) mapping as snapTo8.
func expand3to8(level uint8) uint8 { return snapTo8(level) }

func decodePaletteStream(buf []byte, endian Endianness) ([MaxPalettes]Palette, error) {
	var out [MaxPalettes]Palette
	order := byteOrder(endian)
	if len(buf) != MaxPalettes*PaletteSize*2 {
		return out, newError(InvalidInput, "palette stream must be %d bytes, got %d", MaxPalettes*PaletteSize*2, len(buf))
	}
	for p := 0; p < MaxPalettes; p++ {
		for i := 0; i < PaletteSize; i++ {
			word := order.Uint16(buf[(p*PaletteSize+i)*2:])
			out[p][i] = wordToRGB333(word)
		}
	}
	return out, nil
}

func wordToRGB333(word uint16) RGB333 {
	return RGB333{
		R: uint8((word >> 5) & 0x7),
		G: uint8((word >> 8) & 0x7),
		B: uint8((word >> 2) & 0x7),
	}
}

func decodeBATStream(buf []byte, bw, bh int, endian Endianness) ([]BATEntry, error) {
	if len(buf) != bw*bh*2 {
		return nil, newError(InvalidInput, "BAT stream must be %d bytes, got %d", bw*bh*2, len(buf))
	}
	order := byteOrder(endian)
	out := make([]BATEntry, bw*bh)
	for i := range out {
		word := order.Uint16(buf[i*2:])
		out[i] = BATEntry{
			PaletteIndex: uint8(word >> 12),
			TileOffset:   word & 0x0FFF,
		}
	}
	return out, nil
}

func decodeTilesStream(buf []byte, endian Endianness) ([]Tile, error) {
	if len(buf)%32 != 0 {
		return nil, newError(InvalidInput, "tiles stream length %d is not a multiple of 32", len(buf))
	}
	order := byteOrder(endian)
	count := len(buf) / 32
	out := make([]Tile, count)
	for i := 0; i < count; i++ {
		var planar [32]byte
		base := i * 32
		for p := 0; p < 16; p++ {
			word := readWord(order, buf[base+p*2:])
			planar[p*2] = byte(word >> 8)
			planar[p*2+1] = byte(word)
		}
		out[i] = DecodePlanar(planar)
	}
	return out, nil
}

func readWord(order binary.ByteOrder, buf []byte) uint16 {
	return order.Uint16(buf)
}
