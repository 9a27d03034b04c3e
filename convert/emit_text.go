package convert

import (
	"bytes"
	"fmt"
)

// EmitText renders the labeled assembler-style listing described in §4.7:
// BAT/TILES/PALETTE sections with inline byte/word data, followed by a
// trailing comment block noting tile counts, dedup ratio and VRAM
// footprint.
func EmitText(res *ConversionResult) string {
	var b bytes.Buffer

	fmt.Fprintf(&b, "; generated tile graphics listing\n")
	fmt.Fprintf(&b, "; image: %dx%d px (%dx%d tiles), BAT: %dx%d at offset (%d,%d)\n\n",
		res.Width, res.Height, res.TilesW, res.TilesH, res.BATWidth, res.BATHeight, 0, 0)

	fmt.Fprintf(&b, "BAT:\n")
	for j := 0; j < res.BATHeight; j++ {
		fmt.Fprintf(&b, "\t.word ")
		for i := 0; i < res.BATWidth; i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "0x%04X", res.BAT[j*res.BATWidth+i].Word())
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "TILES:\n")
	for i, t := range res.UniqueTiles {
		planar := t.EncodePlanar()
		fmt.Fprintf(&b, "\t; tile %d\n\t.byte ", i)
		for j, bt := range planar {
			if j > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "0x%02X", bt)
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "PALETTE:\n")
	for p := 0; p < MaxPalettes; p++ {
		fmt.Fprintf(&b, "\t; palette %d\n\t.word ", p)
		for i := 0; i < PaletteSize; i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "0x%04X", res.Palettes[p][i].Word())
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	uniqueCount := len(res.UniqueTiles) - 1
	totalTiles := res.TilesW * res.TilesH
	ratio := 0.0
	if totalTiles > 0 {
		ratio = 1 - float64(uniqueCount+1)/float64(totalTiles)
	}
	vramFootprint := (uniqueCount + 1) * 32

	fmt.Fprintf(&b, "; tile count: %d\n", totalTiles)
	fmt.Fprintf(&b, "; unique tile count: %d\n", uniqueCount)
	fmt.Fprintf(&b, "; dedup ratio: %.2f%%\n", ratio*100)
	fmt.Fprintf(&b, "; vram footprint: %d bytes (base 0x%04X)\n", vramFootprint, res.VRAMBase)
	fmt.Fprintf(&b, "; used palettes: %d/%d\n", res.UsedPalettes, MaxPalettes)
	if res.Warnings.HasKind(VramOverflow) {
		fmt.Fprintf(&b, "; WARNING: %s\n", res.Warnings.Error())
	}

	return b.String()
}
