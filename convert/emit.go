package convert

import (
	"bytes"
	"encoding/binary"
	"io"
)

func byteOrder(e Endianness) binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// WriteBAT emits the Bw*Bh 16-bit BAT words to w in the configured byte
// order (§4.7, §6). This mirrors the teacher's own use of encoding/binary
// against an io.Writer/io.Reader in nes/cartridge.go's loadRom, rather than
// a reflection-based struct-tag packing library.
func WriteBAT(w io.Writer, entries []BATEntry, endian Endianness) error {
	order := byteOrder(endian)
	buf := make([]byte, len(entries)*2)
	for i, e := range entries {
		order.PutUint16(buf[i*2:], e.Word())
	}
	_, err := w.Write(buf)
	return err
}

// WriteTiles emits (unique_count+1)*32 bytes: the planar encoding of each
// unique tile (index 0 is always the all-zero tile), back-to-back. Per the
// teacher's tinygba DefineTile4bpp (which writes VRAM tile bytes two at a
// time as 16-bit words), each tile's 32 bytes are grouped into 16-bit
// words and the endian flag controls their byte order; within a row byte,
// column 0 is always the MSB regardless of endianness (§4.7).
func WriteTiles(w io.Writer, tiles []Tile, endian Endianness) error {
	order := byteOrder(endian)
	buf := make([]byte, len(tiles)*32)
	for i, t := range tiles {
		planar := t.EncodePlanar()
		base := i * 32
		for p := 0; p < 16; p++ {
			word := uint16(planar[p*2])<<8 | uint16(planar[p*2+1])
			order.PutUint16(buf[base+p*2:], word)
		}
	}
	_, err := w.Write(buf)
	return err
}

// WritePalette emits the fixed 512-byte palette stream: 16 palettes of 16
// entries, 2 bytes each. Every slot (even beyond the configured K, and
// beyond `used` within K) is already populated with the background color
// word by buildPalettes, so this simply serializes all 16x16 entries.
func WritePalette(w io.Writer, palettes [MaxPalettes]Palette, endian Endianness) error {
	order := byteOrder(endian)
	buf := make([]byte, MaxPalettes*PaletteSize*2)
	for p := 0; p < MaxPalettes; p++ {
		for i := 0; i < PaletteSize; i++ {
			order.PutUint16(buf[(p*PaletteSize+i)*2:], palettes[p][i].Word())
		}
	}
	_, err := w.Write(buf)
	return err
}

// BinaryArtifacts holds the three emitted binary streams together.
type BinaryArtifacts struct {
	BAT     []byte
	Tiles   []byte
	Palette []byte
}

// EmitBinary produces the three binary artifacts for a ConversionResult in
// one call, per §4.7 / §6.
func EmitBinary(res *ConversionResult, endian StreamEndian) (*BinaryArtifacts, error) {
	var bat, tiles, pal bytes.Buffer

	if err := WriteBAT(&bat, res.BAT, endian.BAT); err != nil {
		return nil, wrapError(Internal, err, "emit: BAT stream")
	}
	if err := WriteTiles(&tiles, res.UniqueTiles, endian.Tiles); err != nil {
		return nil, wrapError(Internal, err, "emit: tiles stream")
	}
	if err := WritePalette(&pal, res.Palettes, endian.Palette); err != nil {
		return nil, wrapError(Internal, err, "emit: palette stream")
	}

	return &BinaryArtifacts{
		BAT:     bat.Bytes(),
		Tiles:   tiles.Bytes(),
		Palette: pal.Bytes(),
	}, nil
}
