package main

import (
	"fmt"
	"image"
	"os"

	"github.com/flga/tilegfx/convert"
)

// loadMask decodes a mask image and binarizes it: any pixel whose combined
// RGB value is nonzero enables dithering there (per §6's mask contract).
// Dimensions must exactly match the conversion target.
func loadMask(path string, w, h int) (*convert.DitherMask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load mask: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load mask %s: %w", path, err)
	}

	b := img.Bounds()
	if b.Dx() != w || b.Dy() != h {
		return nil, fmt.Errorf("load mask %s: dimensions %dx%d do not match target %dx%d", path, b.Dx(), b.Dy(), w, h)
	}

	bits := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if r != 0 || g != 0 || bl != 0 {
				bits[y*w+x] = 1
			}
		}
	}

	return &convert.DitherMask{W: w, H: h, Bits: bits}, nil
}
