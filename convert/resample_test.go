package convert

import (
	"context"
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestResampleExactDimensionsRegardlessOfAspect(t *testing.T) {
	src := solidImage(37, 81, color.RGBA{10, 20, 30, 255})

	for _, algo := range []ResizeAlgo{Nearest, CatmullRom, Lanczos3} {
		out, err := resample(context.Background(), src, algo, 64, 32, false, [3]uint8{0, 0, 0})
		if err != nil {
			t.Fatalf("resample(%v) error: %v", algo, err)
		}
		if len(out) != 64*32 {
			t.Fatalf("resample(%v) produced %d pixels, want %d", algo, len(out), 64*32)
		}
	}
}

func TestResampleSolidColorStaysSolid(t *testing.T) {
	src := solidImage(40, 40, color.RGBA{10, 20, 30, 255})

	out, err := resample(context.Background(), src, CatmullRom, 16, 16, false, [3]uint8{0, 0, 0})
	if err != nil {
		t.Fatalf("resample error: %v", err)
	}
	for i, p := range out {
		if p.R != 10 || p.G != 20 || p.B != 30 {
			t.Fatalf("pixel %d = %+v, want {10,20,30}", i, p)
		}
	}
}

func TestResampleKeepRatioLetterboxesWithBackground(t *testing.T) {
	// 10x20 source into a 20x20 target with keepRatio: scale = min(20/10,20/20)=1,
	// destW=10,destH=20, centered horizontally leaving 5px bg on each side.
	src := solidImage(10, 20, color.RGBA{200, 200, 200, 255})
	bg := [3]uint8{1, 2, 3}

	out, err := resample(context.Background(), src, Nearest, 20, 20, true, bg)
	if err != nil {
		t.Fatalf("resample error: %v", err)
	}

	corner := out[0] // (0,0) should be letterbox background
	if corner.R != bg[0] || corner.G != bg[1] || corner.B != bg[2] {
		t.Fatalf("letterbox corner = %+v, want background %v", corner, bg)
	}

	center := out[10*20+10] // roughly mid-image, should be the source color
	if center.R != 200 {
		t.Fatalf("center pixel = %+v, want source color", center)
	}
}

func TestResampleCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := solidImage(200, 200, color.RGBA{1, 1, 1, 255})
	_, err := resample(ctx, src, CatmullRom, 512, 512, false, [3]uint8{0, 0, 0})
	if err == nil {
		t.Fatal("expected an error from a pre-cancelled context")
	}
}

func TestCompositeAgainstBackgroundFlattensAlpha(t *testing.T) {
	src := solidImage(2, 2, color.RGBA{255, 0, 0, 0}) // fully transparent red
	out := compositeAgainstBackground(src, [3]uint8{9, 9, 9})
	for _, p := range out {
		if p.R != 9 || p.G != 9 || p.B != 9 {
			t.Fatalf("fully transparent pixel = %+v, want background {9,9,9}", p)
		}
	}
}
