package convert

import "testing"

func TestDitherNoneMatchesPlainSnap(t *testing.T) {
	post := []rgb8{{10, 20, 30}, {200, 100, 50}}
	got := dither(post, 2, 1, DitherNone, nil, 1)
	for i, p := range post {
		want := level3{snapLevel(p.R), snapLevel(p.G), snapLevel(p.B)}
		if got[i] != want {
			t.Fatalf("dither(None)[%d] = %+v, want %+v", i, got[i], want)
		}
	}
}

func TestDitherIsDeterministicForFixedSeed(t *testing.T) {
	post := make([]rgb8, 32*32)
	for i := range post {
		post[i] = rgb8{uint8(i % 251), uint8((i * 3) % 241), uint8((i * 7) % 239)}
	}

	a := ditherFloydSteinberg(post, 32, 32, nil, 42)
	b := ditherFloydSteinberg(post, 32, 32, nil, 42)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic output at pixel %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestDitherFloydSteinbergMaskGatesPixels(t *testing.T) {
	w, h := 4, 4
	post := make([]rgb8, w*h)
	for i := range post {
		post[i] = rgb8{128, 128, 128}
	}

	mask := &DitherMask{W: w, H: h, Bits: make([]uint8, w*h)} // all zero: dithering disabled everywhere

	got := ditherFloydSteinberg(post, w, h, mask, 1)
	want := snapLevel(128)
	for i, l := range got {
		if l.R != want || l.G != want || l.B != want {
			t.Fatalf("masked-off pixel %d = %+v, want plain snap %d", i, l, want)
		}
	}
}

func TestDitherOrderedMaskGatesPixels(t *testing.T) {
	w, h := 8, 8
	post := make([]rgb8, w*h)
	for i := range post {
		post[i] = rgb8{100, 100, 100}
	}
	mask := &DitherMask{W: w, H: h, Bits: make([]uint8, w*h)}

	got := ditherOrdered(post, w, h, mask, 1)
	want := snapLevel(100)
	for i, l := range got {
		if l.R != want {
			t.Fatalf("masked-off ordered-dither pixel %d = %+v, want %d", i, l, want)
		}
	}
}

func TestDitherOrderedUsesBayerThreshold(t *testing.T) {
	// A mid-gray value that sits exactly between two RGB333 levels will be
	// pushed above or below depending on the Bayer cell, producing more
	// than one distinct output level across an 8x8 tile.
	w, h := 8, 8
	half := quantStep / 2 // halfway between level 0 and level 1
	mid := uint8(half)
	post := make([]rgb8, w*h)
	for i := range post {
		post[i] = rgb8{mid, mid, mid}
	}

	got := ditherOrdered(post, w, h, nil, 7)
	seen := map[uint8]bool{}
	for _, l := range got {
		seen[l.R] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected ordered dither to produce multiple levels across a flat mid-gray tile, got %v", seen)
	}
}

func TestBayer8IsAPermutationOf0to63(t *testing.T) {
	seen := make(map[int]bool)
	for _, row := range bayer8 {
		for _, v := range row {
			if v < 0 || v > 63 || seen[v] {
				t.Fatalf("bayer8 value %d invalid or duplicated", v)
			}
			seen[v] = true
		}
	}
	if len(seen) != 64 {
		t.Fatalf("bayer8 has %d distinct values, want 64", len(seen))
	}
}
