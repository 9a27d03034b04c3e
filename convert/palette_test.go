package convert

import "testing"

func TestBuildPalettesBackgroundIsIndexZeroEverywhere(t *testing.T) {
	bg := RGB333{2, 2, 2}
	tilesW, tilesH := 2, 2
	w, h := tilesW*TileSize, tilesH*TileSize
	levels := make([]level3, w*h)
	for i := range levels {
		levels[i] = level3{bg.R, bg.G, bg.B}
	}

	res := buildPalettes(levels, w, h, tilesW, tilesH, 2, bg, nil)
	for p := 0; p < MaxPalettes; p++ {
		if res.palettes[p][0] != bg {
			t.Fatalf("palette %d index 0 = %v, want background %v", p, res.palettes[p][0], bg)
		}
	}
}

func TestBuildPalettesCompactsUnusedGroupsToTheEnd(t *testing.T) {
	bg := RGB333{0, 0, 0}
	tilesW, tilesH := 1, 1
	w, h := TileSize, TileSize
	levels := make([]level3, w*h)
	for i := range levels {
		levels[i] = level3{5, 5, 5}
	}

	res := buildPalettes(levels, w, h, tilesW, tilesH, 4, bg, nil)
	if res.used != 1 {
		t.Fatalf("used = %d, want 1", res.used)
	}
	// The single tile's group must have compacted to index 0.
	if res.assignment[0] != 0 {
		t.Fatalf("assignment[0] = %d, want 0 (compacted to front)", res.assignment[0])
	}
	if res.palettes[0][1] != (RGB333{5, 5, 5}) {
		t.Fatalf("palettes[0][1] = %v, want {5,5,5}", res.palettes[0][1])
	}
}

func TestBuildPalettesPadsUnusedSlotsWithBackground(t *testing.T) {
	bg := RGB333{1, 1, 1}
	tilesW, tilesH := 1, 1
	w, h := TileSize, TileSize
	levels := make([]level3, w*h)
	for i := range levels {
		levels[i] = level3{bg.R, bg.G, bg.B}
	}

	res := buildPalettes(levels, w, h, tilesW, tilesH, 3, bg, nil)
	for p := 3; p < MaxPalettes; p++ {
		for i := 0; i < PaletteSize; i++ {
			if res.palettes[p][i] != bg {
				t.Fatalf("padding palette %d index %d = %v, want background", p, i, res.palettes[p][i])
			}
		}
	}
}

func TestDominantCornerColorPicksPlurality(t *testing.T) {
	w, h := 4, 4
	buf := make([]rgb8, w*h)
	majority := rgb8{9, 9, 9}
	buf[0] = majority             // top-left
	buf[w-1] = majority           // top-right
	buf[(h-1)*w] = rgb8{1, 2, 3}  // bottom-left, distinct
	buf[(h-1)*w+w-1] = majority   // bottom-right

	got := dominantCornerColor(buf, w, h)
	if got != [3]uint8{9, 9, 9} {
		t.Fatalf("dominantCornerColor = %v, want {9,9,9}", got)
	}
}
