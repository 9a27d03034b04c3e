package convert

import "testing"

func TestComposeBATPlacesImageAtOffset(t *testing.T) {
	// 2x2 image tiles, placed at offset (1,1) within a 4x4 BAT grid.
	tileToUnique := []int{1, 2, 3, 4}
	tileToPalette := []int{0, 1, 2, 3}

	entries, warn := composeBAT(tileToUnique, tileToPalette, 2, 2, 4, 4, 1, 1, 0)
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn)
	}
	if len(entries) != 16 {
		t.Fatalf("len(entries) = %d, want 16", len(entries))
	}

	// grid index (1,1) -> image tile (0,0) -> unique 1, palette 0.
	e := entries[1*4+1]
	if e.PaletteIndex != 0 || e.TileOffset != uint16(1*32)>>4 {
		t.Fatalf("entry at (1,1) = %+v, want palette 0 offset %d", e, uint16(1*32)>>4)
	}

	// grid index (0,0) is outside the image: must reference unique 0.
	outside := entries[0*4+0]
	if outside.TileOffset != 0 || outside.PaletteIndex != 0 {
		t.Fatalf("outside-image entry = %+v, want zero tile reference", outside)
	}
}

func TestComposeBATWarnsOnOverflow(t *testing.T) {
	tileToUnique := []int{5000} // exceeds the 12-bit (4096) unique-tile limit
	tileToPalette := []int{0}

	_, warn := composeBAT(tileToUnique, tileToPalette, 1, 1, 1, 1, 0, 0, 0)
	if warn == nil {
		t.Fatal("expected a VramOverflow warning, got nil")
	}
	if warn.Kind != VramOverflow {
		t.Fatalf("warn.Kind = %v, want VramOverflow", warn.Kind)
	}
}

func TestComposeBATNoOverflowWithinBudget(t *testing.T) {
	tileToUnique := []int{0, 1, 2, 3}
	tileToPalette := []int{0, 0, 0, 0}

	_, warn := composeBAT(tileToUnique, tileToPalette, 2, 2, 2, 2, 0, 0, 0x4000)
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn)
	}
}

func TestBATEntryWordPacking(t *testing.T) {
	e := BATEntry{PaletteIndex: 0xF, TileOffset: 0x0ABC}
	want := uint16(0xFABC)
	if got := e.Word(); got != want {
		t.Fatalf("Word() = %#04x, want %#04x", got, want)
	}
}
