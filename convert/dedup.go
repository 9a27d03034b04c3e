package convert

// deduplicate implements §4.6: canonicalize unique tile byte patterns, with
// the all-zero pattern pre-inserted at unique-index 0 before the image is
// scanned, so that every empty tile collapses onto index 0 regardless of
// where it first appears. Tiles are scanned in row-major order and the
// mapping from tile position to unique index is returned alongside the
// deduplicated tile list (index 0 is always the all-zero tile, satisfying
// §8 property 5).
func deduplicate(tiles []Tile) (tileToUnique []int, unique []Tile) {
	var zero Tile
	seen := make(map[[32]byte]int)
	zeroPattern := zero.EncodePlanar()
	seen[zeroPattern] = 0
	unique = append(unique, zero)

	tileToUnique = make([]int, len(tiles))
	for i, t := range tiles {
		pattern := t.EncodePlanar()
		if idx, ok := seen[pattern]; ok {
			tileToUnique[i] = idx
			continue
		}
		idx := len(unique)
		seen[pattern] = idx
		unique = append(unique, t)
		tileToUnique[i] = idx
	}
	return tileToUnique, unique
}
