package convert

import "sort"

// paletteResult is the output of the full §4.4 pipeline: a final per-tile
// group assignment (already remapped through compaction) and the K
// (at most) real palettes, plus how many of them are actually used.
type paletteResult struct {
	assignment []int // length N, final compacted group index per tile
	palettes   [MaxPalettes]Palette
	used       int
}

// buildPalettes runs §4.4 Steps 1-4 over the full level image and returns
// the final tile->palette assignment together with the 16-slot palette
// table (only `used` of which are not pure-background padding).
func buildPalettes(levels []level3, w, h, tilesW, tilesH, k int, bg RGB333, constraints *GroupConstraints) paletteResult {
	tcs := buildTileColors(levels, w, h, tilesW, tilesH, bg)
	assignment, groups := clusterTiles(tcs, k, constraints, tilesW, tilesH, bg)

	// Step 3: palette construction, deterministic ordering by luminance
	// ascending, ties by (R,G,B) lexicographic.
	rawPalettes := make([]Palette, k)
	tileCount := make([]int, k)
	nonTrivial := make([]bool, k) // group has at least one non-C0 color
	for g := 0; g < k; g++ {
		colors := make([]RGB333, 0, groups[g].size())
		for c := range groups[g].colorRefs {
			colors = append(colors, c)
		}
		sort.Slice(colors, func(i, j int) bool { return colors[i].Less(colors[j]) })

		var p Palette
		p[0] = bg
		for i := 1; i < PaletteSize; i++ {
			if i-1 < len(colors) {
				p[i] = colors[i-1]
			} else {
				p[i] = bg
			}
		}
		rawPalettes[g] = p
		tileCount[g] = len(groups[g].tiles)
		nonTrivial[g] = len(colors) > 0
	}

	// Step 4: empty-palette compaction. A group counts as "used" if it has
	// at least one non-background color; used groups sort to the front in
	// order of assigned-tile count descending, ties by group-build order
	// (original index ascending). Unused groups keep their relative order
	// at the end.
	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		gi, gj := order[i], order[j]
		ui, uj := nonTrivial[gi], nonTrivial[gj]
		if ui != uj {
			return ui // used groups first
		}
		if !ui {
			return false // both unused: preserve original relative order
		}
		if tileCount[gi] != tileCount[gj] {
			return tileCount[gi] > tileCount[gj]
		}
		return gi < gj
	})

	newIndex := make([]int, k)
	used := 0
	for newPos, oldG := range order {
		newIndex[oldG] = newPos
		if nonTrivial[oldG] {
			used++
		}
	}

	var result paletteResult
	for g := 0; g < k; g++ {
		result.palettes[newIndex[g]] = rawPalettes[g]
	}
	for g := k; g < MaxPalettes; g++ {
		var p Palette
		for i := range p {
			p[i] = bg
		}
		result.palettes[g] = p
	}
	result.used = used

	result.assignment = make([]int, len(assignment))
	for t, g := range assignment {
		result.assignment[t] = newIndex[g]
	}

	return result
}

// dominantCornerColor implements the §9 Open Question resolution for
// BackgroundAuto: the plurality color among the four corner pixels of the
// resampled (pre-quantization) image, snapped to RGB333.
func dominantCornerColor(buf []rgb8, w, h int) [3]uint8 {
	corners := []rgb8{
		buf[0],
		buf[w-1],
		buf[(h-1)*w],
		buf[(h-1)*w+w-1],
	}
	counts := make(map[rgb8]int, 4)
	for _, c := range corners {
		counts[c]++
	}
	best := corners[0]
	bestN := 0
	for _, c := range corners {
		if counts[c] > bestN {
			best, bestN = c, counts[c]
		}
	}
	return [3]uint8{best.R, best.G, best.B}
}
