package convert

import "sort"

// tileColors holds the per-tile color inventory built in §4.4 Step 1: the
// distinct RGB333 colors present in the tile (background C0 removed) and
// how many pixels of the tile carry each color, used both for the
// deterministic "hardest first" seed order and for approximation-cost
// estimates when a group's 15-color budget is exceeded.
type tileColors struct {
	colors []RGB333       // distinct, C0 already removed, order arbitrary
	counts map[RGB333]int // pixel counts per color
}

// buildTileColors implements §4.4 Step 1 for every tile in the grid.
func buildTileColors(levels []level3, w, h, tilesW, tilesH int, bg RGB333) []tileColors {
	out := make([]tileColors, tilesW*tilesH)
	for ty := 0; ty < tilesH; ty++ {
		for tx := 0; tx < tilesW; tx++ {
			counts := make(map[RGB333]int)
			for ry := 0; ry < TileSize; ry++ {
				y := ty*TileSize + ry
				for rx := 0; rx < TileSize; rx++ {
					x := tx*TileSize + rx
					l := levels[y*w+x]
					c := levelToRGB333(l)
					if c == bg {
						continue
					}
					counts[c]++
				}
			}
			colors := make([]RGB333, 0, len(counts))
			for c := range counts {
				colors = append(colors, c)
			}
			sort.Slice(colors, func(i, j int) bool { return colors[i].Less(colors[j]) })
			out[ty*tilesW+tx] = tileColors{colors: colors, counts: counts}
		}
	}
	return out
}

// clusterGroup is one of the K palette groups being built. colorRefs is a
// reference-counted union: a color is a group member iff its count is > 0,
// letting tile removal (used only by refinement) drop a color cleanly when
// no remaining tile needs it. tiles records, per member tile, the colors
// that were counted for it on add.
type clusterGroup struct {
	colorRefs map[RGB333]int
	tiles     map[int][]RGB333
}

func newClusterGroup() *clusterGroup {
	return &clusterGroup{colorRefs: make(map[RGB333]int), tiles: make(map[int][]RGB333)}
}

func (g *clusterGroup) size() int { return len(g.colorRefs) }

// tentativeUnionSize returns the union size if colors were added, without
// mutating the group.
func (g *clusterGroup) tentativeUnionSize(colors []RGB333) int {
	n := len(g.colorRefs)
	for _, c := range colors {
		if _, ok := g.colorRefs[c]; !ok {
			n++
		}
	}
	return n
}

func (g *clusterGroup) add(tileIdx int, colors []RGB333) {
	g.tiles[tileIdx] = colors
	for _, c := range colors {
		g.colorRefs[c]++
	}
}

func (g *clusterGroup) remove(tileIdx int) {
	colors := g.tiles[tileIdx]
	delete(g.tiles, tileIdx)
	for _, c := range colors {
		g.colorRefs[c]--
		if g.colorRefs[c] <= 0 {
			delete(g.colorRefs, c)
		}
	}
}

// approxCost estimates the pixel-quantization cost of a tile evaluated
// against g as-is: for every distinct tile color not already in g, charge
// the squared distance to the nearest of the background and the colors
// currently in g, weighted by the tile's pixel count for that color. It is
// 0 only when every tile color is already in g. This is used both to break
// greedy ties between candidates with the same color-count increment and
// to pick the least-bad group in the overflow path, per §4.4 Step 2.
func approxCost(g *clusterGroup, tc tileColors, bg RGB333) int {
	total := 0
	for _, c := range tc.colors {
		if _, ok := g.colorRefs[c]; ok {
			continue
		}
		best := dist2(c, bg)
		for gc := range g.colorRefs {
			if d := dist2(c, gc); d < best {
				best = d
			}
		}
		total += best * tc.counts[c]
	}
	return total
}

// capColorSet keeps only the `limit` most-frequent colors (by pixel count,
// ties broken by the deterministic RGB333.Less order), used when a single
// tile's own residual color set already exceeds the budget (§4.4 Step 1's
// "over-color tile") or when opening a brand new group for such a tile.
func capColorSet(tc tileColors, limit int) []RGB333 {
	if len(tc.colors) <= limit {
		return tc.colors
	}
	kept := make([]RGB333, len(tc.colors))
	copy(kept, tc.colors)
	sort.Slice(kept, func(i, j int) bool {
		ci, cj := kept[i], kept[j]
		if tc.counts[ci] != tc.counts[cj] {
			return tc.counts[ci] > tc.counts[cj]
		}
		return ci.Less(cj)
	})
	return kept[:limit]
}

const groupColorBudget = PaletteSize - 1 // 15: index 0 is reserved for C0

// clusterTiles implements §4.4 Step 2 in full: constrained placement,
// hardest-first greedy seeding with the specified tie-break chain, bounded
// overflow handling and a small fixed number of refinement passes.
//
// Returns, for every tile, the group index in [0,K) it was assigned to.
func clusterTiles(tcs []tileColors, k int, constraints *GroupConstraints, tilesW, tilesH int, bg RGB333) (assignment []int, groups []*clusterGroup) {
	n := len(tcs)
	assignment = make([]int, n)
	for i := range assignment {
		assignment[i] = -1
	}
	groups = make([]*clusterGroup, k)
	for i := range groups {
		groups[i] = newClusterGroup()
	}

	var constrainedIdx []int
	var unconstrainedIdx []int
	for t := 0; t < n; t++ {
		tx, ty := t%tilesW, t/tilesW
		label := constraints.At(tx, ty)
		if label != unconstrained && label < k {
			constrainedIdx = append(constrainedIdx, t)
		} else {
			unconstrainedIdx = append(unconstrainedIdx, t)
		}
	}

	// Constrained tiles are placed before unconstrained tiles (§4.4 Step 2
	// Constraint handling). A constrained group may exceed 15 colors;
	// overflow there is resolved by lossy approximation at tile-assembly
	// time, never by reassignment.
	for _, t := range constrainedIdx {
		tx, ty := t%tilesW, t/tilesW
		label := constraints.At(tx, ty)
		colors := tcs[t].colors
		if len(colors) > groupColorBudget && groups[label].size() == 0 {
			colors = capColorSet(tcs[t], groupColorBudget)
		}
		groups[label].add(t, colors)
		assignment[t] = label
	}

	// Seed: sort the remaining (unconstrained) tiles by |S_t| descending.
	sort.SliceStable(unconstrainedIdx, func(i, j int) bool {
		return len(tcs[unconstrainedIdx[i]].colors) > len(tcs[unconstrainedIdx[j]].colors)
	})

	opened := 0
	for g := range groups {
		if groups[g].size() > 0 || len(groups[g].tiles) > 0 {
			opened++
		}
	}

	for _, t := range unconstrainedIdx {
		tc := tcs[t]

		bestGroup := -1
		bestIncrement := -1
		bestCost := -1
		for g := 0; g < k; g++ {
			if groups[g].size() == 0 && len(groups[g].tiles) == 0 {
				continue // not yet opened; handled below
			}
			tentative := groups[g].tentativeUnionSize(tc.colors)
			if tentative > groupColorBudget {
				continue
			}
			increment := tentative - groups[g].size()
			cost := approxCost(groups[g], tc, bg) // cost of the tile's colors not yet in g
			if bestGroup == -1 || increment < bestIncrement ||
				(increment == bestIncrement && cost < bestCost) ||
				(increment == bestIncrement && cost == bestCost && g < bestGroup) {
				bestGroup, bestIncrement, bestCost = g, increment, cost
			}
		}

		if bestGroup == -1 && opened < k {
			// Open a new group (lowest unused index).
			for g := 0; g < k; g++ {
				if groups[g].size() == 0 && len(groups[g].tiles) == 0 {
					bestGroup = g
					opened++
					break
				}
			}
		}

		if bestGroup == -1 {
			// Overflow: every group is full (or already at budget) and no
			// group accepts this tile cleanly. Choose the group yielding
			// the smallest post-quantization pixel error.
			bestErrGroup := 0
			bestErr := approxCost(groups[0], tc, bg)
			for g := 1; g < k; g++ {
				if e := approxCost(groups[g], tc, bg); e < bestErr {
					bestErr, bestErrGroup = e, g
				}
			}
			bestGroup = bestErrGroup
		}

		colors := tc.colors
		if groups[bestGroup].size() == 0 && len(colors) > groupColorBudget {
			colors = capColorSet(tc, groupColorBudget)
		}
		groups[bestGroup].add(t, colors)
		assignment[t] = bestGroup
	}

	refine(tcs, assignment, groups, k, bg, constraints, tilesW)

	return assignment, groups
}

// totalError is the sum of approxCost across all tiles given the current
// assignment.
func totalError(tcs []tileColors, assignment []int, groups []*clusterGroup, bg RGB333) int {
	total := 0
	for t, g := range assignment {
		total += approxCost(groups[g], tcs[t], bg)
	}
	return total
}

const maxRefinementPasses = 4

// refine performs bounded local-move refinement: re-assign one
// unconstrained tile at a time to another already-opened feasible group
// (one whose union with the tile's colors stays within the 15-color
// budget), taking the group with the lowest approxCost for that tile if it
// is strictly lower than the tile's cost in its current group. Only the
// moving tile's own cost is compared; the costs of the other tiles in the
// source and destination groups, and so the total error, are not
// re-evaluated. Constrained tiles never move. Bounded to
// maxRefinementPasses full sweeps to keep runtime predictable, and stops
// early when a sweep moves no tile.
func refine(tcs []tileColors, assignment []int, groups []*clusterGroup, k int, bg RGB333, constraints *GroupConstraints, tilesW int) {
	isConstrained := func(t int) bool {
		tx, ty := t%tilesW, t/tilesW
		label := constraints.At(tx, ty)
		return label != unconstrained && label < k
	}

	for pass := 0; pass < maxRefinementPasses; pass++ {
		improved := false
		for t := range assignment {
			if isConstrained(t) {
				continue
			}
			cur := assignment[t]
			tc := tcs[t]
			curCost := approxCost(groups[cur], tc, bg)

			groups[cur].remove(t)

			bestGroup := cur
			bestCost := curCost
			for g := 0; g < k; g++ {
				if g == cur {
					continue
				}
				if groups[g].size() == 0 && len(groups[g].tiles) == 0 {
					continue // don't open new groups during refinement
				}
				if groups[g].tentativeUnionSize(tc.colors) > groupColorBudget {
					continue // only feasible destinations
				}
				cost := approxCost(groups[g], tc, bg)
				if cost < bestCost {
					bestCost, bestGroup = cost, g
				}
			}

			colors := tc.colors
			if groups[bestGroup].size() == 0 && len(colors) > groupColorBudget {
				colors = capColorSet(tc, groupColorBudget)
			}
			groups[bestGroup].add(t, colors)
			assignment[t] = bestGroup

			if bestGroup != cur {
				improved = true
			}
		}
		if !improved {
			break
		}
	}
}
