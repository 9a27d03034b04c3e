package convert

import "math"

// level3 is a single RGB333 channel level in [0,7].
type level3 struct{ R, G, B uint8 }

// toneMap applies the 256-entry LUT to each channel of buf, then snaps
// each channel to the nearest of the 8 RGB333 levels (§4.2). It returns two
// aligned buffers: the post-curve 8-bit image (consumed by the dither
// engine for error accounting) and the corresponding RGB333 level image.
func toneMap(buf []rgb8, curve *ToneCurve) (post []rgb8, levels []level3) {
	post = make([]rgb8, len(buf))
	levels = make([]level3, len(buf))
	for i, p := range buf {
		pr, pg, pb := curve[p.R], curve[p.G], curve[p.B]
		post[i] = rgb8{pr, pg, pb}
		levels[i] = level3{
			R: snapLevel(pr),
			G: snapLevel(pg),
			B: snapLevel(pb),
		}
	}
	return post, levels
}

// snapLevel rounds an 8-bit channel to the nearest of 8 RGB333 levels:
// level = round(v*7/255).
func snapLevel(v uint8) uint8 {
	return uint8(math.Round(float64(v) * 7 / 255))
}

// snapTo8 reconstructs the 8-bit value a level snaps to:
// out8 = round(level*255/7). Used by the dither engine for residual
// accounting and by the round-trip decoder.
func snapTo8(level uint8) uint8 {
	return uint8(math.Round(float64(level) * 255 / 7))
}

func levelToRGB333(l level3) RGB333 {
	return RGB333{R: l.R, G: l.G, B: l.B}
}
