package convert

import "testing"

func TestSnapLevelRoundTrip(t *testing.T) {
	for lvl := uint8(0); lvl < 8; lvl++ {
		v8 := snapTo8(lvl)
		if got := snapLevel(v8); got != lvl {
			t.Fatalf("snapLevel(snapTo8(%d)) = %d, want %d", lvl, got, lvl)
		}
	}
}

func TestSnapLevelBoundaries(t *testing.T) {
	if got := snapLevel(0); got != 0 {
		t.Fatalf("snapLevel(0) = %d, want 0", got)
	}
	if got := snapLevel(255); got != 7 {
		t.Fatalf("snapLevel(255) = %d, want 7", got)
	}
}

func TestToneMapIdentityCurvePreservesLevels(t *testing.T) {
	curve := IdentityCurve()
	buf := []rgb8{{0, 128, 255}, {64, 192, 32}}

	post, levels := toneMap(buf, &curve)
	for i, p := range buf {
		if post[i] != p {
			t.Fatalf("post[%d] = %+v, want unchanged %+v", i, post[i], p)
		}
		want := level3{snapLevel(p.R), snapLevel(p.G), snapLevel(p.B)}
		if levels[i] != want {
			t.Fatalf("levels[%d] = %+v, want %+v", i, levels[i], want)
		}
	}
}

func TestToneMapAppliesCurvePerChannel(t *testing.T) {
	var curve ToneCurve
	for i := range curve {
		curve[i] = 255 // every input maps to max
	}
	buf := []rgb8{{0, 0, 0}}

	post, levels := toneMap(buf, &curve)
	if post[0] != (rgb8{255, 255, 255}) {
		t.Fatalf("post[0] = %+v, want {255,255,255}", post[0])
	}
	if levels[0] != (level3{7, 7, 7}) {
		t.Fatalf("levels[0] = %+v, want {7,7,7}", levels[0])
	}
}
