package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/flga/tilegfx/convert"
)

// loadCurve reads a 256-entry tone curve LUT, one integer (0-255) per line
// or whitespace-separated, with bufio.ScanWords splitting handling both
// layouts uniformly.
func loadCurve(path string) (convert.ToneCurve, error) {
	var curve convert.ToneCurve

	f, err := os.Open(path)
	if err != nil {
		return curve, fmt.Errorf("load curve: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Split(bufio.ScanWords)

	i := 0
	for sc.Scan() {
		if i >= len(curve) {
			return curve, fmt.Errorf("load curve %s: more than %d entries", path, len(curve))
		}
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return curve, fmt.Errorf("load curve %s: entry %d: %w", path, i, err)
		}
		if v < 0 || v > 255 {
			return curve, fmt.Errorf("load curve %s: entry %d value %d out of [0,255]", path, i, v)
		}
		curve[i] = uint8(v)
		i++
	}
	if err := sc.Err(); err != nil {
		return curve, fmt.Errorf("load curve %s: %w", path, err)
	}
	if i != len(curve) {
		return curve, fmt.Errorf("load curve %s: expected %d entries, got %d", path, len(curve), i)
	}

	return curve, nil
}
