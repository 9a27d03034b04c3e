package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/flga/tilegfx/convert"
)

// loadConstraints reads a flat text file of tw*th integers (-1 =
// unconstrained), one per line or whitespace-separated (§6).
func loadConstraints(path string, tw, th int) (*convert.GroupConstraints, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load constraints: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Split(bufio.ScanWords)

	labels := make([]int, 0, tw*th)
	for sc.Scan() {
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("load constraints %s: entry %d: %w", path, len(labels), err)
		}
		labels = append(labels, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("load constraints %s: %w", path, err)
	}
	if len(labels) != tw*th {
		return nil, fmt.Errorf("load constraints %s: expected %d entries, got %d", path, tw*th, len(labels))
	}

	return &convert.GroupConstraints{TilesW: tw, TilesH: th, Labels: labels}, nil
}
