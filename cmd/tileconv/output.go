package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/flga/tilegfx/convert"
)

// summary is the JSON report written alongside every conversion's
// artifacts: the numbers a build pipeline would want to assert on without
// re-parsing the binary streams.
type summary struct {
	UniqueCount   int     `json:"unique_count"`
	TotalTiles    int     `json:"total_tiles"`
	DedupRatio    float64 `json:"dedup_ratio"`
	VramFootprint int     `json:"vram_footprint"`
	UsedPalettes  int     `json:"used_palettes"`
	Warning       string  `json:"warning,omitempty"`
}

func buildSummary(res *convert.ConversionResult) summary {
	uniqueCount := len(res.UniqueTiles) - 1
	total := res.TilesW * res.TilesH
	ratio := 0.0
	if total > 0 {
		ratio = 1 - float64(uniqueCount+1)/float64(total)
	}

	s := summary{
		UniqueCount:   uniqueCount,
		TotalTiles:    total,
		DedupRatio:    ratio,
		VramFootprint: (uniqueCount + 1) * 32,
		UsedPalettes:  res.UsedPalettes,
	}
	if res.Warnings.HasKind(convert.VramOverflow) {
		s.Warning = res.Warnings.Error()
	}
	return s
}

// writeOutputs writes either the text listing or the three binary
// artifacts to outPrefix, plus a sibling "<outPrefix>.json" summary.
func writeOutputs(res *convert.ConversionResult, outPrefix string, endian convert.StreamEndian, text bool) error {
	if text {
		if err := os.WriteFile(outPrefix+".asm", []byte(convert.EmitText(res)), 0o644); err != nil {
			return fmt.Errorf("write text artifact: %w", err)
		}
	} else {
		art, err := convert.EmitBinary(res, endian)
		if err != nil {
			return fmt.Errorf("emit binary artifacts: %w", err)
		}
		if err := os.WriteFile(outPrefix+".bat", art.BAT, 0o644); err != nil {
			return fmt.Errorf("write BAT artifact: %w", err)
		}
		if err := os.WriteFile(outPrefix+".tiles", art.Tiles, 0o644); err != nil {
			return fmt.Errorf("write tiles artifact: %w", err)
		}
		if err := os.WriteFile(outPrefix+".palette", art.Palette, 0o644); err != nil {
			return fmt.Errorf("write palette artifact: %w", err)
		}
	}

	js, err := json.MarshalIndent(buildSummary(res), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(outPrefix+".json", js, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}
