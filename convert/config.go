package convert

import "image"

// Config is the single immutable configuration value the conversion
// entrypoint takes (§9 Design Notes: "mutable UI state -> explicit config
// struct"). No hidden globals participate in a conversion: the curve LUT,
// dither mask and group constraints are all owned by this value for the
// call's duration, and are copied defensively before the first stage runs.
type Config struct {
	// Source is the decoded source image. Decoding itself is the caller's
	// responsibility (§1 out of scope).
	Source image.Image

	// Resize selects the resampling kernel.
	Resize ResizeAlgo

	// Width, Height are the target pixel dimensions, positive multiples of
	// TileSize, Width in [32,128]*TileSize... actually in tiles the spec
	// bounds are width tiles in [32,128], height tiles in [32,64]; Width
	// and Height here are in pixels and must be TileSize-multiples within
	// those tile ranges.
	Width, Height int

	// KeepRatio preserves source aspect, letterboxing with Background.
	KeepRatio bool

	// Transparency is a presentation hint only (§9 Open Questions): when
	// set and the source has alpha, color-0 pixels in the preview are
	// rendered with alpha 0. It has no effect on palette construction.
	Transparency bool

	// Background selects the fixed or auto-derived color-0 policy.
	Background BackgroundPolicy

	// BATWidth, BATHeight are the BAT grid dimensions in tiles.
	BATWidth, BATHeight int

	// OffsetX, OffsetY place the image's tile grid within the BAT grid.
	OffsetX, OffsetY int

	// K is the number of palette groups to build, in [1,16].
	K int

	// Dither selects the dither engine mode.
	Dither DitherMode

	// Curve is the 256-entry tone curve LUT.
	Curve ToneCurve

	// Mask optionally gates dithering per pixel. Nil means "dither
	// everywhere" (subject to Dither != DitherNone).
	Mask *DitherMask

	// Constraints optionally forces tiles into specific palette groups.
	// Nil means fully unconstrained.
	Constraints *GroupConstraints

	// Seed is used only for tie-breaking exact-half dither snaps.
	Seed uint64

	// VRAMBase is the base VRAM address tile offsets are relative to.
	VRAMBase uint16

	// Endian configures per-stream byte order for binary emission.
	Endian StreamEndian

	// OnProgress, if non-nil, is invoked after each pipeline stage
	// completes (§5: "progress events may be surfaced after each stage").
	// It must not block; the pipeline does not protect against slow
	// callbacks.
	OnProgress func(stage string, nanos int64)
}

// validate checks the structural invariants §6 requires before any stage
// runs. It never inspects pixel data; that happens per-stage.
func (c *Config) validate() *Error {
	if c.Source == nil {
		return newError(InvalidInput, "source image is nil")
	}
	if c.Width <= 0 || c.Height <= 0 || c.Width%TileSize != 0 || c.Height%TileSize != 0 {
		return newError(InvalidInput, "width/height must be positive multiples of %d, got %dx%d", TileSize, c.Width, c.Height)
	}
	tw, th := c.Width/TileSize, c.Height/TileSize
	if tw < 32 || tw > 128 {
		return newError(InvalidInput, "width in tiles must be in [32,128], got %d", tw)
	}
	if th < 32 || th > 64 {
		return newError(InvalidInput, "height in tiles must be in [32,64], got %d", th)
	}
	if c.K < 1 || c.K > MaxPalettes {
		return newError(InvalidInput, "K must be in [1,%d], got %d", MaxPalettes, c.K)
	}
	if c.BATWidth < tw+c.OffsetX || c.BATHeight < th+c.OffsetY {
		return newError(InvalidInput, "BAT grid %dx%d at offset (%d,%d) does not contain the %dx%d image", c.BATWidth, c.BATHeight, c.OffsetX, c.OffsetY, tw, th)
	}
	if c.OffsetX < 0 || c.OffsetY < 0 {
		return newError(InvalidInput, "offset must be non-negative, got (%d,%d)", c.OffsetX, c.OffsetY)
	}
	if c.Mask != nil && (c.Mask.W != c.Width || c.Mask.H != c.Height) {
		return newError(InvalidInput, "mask dimensions %dx%d do not match target %dx%d", c.Mask.W, c.Mask.H, c.Width, c.Height)
	}
	if c.Constraints != nil {
		if c.Constraints.TilesW != tw || c.Constraints.TilesH != th {
			return newError(InvalidInput, "constraint grid %dx%d does not match tile grid %dx%d", c.Constraints.TilesW, c.Constraints.TilesH, tw, th)
		}
		if len(c.Constraints.Labels) != tw*th {
			return newError(InvalidInput, "constraint vector length %d does not match tile count %d", len(c.Constraints.Labels), tw*th)
		}
		for _, l := range c.Constraints.Labels {
			if l != unconstrained && (l < 0 || l >= c.K) {
				return newError(InvalidInput, "constraint label %d out of range [0,%d)", l, c.K)
			}
		}
	}
	return nil
}

// cloneCurve, cloneMask and cloneConstraints give the pipeline its own
// defensive copies of caller-owned, supposedly read-only inputs (§5:
// "the pipeline copies them defensively before the first stage").
func (c *Config) cloneCurve() ToneCurve {
	return c.Curve
}

func (c *Config) cloneMask() *DitherMask {
	if c.Mask == nil {
		return nil
	}
	cp := &DitherMask{W: c.Mask.W, H: c.Mask.H, Bits: make([]uint8, len(c.Mask.Bits))}
	copy(cp.Bits, c.Mask.Bits)
	return cp
}

func (c *Config) cloneConstraints() *GroupConstraints {
	if c.Constraints == nil {
		return nil
	}
	cp := &GroupConstraints{TilesW: c.Constraints.TilesW, TilesH: c.Constraints.TilesH, Labels: make([]int, len(c.Constraints.Labels))}
	copy(cp.Labels, c.Constraints.Labels)
	return cp
}
