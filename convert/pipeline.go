package convert

import (
	"context"
	"sync"
	"time"
)

// State is the conversion state machine from §4.7: a Pipeline is always in
// exactly one of these states.
type State int

const (
	Idle State = iota
	Running
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Pipeline runs a single conversion. It is non-reentrant: calling Convert
// while already Running returns an InvalidInput error instead of racing,
// grounded in the teacher's single-owner-goroutine discipline
// (runtime.LockOSThread + a lone `run` goroutine in cmd/vnes/main.go).
// Concurrent conversions must use independent Pipeline instances (§5).
type Pipeline struct {
	mu    sync.Mutex
	state State
}

// NewPipeline returns an Idle pipeline. It may run any number of
// conversions one after another.
func NewPipeline() *Pipeline {
	return &Pipeline{state: Idle}
}

// State reports the pipeline's current state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Convert runs the full seven-stage pipeline described in §2/§4 against
// cfg, reporting progress through cfg.OnProgress (if set) after each
// stage, and honoring cooperative cancellation via ctx at each stage
// boundary (§5) — never mid-stage.
func (p *Pipeline) Convert(ctx context.Context, cfg Config) (*ConversionResult, error) {
	p.mu.Lock()
	if p.state == Running {
		p.mu.Unlock()
		return nil, newError(InvalidInput, "pipeline: conversion already running")
	}
	p.state = Running
	p.mu.Unlock()

	res, err := p.run(ctx, cfg)

	p.mu.Lock()
	if err != nil {
		p.state = Failed
	} else {
		p.state = Completed
	}
	p.mu.Unlock()

	return res, err
}

func (p *Pipeline) report(cfg Config, stage string, start time.Time) {
	if cfg.OnProgress != nil {
		cfg.OnProgress(stage, time.Since(start).Nanoseconds())
	}
}

func checkCancel(ctx context.Context) *Error {
	select {
	case <-ctx.Done():
		return wrapError(Cancelled, ctx.Err(), "pipeline: cancelled at stage boundary")
	default:
		return nil
	}
}

func (p *Pipeline) run(ctx context.Context, cfg Config) (*ConversionResult, error) {
	if verr := cfg.validate(); verr != nil {
		return nil, verr
	}

	// Defensive copies of caller-owned, read-only inputs (§5).
	curve := cfg.cloneCurve()
	mask := cfg.cloneMask()
	constraints := cfg.cloneConstraints()

	tilesW, tilesH := cfg.Width/TileSize, cfg.Height/TileSize

	// Stage 1: Resampler.
	start := time.Now()
	bg := cfg.Background.Fixed
	resampled, rerr := resample(ctx, cfg.Source, cfg.Resize, cfg.Width, cfg.Height, cfg.KeepRatio, bg)
	if rerr != nil {
		return nil, rerr
	}
	p.report(cfg, "resample", start)
	if cerr := checkCancel(ctx); cerr != nil {
		return nil, cerr
	}

	if cfg.Background.Kind == BackgroundAuto {
		bg = dominantCornerColor(resampled, cfg.Width, cfg.Height)
	}
	bgLevel := RGB333{R: snapLevel(bg[0]), G: snapLevel(bg[1]), B: snapLevel(bg[2])}

	// Stage 2: Tone Mapper + Quantizer.
	start = time.Now()
	post, _ := toneMap(resampled, &curve)
	p.report(cfg, "tonemap", start)
	if cerr := checkCancel(ctx); cerr != nil {
		return nil, cerr
	}

	// Stage 3: Dither Engine.
	start = time.Now()
	levels := dither(post, cfg.Width, cfg.Height, cfg.Dither, mask, cfg.Seed)
	p.report(cfg, "dither", start)
	if cerr := checkCancel(ctx); cerr != nil {
		return nil, cerr
	}

	// Stage 4: Palette Builder.
	start = time.Now()
	pres := buildPalettes(levels, cfg.Width, cfg.Height, tilesW, tilesH, cfg.K, bgLevel, constraints)
	p.report(cfg, "palette", start)
	if cerr := checkCancel(ctx); cerr != nil {
		return nil, cerr
	}

	// Stage 5: Tile Assembler.
	start = time.Now()
	tiles := make([]Tile, tilesW*tilesH)
	emptyTile := make([]bool, tilesW*tilesH)
	for ty := 0; ty < tilesH; ty++ {
		for tx := 0; tx < tilesW; tx++ {
			i := ty*tilesW + tx
			tiles[i] = assembleTile(levels, cfg.Width, tx, ty, pres.palettes[pres.assignment[i]])
			emptyTile[i] = tiles[i].Empty()
		}
	}
	p.report(cfg, "tile", start)
	if cerr := checkCancel(ctx); cerr != nil {
		return nil, cerr
	}

	// Stage 6: Deduplicator & BAT Composer.
	start = time.Now()
	tileToUnique, unique := deduplicate(tiles)
	batEntries, vramWarn := composeBAT(tileToUnique, pres.assignment, tilesW, tilesH, cfg.BATWidth, cfg.BATHeight, cfg.OffsetX, cfg.OffsetY, cfg.VRAMBase)
	p.report(cfg, "dedup+bat", start)
	if cerr := checkCancel(ctx); cerr != nil {
		return nil, cerr
	}

	// Stage 7: Emitters are invoked by the caller via EmitBinary/EmitText;
	// the pipeline only assembles the result they consume.
	start = time.Now()
	// Transparency only applies when the source image carries alpha.
	transparency := cfg.Transparency
	if o, ok := cfg.Source.(interface{ Opaque() bool }); ok && o.Opaque() {
		transparency = false
	}
	preview := renderPreview(levels, pres.palettes[:], pres.assignment, cfg.Width, cfg.Height, tilesW, transparency)
	p.report(cfg, "preview", start)

	res := &ConversionResult{
		Width:         cfg.Width,
		Height:        cfg.Height,
		TilesW:        tilesW,
		TilesH:        tilesH,
		Preview:       preview,
		Palettes:      pres.palettes,
		UsedPalettes:  pres.used,
		TileToPalette: pres.assignment,
		TileToUnique:  tileToUnique,
		EmptyTile:     emptyTile,
		UniqueTiles:   unique,
		BAT:           batEntries,
		BATWidth:      cfg.BATWidth,
		BATHeight:     cfg.BATHeight,
		VRAMBase:      cfg.VRAMBase,
		Background:    bgLevel,
	}
	if vramWarn != nil {
		res.Warnings = res.Warnings.Add(vramWarn)
	}

	return res, nil
}

// renderPreview builds the W*H*4 RGBA preview buffer: every pixel equals
// palette[tile.palette][tile.index] exactly (§3 invariant), with
// Transparency making color-0 pixels alpha-0 as a presentation hint only
// (§9 Open Questions).
func renderPreview(levels []level3, palettes []Palette, assignment []int, w, h, tilesW int, transparency bool) []uint8 {
	out := make([]uint8, w*h*4)
	for ty := 0; ty*TileSize < h; ty++ {
		for tx := 0; tx*TileSize < w; tx++ {
			pal := palettes[assignment[ty*tilesW+tx]]
			for ry := 0; ry < TileSize; ry++ {
				y := ty*TileSize + ry
				for rx := 0; rx < TileSize; rx++ {
					x := tx*TileSize + rx
					l := levels[y*w+x]
					c := levelToRGB333(l)
					idx := nearestPaletteIndex(c, pal)
					rc := pal[idx]
					a := uint8(0xFF)
					if transparency && idx == 0 {
						a = 0
					}
					o := (y*w + x) * 4
					out[o] = snapTo8(rc.R)
					out[o+1] = snapTo8(rc.G)
					out[o+2] = snapTo8(rc.B)
					out[o+3] = a
				}
			}
		}
	}
	return out
}
