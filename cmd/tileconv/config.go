package main

import (
	"flag"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/flga/tilegfx/convert"
)

// cliFlags holds every flag shared between the "convert" and "batch"
// subcommands, parsed once per invocation and turned into a convert.Config
// per source image by buildConfig.
type cliFlags struct {
	width, height        int
	k                     int
	resize                string
	dither                string
	bg                    string
	batW, batH            int
	offX, offY            int
	vramBase              string
	curvePath             string
	maskPath              string
	constraintsPath       string
	seed                  uint64
	text                  bool
	endian                string
	keepRatio             bool
	transparency          bool
	preview               bool
	strict                bool
}

func registerCommonFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.IntVar(&f.width, "w", 256, "target width in pixels, multiple of 8")
	fs.IntVar(&f.height, "h", 256, "target height in pixels, multiple of 8")
	fs.IntVar(&f.k, "k", 4, "number of palette groups, 1-16")
	fs.StringVar(&f.resize, "resize", "catmull-rom", "resize kernel: nearest, catmull-rom, lanczos3")
	fs.StringVar(&f.dither, "dither", "floyd-steinberg", "dither mode: none, floyd-steinberg, ordered")
	fs.StringVar(&f.bg, "bg", "auto", "background color: \"auto\" or #rrggbb")
	fs.IntVar(&f.batW, "bw", 0, "BAT width in tiles (defaults to image tile width plus -ox)")
	fs.IntVar(&f.batH, "bh", 0, "BAT height in tiles (defaults to image tile height plus -oy)")
	fs.IntVar(&f.offX, "ox", 0, "image tile-grid offset within the BAT, x")
	fs.IntVar(&f.offY, "oy", 0, "image tile-grid offset within the BAT, y")
	fs.StringVar(&f.vramBase, "vram-base", "0x0000", "base VRAM address tile offsets are relative to")
	fs.StringVar(&f.curvePath, "curve", "", "path to a 256-entry newline-delimited tone curve LUT")
	fs.StringVar(&f.maskPath, "mask", "", "path to a dither mask image (nonzero pixel = dither enabled)")
	fs.StringVar(&f.constraintsPath, "constraints", "", "path to a flat palette-group constraint file")
	fs.Uint64Var(&f.seed, "seed", 1, "RNG seed for dither tie-breaking")
	fs.BoolVar(&f.text, "text", false, "emit a single text listing instead of binary artifacts")
	fs.StringVar(&f.endian, "endian", "little", "byte order for binary streams: little, big")
	fs.BoolVar(&f.keepRatio, "keep-ratio", false, "preserve source aspect ratio, letterboxing with bg")
	fs.BoolVar(&f.transparency, "transparency", false, "make color-0 pixels transparent in the preview")
	fs.BoolVar(&f.preview, "preview", false, "open a single preview window before writing output")
	fs.BoolVar(&f.strict, "strict", false, "exit non-zero if a VRAM overflow warning is produced")
}

func parseResize(s string) (convert.ResizeAlgo, error) {
	switch strings.ToLower(s) {
	case "nearest":
		return convert.Nearest, nil
	case "catmull-rom", "catmullrom":
		return convert.CatmullRom, nil
	case "lanczos3", "lanczos":
		return convert.Lanczos3, nil
	default:
		return 0, fmt.Errorf("unknown -resize %q", s)
	}
}

func parseDither(s string) (convert.DitherMode, error) {
	switch strings.ToLower(s) {
	case "none":
		return convert.DitherNone, nil
	case "floyd-steinberg", "floydsteinberg", "fs":
		return convert.DitherFloydSteinberg, nil
	case "ordered", "bayer":
		return convert.DitherOrdered, nil
	default:
		return 0, fmt.Errorf("unknown -dither %q", s)
	}
}

func parseEndian(s string) (convert.Endianness, error) {
	switch strings.ToLower(s) {
	case "little", "le":
		return convert.LittleEndian, nil
	case "big", "be":
		return convert.BigEndian, nil
	default:
		return 0, fmt.Errorf("unknown -endian %q", s)
	}
}

func parseBackground(s string) (convert.BackgroundPolicy, error) {
	if strings.EqualFold(s, "auto") {
		return convert.BackgroundPolicy{Kind: convert.BackgroundAuto}, nil
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return convert.BackgroundPolicy{}, fmt.Errorf("-bg must be \"auto\" or #rrggbb, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return convert.BackgroundPolicy{}, fmt.Errorf("-bg %q: %w", s, err)
	}
	return convert.BackgroundPolicy{
		Kind:  convert.BackgroundFixed,
		Fixed: [3]uint8{uint8(v >> 16), uint8(v >> 8), uint8(v)},
	}, nil
}

func parseVRAMBase(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("-vram-base %q: %w", s, err)
	}
	if v > 0xFFFF {
		return 0, fmt.Errorf("-vram-base %q exceeds 16 bits", s)
	}
	return uint16(v), nil
}

// buildConfig turns parsed flags plus a decoded source image into a
// convert.Config, loading -curve/-mask/-constraints from disk as needed
// (convert itself never touches the filesystem, per §1's scope boundary).
func buildConfig(f *cliFlags, src image.Image) (convert.Config, error) {
	var cfg convert.Config
	cfg.Source = src
	cfg.Width = f.width
	cfg.Height = f.height
	cfg.K = f.k
	cfg.KeepRatio = f.keepRatio
	cfg.Transparency = f.transparency
	cfg.Seed = f.seed

	resize, err := parseResize(f.resize)
	if err != nil {
		return cfg, err
	}
	cfg.Resize = resize

	dither, err := parseDither(f.dither)
	if err != nil {
		return cfg, err
	}
	cfg.Dither = dither

	bg, err := parseBackground(f.bg)
	if err != nil {
		return cfg, err
	}
	cfg.Background = bg

	endian, err := parseEndian(f.endian)
	if err != nil {
		return cfg, err
	}
	cfg.Endian = convert.StreamEndian{BAT: endian, Tiles: endian, Palette: endian}

	vramBase, err := parseVRAMBase(f.vramBase)
	if err != nil {
		return cfg, err
	}
	cfg.VRAMBase = vramBase

	tw, th := f.width/convert.TileSize, f.height/convert.TileSize
	cfg.BATWidth = f.batW
	if cfg.BATWidth == 0 {
		cfg.BATWidth = tw + f.offX
	}
	cfg.BATHeight = f.batH
	if cfg.BATHeight == 0 {
		cfg.BATHeight = th + f.offY
	}
	cfg.OffsetX = f.offX
	cfg.OffsetY = f.offY

	if f.curvePath != "" {
		curve, err := loadCurve(f.curvePath)
		if err != nil {
			return cfg, err
		}
		cfg.Curve = curve
	} else {
		cfg.Curve = convert.IdentityCurve()
	}

	if f.maskPath != "" {
		mask, err := loadMask(f.maskPath, f.width, f.height)
		if err != nil {
			return cfg, err
		}
		cfg.Mask = mask
	}

	if f.constraintsPath != "" {
		constraints, err := loadConstraints(f.constraintsPath, tw, th)
		if err != nil {
			return cfg, err
		}
		cfg.Constraints = constraints
	}

	return cfg, nil
}
