package convert

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func minimalSourceImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 4), uint8(y * 4), 128, 255})
		}
	}
	return img
}

func minimalConfig() Config {
	return Config{
		Source: minimalSourceImage(),
		Resize: Nearest,
		Width:  256, Height: 256,
		K:        4,
		Dither:   DitherNone,
		Curve:    IdentityCurve(),
		BATWidth: 32, BATHeight: 32,
		VRAMBase: 0x4000,
		Endian:   StreamEndian{},
		Seed:     1,
	}
}

func TestPipelineConvertProducesWellFormedResult(t *testing.T) {
	p := NewPipeline()
	res, err := p.Convert(context.Background(), minimalConfig())
	require.NoError(t, err)

	require.Equal(t, 32*32, res.TilesW*res.TilesH)
	require.Len(t, res.Palettes, MaxPalettes)
	for p := range res.Palettes {
		require.Equal(t, res.Background, res.Palettes[p][0])
	}
	require.Equal(t, Tile{}, res.UniqueTiles[0])
}

func TestPipelineRejectsConcurrentConvert(t *testing.T) {
	p := NewPipeline()
	p.state = Running // simulate an in-flight conversion without racing a real one

	_, err := p.Convert(context.Background(), minimalConfig())
	require.Error(t, err)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, InvalidInput, cerr.Kind)
}

func TestPipelineReusableAfterCompletion(t *testing.T) {
	p := NewPipeline()
	_, err := p.Convert(context.Background(), minimalConfig())
	require.NoError(t, err)
	require.Equal(t, Completed, p.State())

	_, err = p.Convert(context.Background(), minimalConfig())
	require.NoError(t, err)
}

func TestPipelineStateFailedOnInvalidConfig(t *testing.T) {
	p := NewPipeline()
	cfg := minimalConfig()
	cfg.Width = 3 // invalid: not a multiple of TileSize

	_, err := p.Convert(context.Background(), cfg)
	require.Error(t, err)
	require.Equal(t, Failed, p.State())
}

func TestPipelineReportsProgressForEveryStage(t *testing.T) {
	var stages []string
	cfg := minimalConfig()
	cfg.OnProgress = func(stage string, nanos int64) {
		stages = append(stages, stage)
	}

	p := NewPipeline()
	_, err := p.Convert(context.Background(), cfg)
	require.NoError(t, err)
	require.Contains(t, stages, "resample")
	require.Contains(t, stages, "tonemap")
	require.Contains(t, stages, "dither")
	require.Contains(t, stages, "palette")
	require.Contains(t, stages, "tile")
	require.Contains(t, stages, "dedup+bat")
	require.Contains(t, stages, "preview")
}

func TestPipelineCancellationAtStageBoundary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline()
	_, err := p.Convert(ctx, minimalConfig())
	require.Error(t, err)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, Cancelled, cerr.Kind)
}

func TestPipelineDeterministicAcrossRuns(t *testing.T) {
	cfg := minimalConfig()
	cfg.Dither = DitherFloydSteinberg

	p1 := NewPipeline()
	res1, err := p1.Convert(context.Background(), cfg)
	require.NoError(t, err)

	p2 := NewPipeline()
	res2, err := p2.Convert(context.Background(), cfg)
	require.NoError(t, err)

	art1, err := EmitBinary(res1, cfg.Endian)
	require.NoError(t, err)
	art2, err := EmitBinary(res2, cfg.Endian)
	require.NoError(t, err)

	require.Equal(t, art1.BAT, art2.BAT)
	require.Equal(t, art1.Tiles, art2.Tiles)
	require.Equal(t, art1.Palette, art2.Palette)
}
