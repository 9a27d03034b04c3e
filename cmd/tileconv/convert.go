package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flga/tilegfx/convert"
	"github.com/flga/tilegfx/internal/progress"
)

// runConvert implements "tileconv convert": decode one source image, run
// the pipeline, write artifacts. Grounded in cmd/vnes/main.go's
// run(...) error indirection (flag parsing in main, real work behind a
// function that returns error for main to report and os.Exit(2) on).
func runConvert(args []string) error {
	fs := exitFlagSet("convert")
	in := fs.String("in", "", "input image path (required)")
	outPrefix := fs.String("out-prefix", "", "output path prefix (required)")
	var f cliFlags
	registerCommonFlags(fs, &f)
	fs.Parse(args)

	if *in == "" || *outPrefix == "" {
		return fmt.Errorf("convert: -in and -out-prefix are required")
	}

	return convertOne(*in, *outPrefix, &f)
}

func convertOne(inPath, outPrefix string, f *cliFlags) error {
	src, err := decodeImage(inPath)
	if err != nil {
		return err
	}

	cfg, err := buildConfig(f, src)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}

	meter := progress.New()
	cfg.OnProgress = func(stage string, nanos int64) {
		meter.Record(stage, time.Duration(nanos))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigchan
		cancel()
	}()

	pipeline := convert.NewPipeline()
	res, err := pipeline.Convert(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}

	if err := meter.WriteSummary(os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "tileconv: unable to write stage summary: %s\n", err)
	}

	if f.preview {
		previewImg := &image.RGBA{
			Pix:    res.Preview,
			Stride: res.Width * 4,
			Rect:   image.Rect(0, 0, res.Width, res.Height),
		}
		if err := showPreview(previewImg); err != nil {
			fmt.Fprintf(os.Stderr, "tileconv: preview failed: %s\n", err)
		}
	}

	if err := writeOutputs(res, outPrefix, cfg.Endian, f.text); err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}

	if f.strict && res.Warnings.HasKind(convert.VramOverflow) {
		return fmt.Errorf("%s: %s", inPath, res.Warnings.Error())
	}

	return nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open source image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", path, err)
	}
	return img, nil
}
