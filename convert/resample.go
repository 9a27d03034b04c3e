package convert

import (
	"context"
	"image"
	"image/color"
	"math"
	"sync"
)

// rgb8 is a plain 8-bit RGB pixel (no alpha) — the resampler's output
// never carries alpha; transparency is composited against the background
// before resampling to avoid halos (§4.1).
type rgb8 struct{ R, G, B uint8 }

// resampleHandle is a cooperative-cancellation helper for the resampler's
// row-parallel worker pool, modeled directly on github.com/oov/downscale's
// util.go `handle` type: a WaitGroup tracks outstanding workers, and an
// RWMutex-guarded bool lets any goroutine observe an abort request without
// the pool being forcibly killed. Workers check Aborted() between rows and
// stop early; Wait blocks until either all workers finish or ctx is done.
type resampleHandle struct {
	mu    sync.RWMutex
	abort bool
	wg    sync.WaitGroup
}

func (h *resampleHandle) setAbort() {
	h.mu.Lock()
	h.abort = true
	h.mu.Unlock()
}

func (h *resampleHandle) aborted() bool {
	h.mu.RLock()
	a := h.abort
	h.mu.RUnlock()
	return a
}

func (h *resampleHandle) wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		h.setAbort()
		<-done
		return ctx.Err()
	}
}

// resample produces an exactly W x H 8-bit RGB image from src, regardless
// of src's aspect ratio (§4.1). Alpha is composited against bg first. When
// keepRatio is true the scaled image is centered and the remainder is
// padded with bg; otherwise src is stretched to fill W x H exactly.
func resample(ctx context.Context, src image.Image, algo ResizeAlgo, w, h int, keepRatio bool, bg [3]uint8) ([]rgb8, error) {
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	if sw <= 0 || sh <= 0 {
		return nil, newError(InvalidInput, "source image has zero extent")
	}

	flat := compositeAgainstBackground(src, bg)

	var destW, destH, offX, offY int
	if !keepRatio {
		destW, destH, offX, offY = w, h, 0, 0
	} else {
		scale := math.Min(float64(w)/float64(sw), float64(h)/float64(sh))
		destW = int(math.Round(float64(sw) * scale))
		destH = int(math.Round(float64(sh) * scale))
		if destW < 1 {
			destW = 1
		}
		if destH < 1 {
			destH = 1
		}
		offX = (w - destW) / 2
		offY = (h - destH) / 2
	}

	scaled, err := resizeFlat(ctx, flat, sw, sh, destW, destH, algo)
	if err != nil {
		return nil, err
	}

	if !keepRatio {
		return scaled, nil
	}

	out := make([]rgb8, w*h)
	for i := range out {
		out[i] = rgb8{bg[0], bg[1], bg[2]}
	}
	for y := 0; y < destH; y++ {
		dy := y + offY
		if dy < 0 || dy >= h {
			continue
		}
		for x := 0; x < destW; x++ {
			dx := x + offX
			if dx < 0 || dx >= w {
				continue
			}
			out[dy*w+dx] = scaled[y*destW+x]
		}
	}
	return out, nil
}

// compositeAgainstBackground flattens src to premultiplied-free 8-bit RGB,
// compositing alpha against bg so translucent edges don't halo once
// quantized (§4.1).
func compositeAgainstBackground(src image.Image, bg [3]uint8) []rgb8 {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]rgb8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if a == 0xFFFF {
				out[y*w+x] = rgb8{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8)}
				continue
			}
			if a == 0 {
				out[y*w+x] = rgb8{bg[0], bg[1], bg[2]}
				continue
			}
			af := float64(a) / 0xFFFF
			cr := float64(r>>8)*af + float64(bg[0])*(1-af)
			cg := float64(g>>8)*af + float64(bg[1])*(1-af)
			cb := float64(bl>>8)*af + float64(bg[2])*(1-af)
			out[y*w+x] = rgb8{clamp8(cr), clamp8(cg), clamp8(cb)}
		}
	}
	return out
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// resizeFlat resizes a flat sw x sh RGB buffer to dw x dh using the named
// kernel. Rows of the destination are independent, so the work is
// partitioned across a small worker pool (at most four goroutines, fewer
// for short images) following resampleHandle's cooperative-abort shape; the
// output does not depend on how many workers ran, only on (sw,sh,dw,dh).
func resizeFlat(ctx context.Context, src []rgb8, sw, sh, dw, dh int, algo ResizeAlgo) ([]rgb8, error) {
	out := make([]rgb8, dw*dh)
	if dw == 0 || dh == 0 {
		return out, nil
	}

	kernel := kernelFor(algo)

	workers := 4
	if dh < workers {
		workers = dh
	}
	if workers < 1 {
		workers = 1
	}

	h := &resampleHandle{}
	rowsPerWorker := (dh + workers - 1) / workers
	for wk := 0; wk < workers; wk++ {
		y0 := wk * rowsPerWorker
		y1 := y0 + rowsPerWorker
		if y1 > dh {
			y1 = dh
		}
		if y0 >= y1 {
			continue
		}
		h.wg.Add(1)
		go func(y0, y1 int) {
			defer h.wg.Done()
			for y := y0; y < y1; y++ {
				if h.aborted() {
					return
				}
				resizeRow(src, sw, sh, dw, dh, y, out, kernel)
			}
		}(y0, y1)
	}

	if err := h.wait(ctx); err != nil {
		return nil, wrapError(Cancelled, err, "resample: aborted")
	}
	return out, nil
}

// kernelFn evaluates a 1-D resampling kernel at distance t (in source
// pixels). Evaluated in float64 with stable rounding to 8-bit at the call
// site, never varying with worker count or SIMD width (§9).
type kernelFn func(t float64) float64

func kernelFor(algo ResizeAlgo) kernelFn {
	switch algo {
	case Nearest:
		return nil // handled specially
	case Lanczos3:
		return lanczosKernel(3)
	default: // CatmullRom
		return catmullRomKernel
	}
}

func catmullRomKernel(t float64) float64 {
	t = math.Abs(t)
	if t <= 1 {
		return 1.5*t*t*t - 2.5*t*t + 1
	}
	if t < 2 {
		return -0.5*t*t*t + 2.5*t*t - 4*t + 2
	}
	return 0
}

func lanczosKernel(a int) kernelFn {
	return func(t float64) float64 {
		t = math.Abs(t)
		if t < 1e-12 {
			return 1
		}
		if t >= float64(a) {
			return 0
		}
		pit := math.Pi * t
		return float64(a) * math.Sin(pit) * math.Sin(pit/float64(a)) / (pit * pit)
	}
}

// resizeRow fills row y of the destination buffer via separable 2-D
// resampling (horizontal pass sampled at each kernel tap, combined with a
// vertical pass), matching the standard windowed-sinc/cubic approach; for
// Nearest the row is filled by direct index mapping with no kernel taps.
func resizeRow(src []rgb8, sw, sh, dw, dh, y int, out []rgb8, kernel kernelFn) {
	if kernel == nil {
		sy := y * sh / dh
		if sy >= sh {
			sy = sh - 1
		}
		for x := 0; x < dw; x++ {
			sx := x * sw / dw
			if sx >= sw {
				sx = sw - 1
			}
			out[y*dw+x] = src[sy*sw+sx]
		}
		return
	}

	support := 2.0
	scaleY := float64(sh) / float64(dh)
	scaleX := float64(sw) / float64(dw)
	centerY := (float64(y)+0.5)*scaleY - 0.5

	for x := 0; x < dw; x++ {
		centerX := (float64(x)+0.5)*scaleX - 0.5

		var accR, accG, accB, wsum float64
		y0 := int(math.Floor(centerY - support))
		y1 := int(math.Ceil(centerY + support))
		x0 := int(math.Floor(centerX - support))
		x1 := int(math.Ceil(centerX + support))

		for sy := y0; sy <= y1; sy++ {
			cy := clampIndex(sy, sh)
			wy := kernel(centerY - float64(sy))
			if wy == 0 {
				continue
			}
			for sx := x0; sx <= x1; sx++ {
				cx := clampIndex(sx, sw)
				wx := kernel(centerX - float64(sx))
				if wx == 0 {
					continue
				}
				weight := wx * wy
				p := src[cy*sw+cx]
				accR += float64(p.R) * weight
				accG += float64(p.G) * weight
				accB += float64(p.B) * weight
				wsum += weight
			}
		}

		if wsum == 0 {
			wsum = 1
		}
		out[y*dw+x] = rgb8{
			clamp8(accR / wsum),
			clamp8(accG / wsum),
			clamp8(accB / wsum),
		}
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// toRGBAImage is a small convenience used by tests and the pipeline to turn
// a flat rgb8 buffer into a standard library image for inspection.
func toRGBAImage(buf []rgb8, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := buf[y*w+x]
			img.SetRGBA(x, y, color.RGBA{p.R, p.G, p.B, 0xFF})
		}
	}
	return img
}
