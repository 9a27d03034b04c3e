package main

import (
	"fmt"
	"image"

	"github.com/veandco/go-sdl2/sdl"
)

// showPreview opens a single SDL2 window, blits img once and waits for a
// close event, a keyboard event or a mouse-button event. Adapted from cmd/vnes/gameView.go's window/renderer/
// streaming-texture setup, reduced from a 60fps render loop driven by a
// console to a single present: there is no CRT shader, HUD or menu here,
// those stay out of scope (§1).
func showPreview(img *image.RGBA) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("preview: unable to init sdl: %s", err)
	}
	defer sdl.Quit()

	w, h := int32(img.Bounds().Dx()), int32(img.Bounds().Dy())
	scale := int32(2)

	window, err := sdl.CreateWindow("tileconv preview", sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, w*scale, h*scale, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("preview: unable to create window: %s", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return fmt.Errorf("preview: unable to create renderer: %s", err)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STATIC, w, h)
	if err != nil {
		return fmt.Errorf("preview: unable to create texture: %s", err)
	}
	defer texture.Destroy()

	if err := texture.Update(nil, img.Pix, img.Stride); err != nil {
		return fmt.Errorf("preview: unable to upload texture: %s", err)
	}

	if err := renderer.Clear(); err != nil {
		return fmt.Errorf("preview: unable to clear renderer: %s", err)
	}
	if err := renderer.Copy(texture, nil, nil); err != nil {
		return fmt.Errorf("preview: unable to blit texture: %s", err)
	}
	renderer.Present()

	for {
		switch sdl.WaitEvent().(type) {
		case *sdl.QuitEvent:
			return nil
		case *sdl.KeyboardEvent, *sdl.MouseButtonEvent:
			return nil
		}
	}
}
