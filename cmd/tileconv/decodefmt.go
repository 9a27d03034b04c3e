package main

import (
	// Register the standard decoders plus Targa and WebP, so image.Decode
	// recognizes every source format the CLI advertises (§1, §6). convert
	// never imports any of these: decoding is strictly a cmd/tileconv
	// concern.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/deepteams/webp"
	_ "github.com/ftrvxmtrx/tga"
)
