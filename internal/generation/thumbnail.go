// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// thumbMaxWidth is the maximum thumbnail width in pixels.
	thumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated thumbnails.
	thumbQuality = 80

	// maxImagePixels caps decoded size to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000
)

// generateThumbnail decodes an image and scales it down to maxWidth,
// returning JPEG bytes. Returns (nil, nil) when the source is already
// narrower than maxWidth — no upscaling.
func generateThumbnail(r io.Reader, maxWidth int) ([]byte, error) {
	var buf bytes.Buffer
	tee := io.TeeReader(r, &buf)

	cfg, _, err := image.DecodeConfig(tee)
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width*cfg.Height > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d pixels", cfg.Width, cfg.Height)
	}
	if cfg.Width <= maxWidth {
		return nil, nil
	}

	src, _, err := image.Decode(io.MultiReader(&buf, r))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	height := bounds.Dy() * maxWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return out.Bytes(), nil
}
