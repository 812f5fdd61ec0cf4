// Package matte composites a photo onto a solid white matte and encodes the
// result as PNG.
package matte

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
)

var matteColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Composite returns a canvas of size (w+2*border, h+2*border) filled with
// opaque white, with src drawn unscaled at (border, border). Transparent
// source pixels show the matte. A negative border is treated as zero.
func Composite(src image.Image, border int) *image.RGBA {
	border = max(border, 0)
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()

	dst := createTargetCanvas(w+2*border, h+2*border, matteColor)

	// rows are disjoint, so workers never touch the same pixels
	parallelFor(h, func(y int) {
		row := image.Rect(border, border+y, border+w, border+y+1)
		draw.Draw(dst, row, src, image.Pt(sb.Min.X, sb.Min.Y+y), draw.Over)
	})

	slog.Debug("matte: composited image",
		"source_width", w,
		"source_height", h,
		"border_px", border,
		"canvas_width", dst.Bounds().Dx(),
		"canvas_height", dst.Bounds().Dy())
	return dst
}

// EncodePNG encodes img losslessly as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	bb := img.Bounds()
	// rough heuristic: 1 byte per pixel
	buf.Grow(bb.Dx() * bb.Dy())
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG image: %w", err)
	}
	return buf.Bytes(), nil
}

func createTargetCanvas(w, h int, bg color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	return dst
}
