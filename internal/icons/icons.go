// Package icons renders the application icon to the PNG sizes used by home
// screen shortcuts and the web manifest.
package icons

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jo-hoe/whiteborder/internal/matte"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

const (
	ManifestDir        = "icons"
	AppleTouchIconName = "apple-touch-icon.png"
)

// Options selects the source image, the output directory and the sizes.
type Options struct {
	Source            string
	OutputDir         string
	Background        color.Color
	AppleTouchSizes   []int
	AppleTouchPrimary int
	ManifestSizes     []int
}

// Icon is one generated file.
type Icon struct {
	Path string
	Size int
}

type job struct {
	path string
	size int
}

// AppleTouchName returns the file name of a sized home screen icon.
func AppleTouchName(size int) string {
	return fmt.Sprintf("apple-touch-icon-%dx%d.png", size, size)
}

// ManifestPath returns the slash separated path of a manifest icon relative
// to the output directory.
func ManifestPath(size int) string {
	return fmt.Sprintf("%s/icon-%dx%d.png", ManifestDir, size, size)
}

// Generate renders every configured size concurrently. The first failure
// cancels the remaining work.
func Generate(ctx context.Context, opts Options) ([]Icon, error) {
	source, err := os.ReadFile(opts.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to read icon source %s: %w", opts.Source, err)
	}
	background := opts.Background
	if background == nil {
		background = color.White
	}

	jobs := make([]job, 0, len(opts.AppleTouchSizes)+len(opts.ManifestSizes)+1)
	for _, size := range opts.AppleTouchSizes {
		jobs = append(jobs, job{path: filepath.Join(opts.OutputDir, AppleTouchName(size)), size: size})
	}
	if opts.AppleTouchPrimary > 0 {
		jobs = append(jobs, job{path: filepath.Join(opts.OutputDir, AppleTouchIconName), size: opts.AppleTouchPrimary})
	}
	for _, size := range opts.ManifestSizes {
		jobs = append(jobs, job{path: filepath.Join(opts.OutputDir, filepath.FromSlash(ManifestPath(size))), size: size})
	}

	for _, dir := range []string{opts.OutputDir, filepath.Join(opts.OutputDir, ManifestDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create icon directory %s: %w", dir, err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	generated := make([]Icon, len(jobs))
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := Render(source, j.size, background)
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", j.path, err)
			}
			data, err := matte.EncodePNG(img)
			if err != nil {
				return fmt.Errorf("failed to encode %s: %w", j.path, err)
			}
			if err := os.WriteFile(j.path, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", j.path, err)
			}
			slog.Debug("icon written", "path", j.path, "size", j.size, "output_size_bytes", len(data))
			generated[i] = Icon{Path: j.path, Size: j.size}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("icons generated", "count", len(generated), "output_dir", opts.OutputDir)
	return generated, nil
}

// Render scales source to a size x size square so that it covers the whole
// square, crops the overflow evenly and flattens it onto background.
func Render(source []byte, size int, background color.Color) (*image.RGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid icon size %d", size)
	}
	dims, format, err := matte.DecodeConfig(source)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

	if format == "svg" {
		if err := drawSVGCover(dst, source, dims); err != nil {
			return nil, err
		}
		return dst, nil
	}

	img, _, err := matte.Decode(source)
	if err != nil {
		return nil, err
	}
	crop := coverCrop(img.Bounds())
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, xdraw.Over, nil)
	return dst, nil
}

func drawSVGCover(dst *image.RGBA, source []byte, dims matte.Dimensions) error {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(source))
	if err != nil {
		return fmt.Errorf("failed to parse SVG: %w", err)
	}

	size := dst.Bounds().Dx()
	w, h := float64(dims.Width), float64(dims.Height)
	scale := max(float64(size)/w, float64(size)/h)
	drawnW, drawnH := w*scale, h*scale
	offsetX := (float64(size) - drawnW) / 2
	offsetY := (float64(size) - drawnH) / 2
	icon.SetTarget(offsetX, offsetY, drawnW, drawnH)

	scanner := rasterx.NewScannerGV(size, size, dst, dst.Bounds())
	dasher := rasterx.NewDasher(size, size, scanner)
	icon.Draw(dasher, 1.0)
	return nil
}

// coverCrop returns the centered square of r.
func coverCrop(r image.Rectangle) image.Rectangle {
	side := min(r.Dx(), r.Dy())
	x0 := r.Min.X + (r.Dx()-side)/2
	y0 := r.Min.Y + (r.Dy()-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}

// ParseHexColor parses "#rgb" or "#rrggbb".
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
