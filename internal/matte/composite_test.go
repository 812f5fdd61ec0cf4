package matte

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"
)

func newPatternImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8((x + y) * 3), A: 255})
		}
	}
	return img
}

func isWhite(c color.RGBA) bool {
	return c == color.RGBA{R: 255, G: 255, B: 255, A: 255}
}

func assertComposite(t *testing.T, src image.Image, dst *image.RGBA, border int) {
	t.Helper()
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()

	db := dst.Bounds()
	if db.Dx() != w+2*border || db.Dy() != h+2*border {
		t.Fatalf("Expected canvas %dx%d, got %dx%d", w+2*border, h+2*border, db.Dx(), db.Dy())
	}

	for y := 0; y < db.Dy(); y++ {
		for x := 0; x < db.Dx(); x++ {
			got := dst.RGBAAt(x, y)
			inside := x >= border && x < border+w && y >= border && y < border+h
			if !inside {
				if !isWhite(got) {
					t.Fatalf("Expected white matte at (%d,%d), got %v", x, y, got)
				}
				continue
			}
			want := color.RGBAModel.Convert(src.At(sb.Min.X+x-border, sb.Min.Y+y-border)).(color.RGBA)
			if got != want {
				t.Fatalf("Expected source pixel %v at (%d,%d), got %v", want, x, y, got)
			}
		}
	}
}

func TestComposite_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		border int
	}{
		{name: "landscape", w: 40, h: 20, border: 3},
		{name: "portrait", w: 9, h: 31, border: 1},
		{name: "single pixel", w: 1, h: 1, border: 5},
		{name: "no border", w: 17, h: 11, border: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newPatternImage(tt.w, tt.h)
			dst := Composite(src, tt.border)
			assertComposite(t, src, dst, tt.border)
		})
	}
}

func TestComposite_ScenarioDimensions(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1000, 500))
	dst := Composite(src, 2)
	if dst.Bounds().Dx() != 1004 || dst.Bounds().Dy() != 504 {
		t.Fatalf("Expected 1004x504 canvas, got %dx%d", dst.Bounds().Dx(), dst.Bounds().Dy())
	}

	dst = Composite(src, 0)
	if dst.Bounds() != src.Bounds() {
		t.Fatalf("Expected canvas equal to source bounds %v, got %v", src.Bounds(), dst.Bounds())
	}
}

func TestComposite_NegativeBorder(t *testing.T) {
	src := newPatternImage(6, 4)
	dst := Composite(src, -3)
	assertComposite(t, src, dst, 0)
}

func TestComposite_SubImageOrigin(t *testing.T) {
	full := newPatternImage(30, 30)
	sub := full.SubImage(image.Rect(10, 5, 22, 19))
	dst := Composite(sub, 4)
	assertComposite(t, sub, dst, 4)
}

func TestComposite_TransparentShowsMatte(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(1, 1, color.NRGBA{R: 0, G: 0, B: 0, A: 255})

	dst := Composite(src, 2)
	if got := dst.RGBAAt(2, 2); !isWhite(got) {
		t.Errorf("Expected transparent source pixel to show white, got %v", got)
	}
	if got := dst.RGBAAt(3, 3); got != (color.RGBA{A: 255}) {
		t.Errorf("Expected opaque black source pixel, got %v", got)
	}
	for y := 0; y < dst.Bounds().Dy(); y++ {
		for x := 0; x < dst.Bounds().Dx(); x++ {
			if a := dst.RGBAAt(x, y).A; a != 255 {
				t.Fatalf("Expected opaque canvas, alpha %d at (%d,%d)", a, x, y)
			}
		}
	}
}

func TestEncodePNG_Lossless(t *testing.T) {
	src := newPatternImage(12, 7)
	canvas := Composite(src, 2)

	data, err := EncodePNG(canvas)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}) {
		t.Fatal("Expected PNG signature")
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Result is not valid PNG: %v", err)
	}
	b := decoded.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			want := canvas.RGBAAt(x, y)
			got := color.RGBAModel.Convert(decoded.At(x, y)).(color.RGBA)
			if got != want {
				t.Fatalf("Pixel mismatch at (%d,%d): want %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestParallelFor_VisitsEachIndexOnce(t *testing.T) {
	const n = 1031
	var counts [n]atomic.Int32
	parallelFor(n, func(y int) {
		counts[y].Add(1)
	})
	for i := range counts {
		if c := counts[i].Load(); c != 1 {
			t.Fatalf("Expected index %d visited once, got %d", i, c)
		}
	}

	called := false
	parallelFor(0, func(int) { called = true })
	if called {
		t.Error("Expected no calls for n=0")
	}
}
