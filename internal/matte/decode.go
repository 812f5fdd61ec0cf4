package matte

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	formatSVG  = "svg"
	formatJPEG = "jpeg"

	// MaxPixels bounds width*height of a decoded image. The source and the
	// composited canvas are both held in memory, and the browser build has a
	// 4 GiB address space.
	MaxPixels = 100_000_000
	// MaxEdge bounds either side of a decoded image.
	MaxEdge = 1 << 16
)

var (
	// ErrUndecodable is returned when data is not an image any registered decoder accepts.
	ErrUndecodable = errors.New("image cannot be decoded")
	// ErrTooLarge is wrapped together with ErrUndecodable for images over MaxPixels or MaxEdge.
	ErrTooLarge = errors.New("image is too large")
)

// Dimensions is a pixel size.
type Dimensions struct {
	Width  int
	Height int
}

// LongestEdge returns the larger of width and height.
func (d Dimensions) LongestEdge() int {
	return max(d.Width, d.Height, 0)
}

// IsZero reports whether no size is known.
func (d Dimensions) IsZero() bool {
	return d.Width <= 0 || d.Height <= 0
}

// Decode decodes raster formats registered with the image package and SVG documents.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", ErrUndecodable)
	}

	if isSVGData(data) {
		img, err := rasterizeSVG(data)
		if err != nil {
			return nil, "", err
		}
		return img, formatSVG, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		slog.Debug("matte: failed to read image header", "input_size_bytes", len(data), "error", err)
		return nil, "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if err := checkSize(cfg.Width, cfg.Height); err != nil {
		return nil, "", err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		slog.Debug("matte: failed to decode image", "input_size_bytes", len(data), "error", err)
		return nil, "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	// browsers display JPEGs in their EXIF orientation
	orient := orientationNormal
	if format == formatJPEG {
		orient = readOrientation(data)
		img = orient.apply(img)
	}
	slog.Debug("matte: decoded image",
		"format", format,
		"orientation", int(orient),
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())
	return img, format, nil
}

// DecodeConfig reads the natural size without decoding the pixels.
func DecodeConfig(data []byte) (Dimensions, string, error) {
	if len(data) == 0 {
		return Dimensions{}, "", fmt.Errorf("%w: empty input", ErrUndecodable)
	}

	if isSVGData(data) {
		w, h, err := svgSize(data)
		if err != nil {
			return Dimensions{}, "", err
		}
		return Dimensions{Width: w, Height: h}, formatSVG, nil
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Dimensions{}, "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if err := checkSize(cfg.Width, cfg.Height); err != nil {
		return Dimensions{}, "", err
	}

	dims := Dimensions{Width: cfg.Width, Height: cfg.Height}
	if format == formatJPEG && readOrientation(data).swapsAxes() {
		dims.Width, dims.Height = dims.Height, dims.Width
	}
	return dims, format, nil
}

// checkSize rejects sizes whose raster would not fit the pixel budget.
func checkSize(width, height int) error {
	if width > MaxEdge || height > MaxEdge || int64(width)*int64(height) > MaxPixels {
		return fmt.Errorf("%w: %w: %dx%d exceeds %d pixels", ErrUndecodable, ErrTooLarge, width, height, MaxPixels)
	}
	return nil
}

func rasterizeSVG(data []byte) (*image.RGBA, error) {
	w, h, err := svgSize(data)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse SVG: %v", ErrUndecodable, err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	// transparent canvas; the matte shows through when composited
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)

	slog.Debug("matte: rasterized SVG", "width", w, "height", h)
	return dst, nil
}

// svgSize returns the explicit width/height of the root element, falling back
// to the viewBox size.
func svgSize(data []byte) (int, int, error) {
	if w, h, ok := parseSvgExplicitSize(data); ok {
		if err := checkSize(w, h); err != nil {
			return 0, 0, err
		}
		return w, h, nil
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: failed to parse SVG: %v", ErrUndecodable, err)
	}
	vw, vh := math.Round(icon.ViewBox.W), math.Round(icon.ViewBox.H)
	if math.IsNaN(vw) || math.IsNaN(vh) || vw <= 0 || vh <= 0 {
		return 0, 0, fmt.Errorf("%w: SVG has neither explicit size nor viewBox", ErrUndecodable)
	}
	if vw > MaxEdge || vh > MaxEdge {
		return 0, 0, fmt.Errorf("%w: %w: view box %gx%g", ErrUndecodable, ErrTooLarge, vw, vh)
	}
	w, h := int(vw), int(vh)
	if err := checkSize(w, h); err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

// parseSvgExplicitSize attempts to extract width and height attributes from the SVG.
// Returns width, height, and ok=true if both are found and parseable.
func parseSvgExplicitSize(data []byte) (int, int, bool) {
	n := min(len(data), 8192)
	s := strings.ToLower(string(data[:n]))
	i := strings.Index(s, "<svg")
	if i < 0 {
		return 0, 0, false
	}
	j := strings.Index(s[i:], ">")
	if j < 0 {
		j = len(s)
	} else {
		j = i + j
	}
	tag := s[i:j]

	w, wOk := parseNumericAttr(tag, "width")
	h, hOk := parseNumericAttr(tag, "height")
	if wOk && hOk && w > 0 && h > 0 {
		return w, h, true
	}
	return 0, 0, false
}

// parseNumericAttr extracts the leading integer of an attribute such as
// width="123px". Only whole attribute names match, so stroke-width is skipped.
// Values above MaxEdge stop accumulating and come back as MaxEdge+1.
func parseNumericAttr(tag, attr string) (int, bool) {
	pos := -1
	for from := 0; from < len(tag); {
		k := strings.Index(tag[from:], attr)
		if k < 0 {
			break
		}
		k += from
		if k > 0 && (tag[k-1] == ' ' || tag[k-1] == '\t' || tag[k-1] == '\n' || tag[k-1] == '\r') {
			rest := strings.TrimLeft(tag[k+len(attr):], " \t\r\n")
			if strings.HasPrefix(rest, "=") {
				pos = k
				break
			}
		}
		from = k + len(attr)
	}
	if pos < 0 {
		return 0, false
	}

	val := tag[pos+len(attr):]
	val = strings.TrimLeft(val, " \t\r\n=")
	if val == "" {
		return 0, false
	}
	if quote := val[0]; quote == '"' || quote == '\'' {
		val = val[1:]
		if end := strings.IndexByte(val, quote); end >= 0 {
			val = val[:end]
		}
	}
	val = strings.TrimSpace(val)
	if strings.HasSuffix(val, "%") {
		return 0, false
	}

	num := 0
	found := false
	for i := 0; i < len(val); i++ {
		ch := val[i]
		if ch >= '0' && ch <= '9' {
			found = true
			num = num*10 + int(ch-'0')
			if num > MaxEdge {
				num = MaxEdge + 1
				break
			}
		} else {
			break
		}
	}
	if !found || num <= 0 {
		return 0, false
	}
	return num, true
}

// isSVGData performs a lightweight detection of SVG content from raw bytes.
func isSVGData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	n := min(len(data), 4096)
	header := bytes.ToLower(bytes.TrimSpace(data[:n]))
	return bytes.Contains(header, []byte("<svg")) ||
		bytes.Contains(header, []byte("xmlns=\"http://www.w3.org/2000/svg\"")) ||
		bytes.Contains(header, []byte("xmlns='http://www.w3.org/2000/svg'"))
}
