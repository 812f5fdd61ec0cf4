package core

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jo-hoe/whiteborder/internal/border"
	"github.com/jo-hoe/whiteborder/internal/matte"
)

var (
	ErrNoImage          = errors.New("no image selected")
	ErrDecode           = errors.New("failed to load image")
	ErrExportInProgress = errors.New("export already in progress")
)

// Stage is the step an export is currently in.
type Stage int32

const (
	StageIdle Stage = iota
	StageLoading
	StageCompositing
	StageEncoding
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageLoading:
		return "loading"
	case StageCompositing:
		return "compositing"
	case StageEncoding:
		return "encoding"
	default:
		return fmt.Sprintf("stage(%d)", int32(s))
	}
}

// DecodeFunc turns encoded bytes into an image.
type DecodeFunc func(data []byte) (image.Image, error)

// Artifact is one exported PNG. It is not retained by the session.
type Artifact struct {
	FileName string
	Data     []byte
	Width    int
	Height   int
	Border   int
}

type decodeResult struct {
	img image.Image
	err error
}

// Session owns the state of one editing view: the selected image, its natural
// and rendered sizes, the border percent and the export busy flag. Border
// thickness is never stored; it is recomputed from these fields on demand.
type Session struct {
	mu       sync.Mutex
	fileName string
	source   []byte
	natural  matte.Dimensions
	rendered matte.Dimensions
	percent  int

	busy  atomic.Bool
	stage atomic.Int32

	decode DecodeFunc
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDecoder replaces the image decoder used by Export.
func WithDecoder(decode DecodeFunc) SessionOption {
	return func(s *Session) {
		if decode != nil {
			s.decode = decode
		}
	}
}

// WithPercent sets the starting border percent.
func WithPercent(percent int) SessionOption {
	return func(s *Session) {
		s.percent = border.ClampPercent(percent)
	}
}

func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		percent: border.DefaultPercent,
		decode:  decodeImage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func decodeImage(data []byte) (image.Image, error) {
	img, _, err := matte.Decode(data)
	return img, err
}

// Load selects a new image and releases the previously selected one. Data the
// decoder cannot read stays selected with an unknown natural size; the
// returned error reports it and a later Export fails.
func (s *Session) Load(fileName string, data []byte) (matte.Dimensions, error) {
	if len(data) == 0 {
		return matte.Dimensions{}, ErrNoImage
	}

	dims, format, err := matte.DecodeConfig(data)

	s.mu.Lock()
	s.fileName = fileName
	s.source = data
	s.natural = dims
	s.rendered = matte.Dimensions{}
	s.mu.Unlock()

	if err != nil {
		slog.Warn("selected file is not a readable image",
			"file_name", fileName,
			"input_size_bytes", len(data),
			"error", err)
		return matte.Dimensions{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	slog.Info("image selected",
		"file_name", fileName,
		"format", format,
		"natural_width", dims.Width,
		"natural_height", dims.Height)
	return dims, nil
}

// Close releases the selected image.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileName = ""
	s.source = nil
	s.natural = matte.Dimensions{}
	s.rendered = matte.Dimensions{}
}

// HasImage reports whether an image is selected.
func (s *Session) HasImage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source != nil
}

func (s *Session) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileName
}

// SetPercent clamps percent to the supported range, stores and returns it.
func (s *Session) SetPercent(percent int) int {
	percent = border.ClampPercent(percent)
	s.mu.Lock()
	s.percent = percent
	s.mu.Unlock()
	return percent
}

func (s *Session) Percent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.percent
}

// SetRenderedSize records the on-screen size of the preview image.
func (s *Session) SetRenderedSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rendered = matte.Dimensions{Width: max(width, 0), Height: max(height, 0)}
}

func (s *Session) NaturalSize() matte.Dimensions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.natural
}

func (s *Session) RenderedSize() matte.Dimensions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rendered
}

// PreviewBorder is the border in on-screen pixels for the current rendered size.
func (s *Session) PreviewBorder() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	naturalEdge := s.natural.LongestEdge()
	scale := border.PreviewScale(naturalEdge, s.rendered.LongestEdge())
	return border.ComputeThickness(naturalEdge, scale, s.percent)
}

// ExportBorder is the border in natural pixels used for the exported image.
func (s *Session) ExportBorder() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return border.ComputeThickness(s.natural.LongestEdge(), 1, s.percent)
}

// Busy reports whether an export is running.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

func (s *Session) Stage() Stage {
	return Stage(s.stage.Load())
}

func (s *Session) setStage(stage Stage) {
	s.stage.Store(int32(stage))
}

// Export decodes the selected image, adds the white border and encodes the
// result as PNG. The busy flag is raised before decoding starts and cleared on
// every return. Exports cannot be cancelled once started.
func (s *Session) Export() (*Artifact, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	defer func() {
		s.setStage(StageIdle)
		s.busy.Store(false)
	}()

	s.mu.Lock()
	fileName := s.fileName
	source := s.source
	percent := s.percent
	s.mu.Unlock()

	if source == nil {
		return nil, ErrNoImage
	}

	start := time.Now()
	s.setStage(StageLoading)
	result := <-s.decodeAsync(source)
	if result.err != nil {
		slog.Error("export failed: image could not be decoded",
			"file_name", fileName,
			"error", result.err)
		return nil, fmt.Errorf("%w: %w", ErrDecode, result.err)
	}

	bounds := result.img.Bounds()
	thickness := border.ComputeThickness(border.LongestEdge(bounds.Dx(), bounds.Dy()), 1, percent)

	s.setStage(StageCompositing)
	canvas := matte.Composite(result.img, thickness)

	s.setStage(StageEncoding)
	data, err := matte.EncodePNG(canvas)
	if err != nil {
		slog.Error("export failed: encoding", "file_name", fileName, "error", err)
		return nil, err
	}

	artifact := &Artifact{
		FileName: DownloadName(fileName),
		Data:     data,
		Width:    canvas.Bounds().Dx(),
		Height:   canvas.Bounds().Dy(),
		Border:   thickness,
	}
	slog.Info("export completed",
		"file_name", artifact.FileName,
		"percent", percent,
		"border_px", thickness,
		"width", artifact.Width,
		"height", artifact.Height,
		"output_size_bytes", len(data),
		"duration_ms", time.Since(start).Milliseconds())
	return artifact, nil
}

// decodeAsync runs the decoder on its own goroutine; the returned channel
// yields exactly one result.
func (s *Session) decodeAsync(data []byte) <-chan decodeResult {
	out := make(chan decodeResult, 1)
	decode := s.decode
	go func() {
		defer func() {
			if r := recover(); r != nil {
				out <- decodeResult{err: fmt.Errorf("decoder panicked: %v", r)}
			}
		}()
		img, err := decode(data)
		if err == nil && img == nil {
			err = errors.New("decoder returned no image")
		}
		out <- decodeResult{img: img, err: err}
	}()
	return out
}
