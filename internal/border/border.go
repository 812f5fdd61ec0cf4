// Package border maps a user-facing border percentage to a border thickness
// in pixels.
package border

import (
	"math"
)

const (
	MinPercent     = 0
	MaxPercent     = 100
	DefaultPercent = 10
)

// Curve holds the tuning constants of the percent to pixel mapping.
type Curve struct {
	// MaxPercent is the percentage that maps to the full fraction 1.0.
	MaxPercent int
	// Exponent of the ease-in component, greater than 1.
	Exponent float64
	// LinearWeight is the share of the linear component in the blend.
	LinearWeight float64
	// Scale caps the border at this fraction of the longest edge.
	Scale float64
}

// DefaultCurve is the response curve used by the application. Low settings
// grow slowly and the top of the range grows quickly.
var DefaultCurve = Curve{
	MaxPercent:   MaxPercent,
	Exponent:     2,
	LinearWeight: 0.4,
	Scale:        0.2,
}

// ComputeThickness returns the border thickness for DefaultCurve.
func ComputeThickness(longestEdge int, scaleFactor float64, percent int) int {
	return DefaultCurve.Thickness(longestEdge, scaleFactor, percent)
}

// Thickness returns the border thickness in pixels for an image whose longest
// edge is longestEdge pixels. scaleFactor converts natural pixels to the
// target pixel space: 1 for export, rendered/natural for the preview.
// A positive percent never yields zero.
func (c Curve) Thickness(longestEdge int, scaleFactor float64, percent int) int {
	if percent <= 0 || longestEdge <= 0 {
		return 0
	}
	if math.IsNaN(scaleFactor) || scaleFactor <= 0 {
		return 0
	}

	raw := c.Fraction(percent) * float64(longestEdge) * c.Scale * scaleFactor
	px := int(math.Round(raw))
	if px < 1 {
		px = 1
	}
	return px
}

// Fraction returns the eased fraction in [0, 1] for percent.
func (c Curve) Fraction(percent int) float64 {
	if c.MaxPercent <= 0 {
		return 0
	}
	t := clamp01(float64(percent) / float64(c.MaxPercent))
	eased := math.Pow(t, c.Exponent)
	w := clamp01(c.LinearWeight)
	return w*t + (1-w)*eased
}

// ClampPercent maps p into [MinPercent, MaxPercent].
func ClampPercent(p int) int {
	if p < MinPercent {
		return MinPercent
	}
	if p > MaxPercent {
		return MaxPercent
	}
	return p
}

// LongestEdge returns max(width, height); negative sizes count as zero.
func LongestEdge(width, height int) int {
	return max(width, height, 0)
}

// PreviewScale returns the factor that maps natural pixels to rendered pixels.
// An unknown rendered size means the image is shown at natural size; an
// unknown natural size gives 0.
func PreviewScale(naturalLongest, renderedLongest int) float64 {
	if naturalLongest <= 0 {
		return 0
	}
	if renderedLongest <= 0 {
		return 1
	}
	return float64(renderedLongest) / float64(naturalLongest)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
