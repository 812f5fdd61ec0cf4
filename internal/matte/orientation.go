package matte

import (
	"bytes"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// orientation is the EXIF Orientation tag value.
type orientation int

const (
	orientationNormal      orientation = 1
	orientationFlipH       orientation = 2
	orientationRotate180   orientation = 3
	orientationFlipV       orientation = 4
	orientationTranspose   orientation = 5
	orientationRotate90CW  orientation = 6
	orientationTransverse  orientation = 7
	orientationRotate90CCW orientation = 8
)

// readOrientation returns the EXIF orientation of a JPEG, or
// orientationNormal when the tag is missing or unreadable.
func readOrientation(data []byte) orientation {
	x, err := exif.Decode(bytes.NewReader(data))
	if x == nil {
		if err != nil {
			slog.Debug("matte: no EXIF data", "error", err)
		}
		return orientationNormal
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return orientationNormal
	}
	v, err := tag.Int(0)
	if err != nil || v < int(orientationNormal) || v > int(orientationRotate90CCW) {
		return orientationNormal
	}
	return orientation(v)
}

// swapsAxes reports whether the displayed image is the stored one turned on its side.
func (o orientation) swapsAxes() bool {
	return o >= orientationTranspose && o <= orientationRotate90CCW
}

// apply turns the stored raster into the displayed one.
func (o orientation) apply(img image.Image) image.Image {
	switch o {
	case orientationFlipH:
		return imaging.FlipH(img)
	case orientationRotate180:
		return imaging.Rotate180(img)
	case orientationFlipV:
		return imaging.FlipV(img)
	case orientationTranspose:
		return imaging.Transpose(img)
	case orientationRotate90CW:
		// imaging rotates counter-clockwise
		return imaging.Rotate270(img)
	case orientationTransverse:
		return imaging.Transverse(img)
	case orientationRotate90CCW:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
