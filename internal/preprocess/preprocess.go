// Package preprocess implements the foreground-mask filters applied to
// frames before they are submitted for detection.
package preprocess

import (
	"errors"
	"image"
)

// Filter thresholds. Channel values are in the 0-255 range.
const (
	// DiffThreshold is the per-channel difference above which a pixel is
	// treated as foreground during background subtraction.
	DiffThreshold = 30
	// GradientThreshold is the grayscale gradient magnitude above which a
	// pixel is treated as an edge by the edge+skin filter.
	GradientThreshold = 20
)

// ErrSizeMismatch is returned when a frame and its reference background
// do not have identical dimensions.
var ErrSizeMismatch = errors.New("frame and background dimensions differ")

// Masker rewrites a raster in place into a binary foreground mask.
// Foreground pixels become white, everything else black, and alpha is
// forced opaque.
type Masker interface {
	Mask(frame *image.RGBA) error
}

// CloneRGBA returns a deep copy of src.
func CloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
