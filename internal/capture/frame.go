package capture

import (
	"errors"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// FrameSize is the side of the square raster every source is normalized to
// before preprocessing and detection.
const FrameSize = 640

// ErrNoDimensions is returned when a source image has no readable dimensions.
var ErrNoDimensions = errors.New("source has no readable dimensions")

// CenterCrop produces a FrameSize x FrameSize raster cropped from the
// center of src, trimming the longer dimension symmetrically to preserve
// aspect ratio, then scaling to the frame size.
func CenterCrop(src image.Image) (*image.RGBA, error) {
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrNoDimensions
	}

	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}

	square := imaging.CropCenter(src, side, side)
	scaled := imaging.Resize(square, FrameSize, FrameSize, imaging.Lanczos)

	return toRGBA(scaled), nil
}

// toRGBA converts any image to an RGBA raster with origin (0,0).
func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect.Min == image.Pt(0, 0) {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
