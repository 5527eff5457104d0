// Package testdata synthesizes image fixtures for tests. Frames are
// generated rather than stored so tests do not depend on binary assets.
package testdata

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// UniformFrame returns a w x h raster filled with a single color.
func UniformFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// SplitFrame returns a w x h raster with the left half in one color and
// the right half in another, producing a sharp vertical edge.
func SplitFrame(w, h int, left, right color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := left
			if x >= w/2 {
				c = right
			}
			o := img.PixOffset(x, y)
			img.Pix[o] = c.R
			img.Pix[o+1] = c.G
			img.Pix[o+2] = c.B
			img.Pix[o+3] = c.A
		}
	}
	return img
}

// EncodeJPEG encodes a frame as a JPEG for upload tests.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("encode fixture: %w", err)
	}
	return buf.Bytes(), nil
}
