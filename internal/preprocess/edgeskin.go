package preprocess

import (
	"image"
	"math"
)

// EdgeSkinMasker masks a single frame with no reference background, for use
// with uploaded still images. A pixel is foreground if its grayscale
// gradient magnitude exceeds GradientThreshold or it passes a fixed
// skin-tone rule.
//
// The filter is two-pass: the full grayscale buffer is computed before the
// gradient pass so writes never feed back into reads. Border pixels have no
// complete neighborhood and are always black.
type EdgeSkinMasker struct{}

// NewEdgeSkinMasker creates an edge+skin masker. The filter is stateless.
func NewEdgeSkinMasker() *EdgeSkinMasker {
	return &EdgeSkinMasker{}
}

// Mask rewrites frame in place into a binary foreground mask.
func (EdgeSkinMasker) Mask(frame *image.RGBA) error {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()

	// Pass 1: grayscale via luma weighting.
	gray := make([]float64, w*h)
	for y := 0; y < h; y++ {
		o := frame.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			r := float64(frame.Pix[o])
			g := float64(frame.Pix[o+1])
			bl := float64(frame.Pix[o+2])
			gray[y*w+x] = 0.299*r + 0.587*g + 0.114*bl
			o += 4
		}
	}

	// Pass 2: gradient + skin classification, writing the mask. Each pixel
	// is read before it is written, so writing in place is safe.
	for y := 0; y < h; y++ {
		o := frame.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			v := uint8(0)
			if x > 0 && x < w-1 && y > 0 && y < h-1 {
				gx := gray[y*w+x+1] - gray[y*w+x-1]
				gy := gray[(y+1)*w+x] - gray[(y-1)*w+x]
				edge := math.Sqrt(gx*gx+gy*gy) > GradientThreshold
				if edge || skinLike(frame.Pix[o], frame.Pix[o+1], frame.Pix[o+2]) {
					v = 255
				}
			}
			frame.Pix[o] = v
			frame.Pix[o+1] = v
			frame.Pix[o+2] = v
			frame.Pix[o+3] = 255
			o += 4
		}
	}

	return nil
}

// skinLike is the fixed skin-tone rule applied per pixel.
func skinLike(r, g, b uint8) bool {
	return r > 60 && g > 40 && b > 20 &&
		r > g && r > b &&
		int(r)-int(g) > 15
}
