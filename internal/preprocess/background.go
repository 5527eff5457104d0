package preprocess

import "image"

// BackgroundSubtractor masks a frame against a previously captured
// background raster. A pixel whose largest per-channel difference from the
// background exceeds DiffThreshold is foreground.
//
// The mask is a pure per-pixel map: no neighbor access, deterministic, and
// symmetric in its two inputs (swapping frame and background yields the
// identical mask).
type BackgroundSubtractor struct {
	background *image.RGBA
}

// NewBackgroundSubtractor creates a subtractor against the given background.
// The background is not copied; callers hand over ownership.
func NewBackgroundSubtractor(background *image.RGBA) *BackgroundSubtractor {
	return &BackgroundSubtractor{background: background}
}

// Mask rewrites frame in place into a binary foreground mask.
// Returns ErrSizeMismatch if frame and background dimensions differ.
func (s *BackgroundSubtractor) Mask(frame *image.RGBA) error {
	fb, bb := frame.Bounds(), s.background.Bounds()
	if fb.Dx() != bb.Dx() || fb.Dy() != bb.Dy() {
		return ErrSizeMismatch
	}

	for y := 0; y < fb.Dy(); y++ {
		fo := frame.PixOffset(fb.Min.X, fb.Min.Y+y)
		bo := s.background.PixOffset(bb.Min.X, bb.Min.Y+y)
		for x := 0; x < fb.Dx(); x++ {
			diff := absDiff(frame.Pix[fo], s.background.Pix[bo])
			if d := absDiff(frame.Pix[fo+1], s.background.Pix[bo+1]); d > diff {
				diff = d
			}
			if d := absDiff(frame.Pix[fo+2], s.background.Pix[bo+2]); d > diff {
				diff = d
			}

			v := uint8(0)
			if diff > DiffThreshold {
				v = 255
			}
			frame.Pix[fo] = v
			frame.Pix[fo+1] = v
			frame.Pix[fo+2] = v
			frame.Pix[fo+3] = 255

			fo += 4
			bo += 4
		}
	}

	return nil
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
