package capture

import (
	"image"
	"testing"
)

func solidFrame(w, h int, r, g, b uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = 255
	}
	return img
}

func TestCenterCrop_Dimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{name: "landscape", w: 800, h: 600},
		{name: "portrait", w: 600, h: 800},
		{name: "square", w: 640, h: 640},
		{name: "smaller than frame", w: 100, h: 80},
		{name: "camera native", w: 640, h: 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := CenterCrop(solidFrame(tt.w, tt.h, 10, 20, 30))
			if err != nil {
				t.Fatalf("CenterCrop() error = %v", err)
			}

			b := out.Bounds()
			if b.Dx() != FrameSize || b.Dy() != FrameSize {
				t.Errorf("bounds = %dx%d, want %dx%d", b.Dx(), b.Dy(), FrameSize, FrameSize)
			}
			if b.Min != image.Pt(0, 0) {
				t.Errorf("origin = %v, want (0,0)", b.Min)
			}
		})
	}
}

func TestCenterCrop_TrimsLongerDimension(t *testing.T) {
	// Left third red, middle third green, right third blue. Cropping a
	// 300x100 source to its center square must keep only the green band.
	img := image.NewRGBA(image.Rect(0, 0, 300, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 300; x++ {
			o := img.PixOffset(x, y)
			switch {
			case x < 100:
				img.Pix[o] = 255
			case x < 200:
				img.Pix[o+1] = 255
			default:
				img.Pix[o+2] = 255
			}
			img.Pix[o+3] = 255
		}
	}

	out, err := CenterCrop(img)
	if err != nil {
		t.Fatalf("CenterCrop() error = %v", err)
	}

	// Sample well inside the frame to stay clear of resampling artifacts.
	probes := []image.Point{
		{X: 50, Y: 320},
		{X: 320, Y: 320},
		{X: 590, Y: 320},
	}
	for _, p := range probes {
		o := out.PixOffset(p.X, p.Y)
		r, g, b := out.Pix[o], out.Pix[o+1], out.Pix[o+2]
		if g < 200 || r > 55 || b > 55 {
			t.Errorf("pixel at %v = (%d, %d, %d), want green", p, r, g, b)
		}
	}
}

func TestCenterCrop_NoDimensions(t *testing.T) {
	_, err := CenterCrop(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	if err != ErrNoDimensions {
		t.Errorf("CenterCrop() error = %v, want ErrNoDimensions", err)
	}
}
