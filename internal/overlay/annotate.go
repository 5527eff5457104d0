package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/aimatochysia/rps-vision/internal/detect"
)

var boxColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}

// Annotate draws a labeled rectangle for each detection onto a copy of the
// frame and returns the JPEG-encoded result. Detections with fewer than
// four box coordinates are skipped.
func Annotate(frame image.Image, detections []detect.Detection) ([]byte, error) {
	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	defer mat.Close()

	for _, d := range detections {
		if len(d.BBox) < 4 {
			continue
		}
		x1, y1 := int(d.BBox[0]), int(d.BBox[1])
		x2, y2 := int(d.BBox[2]), int(d.BBox[3])

		if err := gocv.Rectangle(&mat, image.Rect(x1, y1, x2, y2), boxColor, 2); err != nil {
			return nil, fmt.Errorf("draw rectangle: %w", err)
		}

		label := fmt.Sprintf("%s (%.2f)", d.Class, d.Confidence)
		pt := image.Pt(x1, y1-5)
		if err := gocv.PutText(&mat, label, pt, gocv.FontHersheySimplex, 0.5, boxColor, 1); err != nil {
			return nil, fmt.Errorf("draw label: %w", err)
		}
	}

	buf, err := gocv.IMEncode(".jpg", mat)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	encoded := make([]byte, buf.Len())
	copy(encoded, buf.GetBytes())
	return encoded, nil
}
