// Package overlay projects detection bounding boxes into display
// coordinates and renders annotated frames.
package overlay

import (
	"github.com/aimatochysia/rps-vision/internal/detect"
)

// FrameSize is the side of the square processed-frame space all bounding
// box coordinates are normalized against.
const FrameSize = 640

// Rect is a percentage-based rectangle positioned over the display
// viewport. Values are percentages of the viewport edge lengths.
type Rect struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// Project maps each detection's bounding box into a percentage rectangle
// against the processed-frame space. Detections with fewer than four box
// coordinates are silently skipped. The detection list is not mutated.
func Project(detections []detect.Detection) []Rect {
	rects := make([]Rect, 0, len(detections))
	for _, d := range detections {
		if len(d.BBox) < 4 {
			continue
		}
		x1, y1, x2, y2 := d.BBox[0], d.BBox[1], d.BBox[2], d.BBox[3]
		rects = append(rects, Rect{
			Class:      d.Class,
			Confidence: d.Confidence,
			Left:       x1 / FrameSize * 100,
			Top:        y1 / FrameSize * 100,
			Width:      (x2 - x1) / FrameSize * 100,
			Height:     (y2 - y1) / FrameSize * 100,
		})
	}
	return rects
}
