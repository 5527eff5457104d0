// Package detect provides the client for the remote inference endpoint and
// the detection types it returns.
package detect

import (
	"encoding/json"
	"errors"
	"image"
)

// ErrDetectionFailed is the uniform failure surfaced for any non-2xx
// response from the inference endpoint, regardless of body content.
var ErrDetectionFailed = errors.New("detection request failed")

// Detector submits a frame for inference and returns the detections found
// in it. Implementations must be safe for use from a single capture loop;
// they are not required to be concurrency-safe.
type Detector interface {
	Detect(frame image.Image) ([]Detection, error)
}

// Detection is one object reported by the inference endpoint. Coordinates
// are in the 640x640 processed-frame space.
type Detection struct {
	Class      string    `json:"class"`
	Confidence float64   `json:"confidence"`
	BBox       []float64 `json:"bbox"`
}

// rawDetection tolerates the alternate key spellings some endpoint
// deployments use: box for bbox, score for confidence, and flat x1..y2
// coordinate fields.
type rawDetection struct {
	Class      string    `json:"class"`
	Confidence *float64  `json:"confidence"`
	Score      *float64  `json:"score"`
	BBox       []float64 `json:"bbox"`
	Box        []float64 `json:"box"`
	X1         *float64  `json:"x1"`
	Y1         *float64  `json:"y1"`
	X2         *float64  `json:"x2"`
	Y2         *float64  `json:"y2"`
}

// UnmarshalJSON resolves alternate field spellings into the canonical form.
func (d *Detection) UnmarshalJSON(data []byte) error {
	var raw rawDetection
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.Class = raw.Class

	switch {
	case raw.Confidence != nil:
		d.Confidence = *raw.Confidence
	case raw.Score != nil:
		d.Confidence = *raw.Score
	}

	switch {
	case len(raw.BBox) > 0:
		d.BBox = raw.BBox
	case len(raw.Box) > 0:
		d.BBox = raw.Box
	case raw.X1 != nil && raw.Y1 != nil && raw.X2 != nil && raw.Y2 != nil:
		d.BBox = []float64{*raw.X1, *raw.Y1, *raw.X2, *raw.Y2}
	}

	return nil
}
