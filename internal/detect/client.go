package detect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is the JPEG quality used when encoding frames for
// upload.
const DefaultJPEGQuality = 80

// Client submits frames to a remote inference endpoint over HTTP.
//
// The underlying http.Client carries no timeout: the capture loop is
// response-gated, so a slow request simply delays the next cycle rather
// than piling up in-flight work.
type Client struct {
	endpoint string
	quality  int
	http     *http.Client
}

// NewClient creates a Client for the given endpoint URL.
// A quality of 0 or less selects DefaultJPEGQuality.
func NewClient(endpoint string, quality int) *Client {
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	return &Client{
		endpoint: endpoint,
		quality:  quality,
		http:     &http.Client{},
	}
}

// Detect encodes the frame as a JPEG, uploads it as a multipart form, and
// parses the response's detections list. A non-2xx status returns an error
// wrapping ErrDetectionFailed. A missing or malformed body is not an
// error; it yields an empty detection list.
func (c *Client) Detect(frame image.Image) ([]Detection, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fw, err := w.CreateFormFile("file", "frame.jpg")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if err := imaging.Encode(fw, frame, imaging.JPEG, imaging.JPEGQuality(c.quality)); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post frame: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrDetectionFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed struct {
		Detections []Detection `json:"detections"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		// A body the endpoint mangled still counts as a successful empty
		// response rather than a failed cycle.
		return []Detection{}, nil
	}
	if parsed.Detections == nil {
		return []Detection{}, nil
	}

	return parsed.Detections, nil
}
