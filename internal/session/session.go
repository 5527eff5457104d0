// Package session owns the mutable state of one capture-and-detect
// lifecycle: the camera handle, the captured background, the current
// detection list, and the live loop's cancellation.
package session

import (
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aimatochysia/rps-vision/internal/capture"
	"github.com/aimatochysia/rps-vision/internal/detect"
	"github.com/aimatochysia/rps-vision/internal/overlay"
	"github.com/aimatochysia/rps-vision/internal/preprocess"
)

// Mode identifies which acquisition mode the session is in.
type Mode string

const (
	// ModeSelect is the idle mode with no acquisition running.
	ModeSelect Mode = "select"
	// ModeLive is the camera capture loop mode.
	ModeLive Mode = "live"
	// ModeImage is the single uploaded-image mode.
	ModeImage Mode = "image"
)

// DefaultCaptureDelay is the pause between a detection response and the
// next capture in live mode.
const DefaultCaptureDelay = 100 * time.Millisecond

// DetectionFailedMessage is the single user-visible message any failed
// detection cycle surfaces, regardless of the underlying cause.
const DetectionFailedMessage = "detection failed"

// Session errors.
var (
	// ErrLiveActive is returned when an image upload is processed while
	// the live loop is running.
	ErrLiveActive = errors.New("live session is active")
	// ErrNotLive is returned for live-only actions outside live mode.
	ErrNotLive = errors.New("no live session running")
	// ErrBusy is returned when a detection cycle is already in flight.
	ErrBusy = errors.New("detection cycle already in flight")
)

// Config holds the collaborators and tuning for a Session.
type Config struct {
	Camera   capture.Camera
	Detector detect.Detector
	// CaptureDelay is the inter-request pause in live mode.
	// Zero selects DefaultCaptureDelay.
	CaptureDelay time.Duration
}

// Session is the session-context object shared by the live loop, the image
// upload path, and the HTTP surface. All fields behind mu; the live loop
// runs in its own goroutine and is the only writer of lastFrame during
// live mode.
type Session struct {
	id           string
	camera       capture.Camera
	detector     detect.Detector
	captureDelay time.Duration

	mu         sync.RWMutex
	mode       Mode
	background *image.RGBA
	lastFrame  *image.RGBA
	detections []detect.Detection
	lastErr    string
	inFlight   bool
	stopCh     chan struct{}
}

// New creates a Session in select mode.
func New(config Config) *Session {
	delay := config.CaptureDelay
	if delay <= 0 {
		delay = DefaultCaptureDelay
	}
	return &Session{
		id:           uuid.NewString(),
		camera:       config.Camera,
		detector:     config.Detector,
		captureDelay: delay,
		mode:         ModeSelect,
	}
}

// ID returns the session's identifier.
func (s *Session) ID() string {
	return s.id
}

// Mode returns the current acquisition mode.
func (s *Session) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetDetector swaps the detector implementation. Intended for tests and
// for reconfiguring the endpoint without rebuilding the session.
func (s *Session) SetDetector(d detect.Detector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detector = d
}

// StartLive enters live mode: the camera is opened, prior background and
// detection state is cleared, and the capture loop starts. Starting an
// already-live session is a no-op.
func (s *Session) StartLive() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh != nil {
		return nil
	}

	if err := s.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	s.mode = ModeLive
	s.background = nil
	s.lastFrame = nil
	s.detections = nil
	s.lastErr = ""

	s.stopCh = make(chan struct{})
	go s.runLoop(s.stopCh)

	log.Printf("session %s: live capture started", s.id)
	return nil
}

// StopLive leaves live mode: the loop's continuation channel is closed,
// the camera is released, and the background and detections are cleared.
// A detection response that is still in flight is applied to state when it
// arrives, but no further cycle is scheduled.
func (s *Session) StopLive() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh == nil {
		return
	}

	close(s.stopCh)
	s.stopCh = nil

	if err := s.camera.Close(); err != nil {
		log.Printf("session %s: error closing camera: %v", s.id, err)
	}

	s.mode = ModeSelect
	s.background = nil
	s.lastFrame = nil
	s.detections = nil
	s.lastErr = ""

	log.Printf("session %s: live capture stopped", s.id)
}

// CaptureBackground snapshots the current camera frame as the reference
// background. Until a background exists, live cycles acquire frames but
// skip preprocessing and detection.
func (s *Session) CaptureBackground() error {
	s.mu.RLock()
	live := s.mode == ModeLive
	s.mu.RUnlock()
	if !live {
		return ErrNotLive
	}

	frame, err := s.camera.ReadFrame()
	if err != nil {
		return fmt.Errorf("read frame: %w", err)
	}
	raster, err := capture.CenterCrop(frame)
	if err != nil {
		return fmt.Errorf("crop frame: %w", err)
	}

	s.mu.Lock()
	s.background = raster
	s.mu.Unlock()

	log.Printf("session %s: background captured", s.id)
	return nil
}

// HasBackground reports whether a background snapshot has been captured.
func (s *Session) HasBackground() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background != nil
}

// Detections returns the detection list from the most recent successful
// response.
func (s *Session) Detections() []detect.Detection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detections
}

// LastError returns the user-visible message from the most recent failed
// cycle, or an empty string.
func (s *Session) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// State is a point-in-time snapshot of the session for the HTTP surface.
type State struct {
	SessionID     string             `json:"session_id"`
	Mode          Mode               `json:"mode"`
	HasBackground bool               `json:"has_background"`
	Detections    []detect.Detection `json:"detections"`
	Rects         []overlay.Rect     `json:"rects"`
	Error         string             `json:"error,omitempty"`
}

// Snapshot returns the current session state together with the projected
// overlay rectangles.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	detections := s.detections
	if detections == nil {
		detections = []detect.Detection{}
	}

	return State{
		SessionID:     s.id,
		Mode:          s.mode,
		HasBackground: s.background != nil,
		Detections:    detections,
		Rects:         overlay.Project(detections),
		Error:         s.lastErr,
	}
}

// AnnotatedFrame renders the most recent raw frame with the current
// detections drawn on it, JPEG-encoded. Returns nil when no frame has been
// acquired yet.
func (s *Session) AnnotatedFrame() ([]byte, error) {
	s.mu.RLock()
	frame := s.lastFrame
	detections := s.detections
	s.mu.RUnlock()

	if frame == nil {
		return nil, nil
	}
	return overlay.Annotate(frame, detections)
}

// ImageResult is the outcome of a single uploaded-image detection.
type ImageResult struct {
	Detections []detect.Detection `json:"detections"`
	Rects      []overlay.Rect     `json:"rects"`
}

// ProcessImage runs the single-shot image path: center-crop, edge+skin
// mask (unless raw is set), detection, overlay projection. A new upload
// clears the previous results before the request; prior detections are
// only replaced on success. Returns ErrLiveActive while the live loop
// runs and ErrBusy if another cycle holds the in-flight guard.
func (s *Session) ProcessImage(img image.Image, raw bool) (*ImageResult, error) {
	s.mu.Lock()
	if s.mode == ModeLive {
		s.mu.Unlock()
		return nil, ErrLiveActive
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.inFlight = true
	s.mode = ModeImage
	// New selection discards the previous upload's results.
	s.detections = nil
	s.lastErr = ""
	s.mu.Unlock()
	defer s.endCycle()

	raster, err := capture.CenterCrop(img)
	if err != nil {
		return nil, err
	}

	display := preprocess.CloneRGBA(raster)

	if !raw {
		if err := preprocess.NewEdgeSkinMasker().Mask(raster); err != nil {
			return nil, err
		}
	}

	detections, err := s.detector.Detect(raster)
	if err != nil {
		s.mu.Lock()
		s.lastErr = DetectionFailedMessage
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", DetectionFailedMessage, err)
	}

	s.mu.Lock()
	s.lastFrame = display
	s.detections = detections
	s.lastErr = ""
	s.mu.Unlock()

	return &ImageResult{
		Detections: detections,
		Rects:      overlay.Project(detections),
	}, nil
}

// Clear returns the session to select mode and discards upload results.
// It has no effect while the live loop runs; use StopLive for that.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		return
	}
	s.mode = ModeSelect
	s.lastFrame = nil
	s.detections = nil
	s.lastErr = ""
}

// beginCycle takes the in-flight guard. It returns false when a cycle is
// already running, including when a second overlapping trigger fires.
func (s *Session) beginCycle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

func (s *Session) endCycle() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}
