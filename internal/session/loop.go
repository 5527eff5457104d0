package session

import (
	"log"
	"time"

	"github.com/aimatochysia/rps-vision/internal/capture"
	"github.com/aimatochysia/rps-vision/internal/preprocess"
)

// runLoop is the live capture loop. Cycles are strictly serialized: the
// next capture starts only after the previous detection response (success
// or failure) plus the configured delay, so at most one request is ever in
// flight. The continuation channel is checked before each rescheduled
// cycle; a cycle already past the check runs to completion and applies its
// response even if the session was stopped meanwhile.
func (s *Session) runLoop(stopCh chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		default:
		}

		s.runCycle()

		select {
		case <-stopCh:
			return
		case <-time.After(s.captureDelay):
		}
	}
}

// runCycle performs one capture/preprocess/detect/apply pass. Acquisition
// failures skip the cycle; detection failures record the uniform failure
// message and leave the previous detection list in place.
func (s *Session) runCycle() {
	if !s.beginCycle() {
		return
	}
	defer s.endCycle()

	frame, err := s.camera.ReadFrame()
	if err != nil {
		log.Printf("session %s: skipping cycle: %v", s.id, err)
		return
	}

	raster, err := capture.CenterCrop(frame)
	if err != nil {
		log.Printf("session %s: skipping cycle: %v", s.id, err)
		return
	}

	s.mu.Lock()
	s.lastFrame = preprocess.CloneRGBA(raster)
	background := s.background
	s.mu.Unlock()

	// Detection waits for an explicit background capture.
	if background == nil {
		return
	}

	if err := preprocess.NewBackgroundSubtractor(background).Mask(raster); err != nil {
		log.Printf("session %s: skipping cycle: %v", s.id, err)
		return
	}

	detections, err := s.detector.Detect(raster)
	if err != nil {
		s.mu.Lock()
		s.lastErr = DetectionFailedMessage
		s.mu.Unlock()
		log.Printf("session %s: %s: %v", s.id, DetectionFailedMessage, err)
		return
	}

	s.mu.Lock()
	s.detections = detections
	s.lastErr = ""
	s.mu.Unlock()
}
