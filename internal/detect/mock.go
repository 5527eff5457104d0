package detect

import (
	"image"
	"sync"
	"time"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results and response latency.
type MockDetector struct {
	mu         sync.Mutex
	detections []Detection
	err        error
	delay      time.Duration
	calls      int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetDetections sets the detections that will be returned by Detect.
func (m *MockDetector) SetDetections(detections []Detection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detections = detections
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDelay makes Detect block for the given duration before returning,
// simulating endpoint round-trip latency.
func (m *MockDetector) SetDelay(delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = delay
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured detections or error after the
// configured delay.
func (m *MockDetector) Detect(frame image.Image) ([]Detection, error) {
	m.mu.Lock()
	m.calls++
	detections := m.detections
	err := m.err
	delay := m.delay
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	return detections, nil
}
