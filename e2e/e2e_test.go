package e2e

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aimatochysia/rps-vision/internal/capture"
	"github.com/aimatochysia/rps-vision/internal/detect"
	"github.com/aimatochysia/rps-vision/internal/server"
	"github.com/aimatochysia/rps-vision/internal/session"
	"github.com/aimatochysia/rps-vision/internal/store"
	"github.com/aimatochysia/rps-vision/testdata"
)

// newInferenceEndpoint fakes the remote detection service: it accepts the
// multipart JPEG upload and answers with a fixed detection list.
func newInferenceEndpoint(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("endpoint: parse multipart: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("endpoint: missing file: %v", err)
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		file.Close()

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"detections":[{"class":"rock","confidence":0.95,"bbox":[100,100,300,300]}]}`))
	}))
}

func TestE2E_LiveDetectionFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	endpoint := newInferenceEndpoint(t)
	defer endpoint.Close()

	st, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer st.Close()

	frames := []image.Image{
		testdata.UniformFrame(640, 480, color.RGBA{R: 80, G: 80, B: 80, A: 255}),
	}
	sess := session.New(session.Config{
		Camera:       capture.NewMockCamera(frames, true),
		Detector:     detect.NewClient(endpoint.URL, 80),
		CaptureDelay: 10 * time.Millisecond,
	})
	defer sess.StopLive()

	srv := server.New(server.Config{Store: st, Session: sess})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("StartLive", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/live/start", "application/json", nil)
		if err != nil {
			t.Fatalf("start error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("CaptureBackground", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/live/background", "application/json", nil)
		if err != nil {
			t.Fatalf("background error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("DetectionsArrive", func(t *testing.T) {
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			resp, err := client.Get(ts.URL + "/api/live/state")
			if err != nil {
				t.Fatalf("state error = %v", err)
			}

			var state session.State
			json.NewDecoder(resp.Body).Decode(&state)
			resp.Body.Close()

			if len(state.Detections) == 1 {
				if state.Rects[0].Left != 15.625 || state.Rects[0].Height != 31.25 {
					t.Errorf("rects = %+v", state.Rects)
				}
				return
			}
			time.Sleep(20 * time.Millisecond)
		}
		t.Fatal("detections never arrived in live state")
	})

	t.Run("StopLive", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/live/stop", "application/json", nil)
		if err != nil {
			t.Fatalf("stop error = %v", err)
		}
		defer resp.Body.Close()

		var state session.State
		json.NewDecoder(resp.Body).Decode(&state)
		if state.Mode != session.ModeSelect {
			t.Errorf("mode = %s, want %s", state.Mode, session.ModeSelect)
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health error = %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after live session")
		}
		resp.Body.Close()
	})
}

func TestE2E_ImageUploadFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	endpoint := newInferenceEndpoint(t)
	defer endpoint.Close()

	sess := session.New(session.Config{
		Camera:   capture.NewMockCamera(nil, false),
		Detector: detect.NewClient(endpoint.URL, 80),
	})

	srv := server.New(server.Config{Session: sess})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	jpegData, err := testdata.EncodeJPEG(
		testdata.UniformFrame(800, 600, color.RGBA{R: 200, G: 120, B: 90, A: 255}))
	if err != nil {
		t.Fatalf("EncodeJPEG() error = %v", err)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", "hand.jpg")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	fw.Write(jpegData)
	w.Close()

	resp, err := ts.Client().Post(ts.URL+"/api/detect", w.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("detect error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var result session.ImageResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(result.Detections) != 1 || result.Detections[0].Class != "rock" {
		t.Errorf("detections = %+v", result.Detections)
	}
	if len(result.Rects) != 1 || result.Rects[0].Width != 31.25 {
		t.Errorf("rects = %+v", result.Rects)
	}
}
