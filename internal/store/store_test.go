package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestSettings_SetAndGet(t *testing.T) {
	s := newTestStore(t)

	if err := s.Settings().Set(SettingDetectURL, "http://inference.local/detect"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := s.Settings().Get(SettingDetectURL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "http://inference.local/detect" {
		t.Errorf("Get() = %q", got)
	}
}

func TestSettings_Overwrite(t *testing.T) {
	s := newTestStore(t)

	if err := s.Settings().Set(SettingJPEGQuality, "80"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Settings().Set(SettingJPEGQuality, "90"); err != nil {
		t.Fatalf("second Set() error = %v", err)
	}

	got, err := s.Settings().Get(SettingJPEGQuality)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "90" {
		t.Errorf("Get() = %q, want %q", got, "90")
	}
}

func TestSettings_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Settings().Get("nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSettings_All(t *testing.T) {
	s := newTestStore(t)

	values := map[string]string{
		SettingDetectURL:      "http://localhost:5000/detect",
		SettingCaptureDelayMs: "100",
		SettingCameraID:       "1",
	}
	for k, v := range values {
		if err := s.Settings().Set(k, v); err != nil {
			t.Fatalf("Set(%q) error = %v", k, err)
		}
	}

	all, err := s.Settings().All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != len(values) {
		t.Fatalf("len(All()) = %d, want %d", len(all), len(values))
	}
	for k, v := range values {
		if all[k] != v {
			t.Errorf("All()[%q] = %q, want %q", k, all[k], v)
		}
	}
}

func TestSettings_Delete(t *testing.T) {
	s := newTestStore(t)

	if err := s.Settings().Set(SettingCameraID, "2"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Settings().Delete(SettingCameraID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := s.Settings().Get(SettingCameraID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}

	if err := s.Settings().Delete(SettingCameraID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
