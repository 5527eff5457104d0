package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/aimatochysia/rps-vision/internal/capture"
	"github.com/aimatochysia/rps-vision/internal/config"
	"github.com/aimatochysia/rps-vision/internal/detect"
	"github.com/aimatochysia/rps-vision/internal/server"
	"github.com/aimatochysia/rps-vision/internal/session"
	"github.com/aimatochysia/rps-vision/internal/store"
	"github.com/aimatochysia/rps-vision/internal/tray"
)

func main() {
	fmt.Println("RPS Vision - Gesture Detection")

	cfg := config.Load()

	// Initialize the settings store
	dbPath := cfg.DBPath
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}

		dbDir := filepath.Join(homeDir, ".rps-vision")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}

		dbPath = filepath.Join(dbDir, "rps-vision.db")
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	applySettings(cfg, st)

	// Build the capture/detect session
	camera := capture.NewCamera(cfg.CameraID)
	client := detect.NewClient(cfg.DetectURL, cfg.JPEGQuality)
	sess := session.New(session.Config{
		Camera:       camera,
		Detector:     client,
		CaptureDelay: time.Duration(cfg.CaptureDelayMs) * time.Millisecond,
	})
	defer sess.StopLive()

	// Find web directory
	webDir := cfg.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Session:   sess,
	})

	fmt.Printf("Detection endpoint: %s\n", cfg.DetectURL)
	fmt.Printf("Starting server on %s\n", cfg.Addr)

	if !cfg.Tray {
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	go func() {
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	tr := tray.New()
	tr.OnToggle(func(live bool) {
		if live {
			if err := sess.StartLive(); err != nil {
				log.Printf("Failed to start live capture: %v", err)
			}
		} else {
			sess.StopLive()
		}
	})
	tr.OnOpenUI(func() {
		openBrowser("http://localhost" + cfg.Addr)
	})
	tr.OnQuit(func() {
		sess.StopLive()
	})
	tr.Run()
}

// applySettings overlays persisted settings onto the environment-derived
// configuration. Persisted values win over defaults; the environment wins
// only when a setting was never saved.
func applySettings(cfg *config.Config, st *store.Store) {
	settings := st.Settings()

	if v, err := settings.Get(store.SettingDetectURL); err == nil && v != "" {
		cfg.DetectURL = v
	}
	if v, err := settings.Get(store.SettingCaptureDelayMs); err == nil {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.CaptureDelayMs = ms
		}
	}
	if v, err := settings.Get(store.SettingJPEGQuality); err == nil {
		if q, err := strconv.Atoi(v); err == nil && q > 0 {
			cfg.JPEGQuality = q
		}
	}
	if v, err := settings.Get(store.SettingCameraID); err == nil {
		if id, err := strconv.Atoi(v); err == nil {
			cfg.CameraID = id
		}
	}
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.rps-vision/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".rps-vision", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
