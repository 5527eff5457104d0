// Package config loads application configuration from the environment,
// with optional .env file support.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for rps-vision.
type Config struct {
	Addr           string // HTTP listen address
	DetectURL      string // remote inference endpoint
	CameraID       int    // camera device index
	CaptureDelayMs int    // pause between detection response and next capture
	JPEGQuality    int    // quality of the JPEG sent to the endpoint
	DBPath         string // settings database path, empty for the default
	StaticDir      string // UI directory, empty to auto-discover
	Tray           bool   // run the system tray alongside the server
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Addr:           getEnv("ADDR", ":8080"),
		DetectURL:      getEnv("DETECT_URL", "http://localhost:5000/detect"),
		CameraID:       getEnvAsInt("CAMERA_ID", 0),
		CaptureDelayMs: getEnvAsInt("CAPTURE_DELAY_MS", 100),
		JPEGQuality:    getEnvAsInt("JPEG_QUALITY", 80),
		DBPath:         getEnv("DB_PATH", ""),
		StaticDir:      getEnv("STATIC_DIR", ""),
		Tray:           getEnvAsBool("TRAY", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
