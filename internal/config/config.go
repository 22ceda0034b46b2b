package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Environment base URLs for the ERP backend
var environments = map[string]string{
	"prod": "https://erp.prohance.app",
	"qa":   "https://erp-qa.prohance.app",
}

// Config holds all application configuration
type Config struct {
	Environment string
	BaseURL     string
	DataDir     string
	LogLevel    string

	Tracking TrackingConfig
	ERP      ERPConfig
}

// TrackingConfig holds session tracking tunables
type TrackingConfig struct {
	IdleTimeout        time.Duration // prolonged idle is reclassified as break
	ActivityWindow     int           // rolling samples for activity percent
	ActivityInterval   time.Duration // activity sampling cadence
	MonitorInterval    time.Duration // suspend monitor tick
	GapThreshold       time.Duration // extra elapsed time treated as sleep
	CaptureInterval    time.Duration // screenshot/webcam cadence
	WindowPollInterval time.Duration // active window polling cadence
	SyncInterval       time.Duration // attendance re-fetch cadence
}

// ERPConfig holds remote API client configuration
type ERPConfig struct {
	RequestTimeout time.Duration
	MaxBrowserTabs int
}

// Load loads configuration from environment variables with sane defaults
func Load() Config {
	env := getEnv("TRACKER_ENV", "prod")
	baseURL := getEnv("TRACKER_BASE_URL", environments[env])
	if baseURL == "" {
		baseURL = environments["prod"]
	}

	dataDir := getEnv("TRACKER_DATA_DIR", "")
	if dataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataDir = filepath.Join(home, ".prohance")
		} else {
			dataDir = ".prohance"
		}
	}

	return Config{
		Environment: env,
		BaseURL:     baseURL,
		DataDir:     dataDir,
		LogLevel:    getEnv("TRACKER_LOG_LEVEL", "info"),
		Tracking: TrackingConfig{
			IdleTimeout:        getEnvDuration("TRACKER_IDLE_TIMEOUT", 300*time.Second),
			ActivityWindow:     getEnvInt("TRACKER_ACTIVITY_WINDOW", 60),
			ActivityInterval:   getEnvDuration("TRACKER_ACTIVITY_INTERVAL", 2*time.Second),
			MonitorInterval:    getEnvDuration("TRACKER_MONITOR_INTERVAL", 10*time.Second),
			GapThreshold:       getEnvDuration("TRACKER_GAP_THRESHOLD", 60*time.Second),
			CaptureInterval:    getEnvDuration("TRACKER_CAPTURE_INTERVAL", 5*time.Minute),
			WindowPollInterval: getEnvDuration("TRACKER_WINDOW_POLL_INTERVAL", 10*time.Second),
			SyncInterval:       getEnvDuration("TRACKER_SYNC_INTERVAL", 60*time.Second),
		},
		ERP: ERPConfig{
			RequestTimeout: getEnvDuration("TRACKER_REQUEST_TIMEOUT", 30*time.Second),
			MaxBrowserTabs: getEnvInt("TRACKER_MAX_BROWSER_TABS", 20),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
