package config

import (
	"os"
	"strconv"
	"time"

	"degview/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	UI        UIConfig
	Upload    UploadConfig
	Session   SessionConfig
	Demo      DemoConfig
	Profiling ProfilingConfig
}

// ServerConfig holds JSON API server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// UIConfig holds HTML UI server settings
type UIConfig struct {
	Port string
}

// UploadConfig holds upload handling limits
type UploadConfig struct {
	MaxBytes        int64
	DefaultPreview  int
	MinPreviewRows  int
	MaxPreviewRows  int
	SnifferMaxLines int
}

// SessionConfig holds session lifecycle settings
type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// DemoConfig controls the synthetic demo dataset
type DemoConfig struct {
	Enabled   bool
	Genes     int
	Contrasts int
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		UI: UIConfig{
			Port: getEnvOrDefault("UI_PORT", "8090"),
		},
		Upload: UploadConfig{
			MaxBytes:        getEnvInt64OrDefault("DEGVIEW_MAX_UPLOAD_BYTES", 64<<20),
			DefaultPreview:  getEnvIntOrDefault("DEGVIEW_PREVIEW_ROWS", 10),
			MinPreviewRows:  5,
			MaxPreviewRows:  100,
			SnifferMaxLines: getEnvIntOrDefault("DEGVIEW_SNIFF_LINES", 1000),
		},
		Session: SessionConfig{
			TTL:             getEnvDurationOrDefault("DEGVIEW_SESSION_TTL", 2*time.Hour),
			CleanupInterval: getEnvDurationOrDefault("DEGVIEW_SESSION_CLEANUP", 10*time.Minute),
		},
		Demo: DemoConfig{
			Enabled:   getEnvBoolOrDefault("DEGVIEW_DEMO", false),
			Genes:     getEnvIntOrDefault("DEGVIEW_DEMO_GENES", 500),
			Contrasts: getEnvIntOrDefault("DEGVIEW_DEMO_CONTRASTS", 3),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Upload.MaxBytes <= 0 {
		return errors.ConfigInvalid("max upload bytes must be positive")
	}
	if config.Upload.DefaultPreview < config.Upload.MinPreviewRows ||
		config.Upload.DefaultPreview > config.Upload.MaxPreviewRows {
		return errors.ConfigInvalid("default preview rows must be within the preview bounds")
	}
	if config.Session.TTL <= 0 {
		return errors.ConfigInvalid("session TTL must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
