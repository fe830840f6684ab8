// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port         string
	FrontendURL  string
	TelemetryDir string
	Cohere       CohereConfig
	Transcript   TranscriptConfig
}

// CohereConfig configures the external classify/generate capability. An
// empty APIKey is valid and switches the process to fallback-only
// responses; it must never crash startup.
type CohereConfig struct {
	APIKey         string
	BaseURL        string
	ClassifyModel  string
	GenerateModel  string
	RequestTimeout time.Duration
}

// TranscriptConfig controls SQLite transcript archiving.
type TranscriptConfig struct {
	Enabled   bool
	Path      string
	QueueSize int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	timeoutSeconds := getEnvInt("COHERE_TIMEOUT_SECONDS", 10)
	if timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}
	queueSize := getEnvInt("TRANSCRIPT_QUEUE_SIZE", 1000)
	if queueSize <= 0 {
		queueSize = 1000
	}

	cfg := &Config{
		Port:         getEnv("PORT", "5000"),
		FrontendURL:  getEnv("FRONTEND_URL", ""),
		TelemetryDir: getEnv("TELEMETRY_DIR", "./data/telemetry"),
		Cohere: CohereConfig{
			APIKey:         getEnv("COHERE_API_KEY", ""),
			BaseURL:        getEnv("COHERE_BASE_URL", ""),
			ClassifyModel:  getEnv("COHERE_CLASSIFY_MODEL", ""),
			GenerateModel:  getEnv("COHERE_GENERATE_MODEL", ""),
			RequestTimeout: time.Duration(timeoutSeconds) * time.Second,
		},
		Transcript: TranscriptConfig{
			Enabled:   getEnvBool("TRANSCRIPT_ENABLED", true),
			Path:      getEnv("TRANSCRIPT_DB_PATH", "./data/transcript.db"),
			QueueSize: queueSize,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.TelemetryDir == "" {
		return fmt.Errorf("TELEMETRY_DIR cannot be empty")
	}
	if c.Transcript.Enabled && c.Transcript.Path == "" {
		return fmt.Errorf("TRANSCRIPT_DB_PATH cannot be empty when archiving is enabled")
	}
	return nil
}

// AIEnabled reports whether the external capability is configured.
func (c *Config) AIEnabled() bool {
	return c.Cohere.APIKey != ""
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
