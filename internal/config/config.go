package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth. Empty disables the API key check.
	APIKey string

	// Review output
	OutDir     string
	SessionID  string
	ReviewMode string

	// Rendering
	ThemeFile       string
	MaxTextureWidth int

	// Upload limits
	MaxUploadBytes int64

	// Document state
	DocumentTTL     time.Duration
	CleanupInterval time.Duration

	LogLevel string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("MIRROR_API_KEY"),

		OutDir:     envOr("MIRROR_OUT_DIR", ".ddd"),
		SessionID:  os.Getenv("HEGEL_SESSION_ID"),
		ReviewMode: envOr("MIRROR_REVIEW_MODE", "immediate"),

		ThemeFile:       os.Getenv("MIRROR_THEME_FILE"),
		MaxTextureWidth: envInt("MAX_TEXTURE_WIDTH", 2048),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 5242880), // 5MB

		DocumentTTL:     envDuration("DOCUMENT_TTL", 1*time.Hour),
		CleanupInterval: envDuration("CLEANUP_INTERVAL", 5*time.Minute),

		LogLevel: envOr("LOG_LEVEL", "info"),
	}

	if cfg.MaxTextureWidth < 0 {
		cfg.MaxTextureWidth = 0
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 5242880
	}
	if cfg.DocumentTTL <= 0 {
		cfg.DocumentTTL = 1 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}

	return cfg
}

func (c Config) Validate() error {
	if c.OutDir == "" {
		return fmt.Errorf("MIRROR_OUT_DIR must not be empty")
	}
	switch strings.ToLower(c.ReviewMode) {
	case "immediate", "batched":
	default:
		return fmt.Errorf("MIRROR_REVIEW_MODE must be immediate or batched, got %q", c.ReviewMode)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a LOG_LEVEL value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
