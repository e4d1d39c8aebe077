package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "MIRROR_API_KEY", "MIRROR_OUT_DIR", "MIRROR_REVIEW_MODE", "DOCUMENT_TTL", "MAX_UPLOAD_BYTES", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.OutDir != ".ddd" {
		t.Errorf("expected out dir .ddd, got %q", cfg.OutDir)
	}
	if cfg.ReviewMode != "immediate" {
		t.Errorf("expected immediate mode, got %q", cfg.ReviewMode)
	}
	if cfg.DocumentTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", cfg.DocumentTTL)
	}
	if cfg.MaxUploadBytes != 5242880 {
		t.Errorf("expected 5MB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MIRROR_OUT_DIR", "/tmp/reviews")
	t.Setenv("HEGEL_SESSION_ID", "sess-1")
	t.Setenv("DOCUMENT_TTL", "10m")
	t.Setenv("MAX_UPLOAD_BYTES", "-4")

	cfg := Load()
	if cfg.Port != "9000" || cfg.OutDir != "/tmp/reviews" || cfg.SessionID != "sess-1" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.DocumentTTL != 10*time.Minute {
		t.Errorf("expected 10m TTL, got %v", cfg.DocumentTTL)
	}
	if cfg.MaxUploadBytes != 5242880 {
		t.Errorf("expected negative limit to fall back to default, got %d", cfg.MaxUploadBytes)
	}
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("DOCUMENT_TTL", "soon")
	if cfg := Load(); cfg.DocumentTTL != time.Hour {
		t.Errorf("expected fallback 1h, got %v", cfg.DocumentTTL)
	}
}

func TestValidate(t *testing.T) {
	base := Config{OutDir: ".ddd", ReviewMode: "batched", LogLevel: "debug"}
	if err := base.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := base
	bad.ReviewMode = "later"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown review mode")
	}

	bad = base
	bad.OutDir = ""
	if err := bad.Validate(); err == nil {
		t.Error("expected error for empty out dir")
	}

	bad = base
	bad.LogLevel = "loud"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warn")
	if err != nil || lvl != slog.LevelWarn {
		t.Errorf("expected warn, got %v err=%v", lvl, err)
	}
}
