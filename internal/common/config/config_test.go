package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	if !errors.Is(err, ErrMissingRequiredEnv) {
		t.Fatalf("expected ErrMissingRequiredEnv, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/envirosync")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Errorf("expected default TTL of 7 days, got %v", cfg.SessionTTL)
	}
	if cfg.SessionSweepInterval != time.Hour {
		t.Errorf("expected default sweep interval of 1h, got %v", cfg.SessionSweepInterval)
	}
	if cfg.Gate.CookieName != "session" {
		t.Errorf("expected default cookie name, got %q", cfg.Gate.CookieName)
	}
	if cfg.Gate.LoginPagePath != "/login" || cfg.Gate.APIPathPrefix != "/api/" {
		t.Errorf("unexpected gate defaults: %+v", cfg.Gate)
	}
	if len(cfg.Gate.PublicPaths) != 4 {
		t.Errorf("expected 4 default public paths, got %v", cfg.Gate.PublicPaths)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/envirosync")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("SESSION_TTL", "48h")
	t.Setenv("PUBLIC_PATHS", "/signin, /api/auth/login ,")
	t.Setenv("SESSION_COOKIE_NAME", "sid")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTPPort != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.HTTPPort)
	}
	if cfg.SessionTTL != 48*time.Hour {
		t.Errorf("expected 48h TTL, got %v", cfg.SessionTTL)
	}
	if cfg.Gate.CookieName != "sid" {
		t.Errorf("expected cookie name sid, got %q", cfg.Gate.CookieName)
	}

	want := []string{"/signin", "/api/auth/login"}
	if len(cfg.Gate.PublicPaths) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.Gate.PublicPaths)
	}
	for i, p := range want {
		if cfg.Gate.PublicPaths[i] != p {
			t.Errorf("public path %d: expected %q, got %q", i, p, cfg.Gate.PublicPaths[i])
		}
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/envirosync")
	t.Setenv("SESSION_TTL", "one-week")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Errorf("expected fallback TTL, got %v", cfg.SessionTTL)
	}
}
