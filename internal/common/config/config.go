package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

var ErrMissingRequiredEnv = errors.New("missing required environment variable")

// GateConfig carries the path classification the request gate runs on.
// These are deployment configuration, not code: operators can move the login
// page or widen the public set without touching the gate.
type GateConfig struct {
	PublicPaths   []string
	APIPathPrefix string
	LoginPagePath string
	RootPath      string
	CookieName    string
}

type Config struct {
	HTTPPort       string
	DatabaseURL    string
	RequestTimeout time.Duration

	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	Gate GateConfig
}

func Load() (Config, error) {
	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		DatabaseURL:          databaseURL,
		RequestTimeout:       getDurationEnv("REQUEST_TIMEOUT", 5*time.Second),
		SessionTTL:           getDurationEnv("SESSION_TTL", 7*24*time.Hour),
		SessionSweepInterval: getDurationEnv("SESSION_SWEEP_INTERVAL", time.Hour),
		Gate: GateConfig{
			PublicPaths:   getListEnv("PUBLIC_PATHS", []string{"/login", "/api/auth/login", "/health", "/metrics"}),
			APIPathPrefix: getEnv("API_PATH_PREFIX", "/api/"),
			LoginPagePath: getEnv("LOGIN_PAGE_PATH", "/login"),
			RootPath:      getEnv("ROOT_PATH", "/"),
			CookieName:    getEnv("SESSION_COOKIE_NAME", "session"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getListEnv(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
