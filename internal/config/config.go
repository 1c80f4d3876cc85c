package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	// Client side.
	APIBaseURL   string
	StateDir     string
	PollInterval time.Duration
	PollAttempts int

	// Dev server side.
	HTTPAddr        string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	ShutdownTimeout time.Duration
}

// FromEnv builds Config with defaults, overridden by a .env file and the
// environment.
func FromEnv() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf(".env not loaded: %v", err)
	}
	return Config{
		APIBaseURL:      envOrDefault("API_BASE_URL", "http://localhost:8080"),
		StateDir:        envOrDefault("STATE_DIR", defaultStateDir()),
		PollInterval:    envDuration("PAYMENT_POLL_INTERVAL_SECONDS", 2*time.Second),
		PollAttempts:    envInt("PAYMENT_POLL_ATTEMPTS", 8),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		JWTSecret:       envOrDefault("JWT_SECRET", "dev-secret"),
		AccessTokenTTL:  envDuration("ACCESS_TOKEN_TTL_SECONDS", 20*time.Minute),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storefront"
	}
	return filepath.Join(home, ".storefront")
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n > 0 {
			return n
		}
	}
	return def
}
