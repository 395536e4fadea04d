package config

import (
	"os"
	"time"
)

// Config captures everything the server needs from the environment. main
// stays lean and every knob has a development default.
type Config struct {
	Addr string
	Env  string

	// SessionSigningKey signs session credentials minted by the identity
	// provider when it runs in self-hosted mode.
	SessionSigningKey string

	// IdentityTimeout bounds every verify/mint call to the identity
	// provider. A timed-out call counts as a failed verification.
	IdentityTimeout time.Duration

	RedisURL    string
	DatabaseURL string

	VisionAPIKey  string
	VisionBaseURL string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:              getenv("DIETCAL_ADDR", ":8080"),
		Env:               getenv("DIETCAL_ENV", "development"),
		SessionSigningKey: getenv("SESSION_SIGNING_KEY", "dev-secret-key-change-in-production"),
		IdentityTimeout:   5 * time.Second,
		RedisURL:          os.Getenv("REDIS_URL"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		VisionAPIKey:      os.Getenv("VISION_API_KEY"),
		VisionBaseURL:     getenv("VISION_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
	}

	if v := os.Getenv("IDENTITY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.IdentityTimeout = d
		}
	}

	return cfg
}

// Production reports whether the server runs with production hardening
// (Secure cookies, among other things).
func (c Config) Production() bool {
	return c.Env == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
