// Package config provides runtime configuration values for the service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server, database, and
// identity stack.
type Config struct {
	Port            string
	DatabasePath    string
	JWTSecret       string
	BcryptCost      int
	CookieSecure    bool
	ShutdownTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults and validates
// the values that have no safe default.
func Load() (Config, error) {
	c := Config{
		Port:         getenv("PORT", "8080"),
		DatabasePath: getenv("DATABASE_PATH", "shopstore.db"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		BcryptCost:   atoienv("BCRYPT_COST", 12),
		// Default to secure cookies; disable only for local development.
		CookieSecure:    os.Getenv("COOKIE_SECURE") != "false",
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 5),
	}

	if c.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET environment variable is required")
	}
	if len(c.JWTSecret) < 32 {
		return Config{}, errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
	}

	return c, nil
}
