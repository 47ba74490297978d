// Package config resolves runtime settings from an optional .env file and
// SYLLABUS_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the CLI and the HTTP server.
type Config struct {
	// DBPath is the SQLite file used by the local backend and the server.
	DBPath string
	// APIURL switches the CLI to the remote backend when non-empty.
	APIURL string
	// UserID identifies the learner for enrollment and session commands.
	UserID string
	// ListenAddr is the address `serve` binds.
	ListenAddr string

	LogMode  string
	LogLevel string

	// StrictOrdering selects last-issued-wins reconciliation in the engine.
	StrictOrdering bool
	HTTPTimeout    time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
// The database lives under ~/.syllabus when the home directory is known.
func DefaultConfig() Config {
	dbPath := "syllabus.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".syllabus", "syllabus.db")
	}
	user := os.Getenv("USER")
	if user == "" {
		user = "local"
	}
	return Config{
		DBPath:      dbPath,
		UserID:      user,
		ListenAddr:  ":8080",
		LogMode:     "dev",
		LogLevel:    "warn",
		HTTPTimeout: 10 * time.Second,
	}
}

// Load reads envFiles (".env" when none are given) into the process
// environment, then overlays SYLLABUS_* variables on the defaults. Missing
// .env files are not an error; variables already set in the environment win
// over file values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv overlays SYLLABUS_* environment variables on DefaultConfig.
// Malformed values are reported instead of silently ignored.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.DBPath = getEnv("SYLLABUS_DB", cfg.DBPath)
	cfg.APIURL = getEnv("SYLLABUS_API_URL", cfg.APIURL)
	cfg.UserID = getEnv("SYLLABUS_USER", cfg.UserID)
	cfg.ListenAddr = getEnv("SYLLABUS_LISTEN_ADDR", cfg.ListenAddr)
	cfg.LogMode = getEnv("SYLLABUS_LOG_MODE", cfg.LogMode)
	cfg.LogLevel = getEnv("SYLLABUS_LOG_LEVEL", cfg.LogLevel)

	if v := os.Getenv("SYLLABUS_STRICT_ORDERING"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("SYLLABUS_STRICT_ORDERING: %w", err)
		}
		cfg.StrictOrdering = b
	}
	if v := os.Getenv("SYLLABUS_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("SYLLABUS_HTTP_TIMEOUT: invalid duration %q", v)
		}
		cfg.HTTPTimeout = d
	}

	return cfg, nil
}

// Remote reports whether the CLI should talk to an HTTP backend.
func (c Config) Remote() bool { return c.APIURL != "" }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
