// Package config provides configuration loading and validation for the
// analysis service and CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime settings. Values come from environment
// variables; NewFromEnv applies defaults for everything optional.
type Config struct {
	// LLM
	GeminiAPIKey string // GEMINI_API_KEY (required for analysis runs)
	ModelName    string // GEMINI_MODEL, default gemini-2.0-flash
	StageTimeout time.Duration

	// Cache
	DatabaseURL         string // DATABASE_URL; empty selects the in-memory cache
	CachePartialResults bool   // CACHE_PARTIAL_RESULTS, default false

	// Job providers
	AdzunaAppID     string // ADZUNA_APP_ID
	AdzunaAppKey    string // ADZUNA_APP_KEY
	JSearchAPIKey   string // JSEARCH_API_KEY
	JoobleAPIKey    string // JOOBLE_API_KEY
	BoardBaseURL    string // JOB_BOARD_URL; optional HTML board to scrape
	ProviderTimeout time.Duration
	MaxJobsPerQuery int

	// Server
	ListenAddr  string // LISTEN_ADDR, default :8080
	AuthEnabled bool   // AUTH_ENABLED; requires JWT_SECRET and ADMIN_PASSWORD_HASH

	// Logging
	LogLevel  string // LOG_LEVEL, default info
	LogPretty bool   // LOG_PRETTY
}

// NewFromEnv builds a Config from the environment.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		ModelName:           envOr("GEMINI_MODEL", "gemini-2.0-flash"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		AdzunaAppID:         os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey:        os.Getenv("ADZUNA_APP_KEY"),
		JSearchAPIKey:       os.Getenv("JSEARCH_API_KEY"),
		JoobleAPIKey:        os.Getenv("JOOBLE_API_KEY"),
		BoardBaseURL:        os.Getenv("JOB_BOARD_URL"),
		ListenAddr:          envOr("LISTEN_ADDR", ":8080"),
		LogLevel:            envOr("LOG_LEVEL", "info"),
		CachePartialResults: envBool("CACHE_PARTIAL_RESULTS"),
		AuthEnabled:         envBool("AUTH_ENABLED"),
		LogPretty:           envBool("LOG_PRETTY"),
	}

	var err error
	if cfg.StageTimeout, err = envDuration("STAGE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.ProviderTimeout, err = envDuration("PROVIDER_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.MaxJobsPerQuery, err = envInt("MAX_JOBS_PER_QUERY", 50); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks numeric ranges and cross-field requirements.
func (c *Config) Validate() error {
	if c.StageTimeout <= 0 {
		return fmt.Errorf("config error: STAGE_TIMEOUT must be positive")
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("config error: PROVIDER_TIMEOUT must be positive")
	}
	if c.MaxJobsPerQuery < 1 {
		return fmt.Errorf("config error: MAX_JOBS_PER_QUERY must be at least 1")
	}
	if c.AuthEnabled {
		if os.Getenv("JWT_SECRET") == "" {
			return fmt.Errorf("config error: AUTH_ENABLED requires JWT_SECRET")
		}
		if os.Getenv("ADMIN_PASSWORD_HASH") == "" {
			return fmt.Errorf("config error: AUTH_ENABLED requires ADMIN_PASSWORD_HASH")
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func envInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return d, nil
}
