package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromEnvDefaults(t *testing.T) {
	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", cfg.ModelName)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 60*time.Second, cfg.StageTimeout)
	assert.Equal(t, 15*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 50, cfg.MaxJobsPerQuery)
	assert.False(t, cfg.CachePartialResults)
	assert.False(t, cfg.AuthEnabled)
}

func TestNewFromEnvOverrides(t *testing.T) {
	t.Setenv("STAGE_TIMEOUT", "90s")
	t.Setenv("MAX_JOBS_PER_QUERY", "10")
	t.Setenv("CACHE_PARTIAL_RESULTS", "true")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.StageTimeout)
	assert.Equal(t, 10, cfg.MaxJobsPerQuery)
	assert.True(t, cfg.CachePartialResults)
	assert.Equal(t, "gemini-2.5-pro", cfg.ModelName)
}

func TestNewFromEnvInvalidDuration(t *testing.T) {
	t.Setenv("STAGE_TIMEOUT", "not-a-duration")

	_, err := NewFromEnv()
	assert.Error(t, err)
}

func TestNewFromEnvInvalidMaxJobs(t *testing.T) {
	t.Setenv("MAX_JOBS_PER_QUERY", "0")

	_, err := NewFromEnv()
	assert.Error(t, err)
}

func TestValidateAuthRequiresSecrets(t *testing.T) {
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	_, err := NewFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "secret")
	_, err = NewFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD_HASH")

	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$12$fakehash")
	cfg, err := NewFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.AuthEnabled)
}
