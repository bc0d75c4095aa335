package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthConfigRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "x")

	_, err := NewAuthConfig()
	assert.Error(t, err)
}

func TestNewAuthConfigRequiresHash(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	_, err := NewAuthConfig()
	assert.Error(t, err)
}

func TestNewAuthConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_PASSWORD_HASH", "hash")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	cfg, err := NewAuthConfig()
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.ExpirationHours)
}

func TestNewAuthConfigInvalidExpiration(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_PASSWORD_HASH", "hash")

	t.Setenv("JWT_EXPIRATION_HOURS", "abc")
	_, err := NewAuthConfig()
	assert.Error(t, err)

	t.Setenv("JWT_EXPIRATION_HOURS", "0")
	_, err = NewAuthConfig()
	assert.Error(t, err)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	cfg := &AuthConfig{AdminPasswordHash: hash}
	assert.True(t, cfg.VerifyPassword("hunter2"))
	assert.False(t, cfg.VerifyPassword("hunter3"))
}
