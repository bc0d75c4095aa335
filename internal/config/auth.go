package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// AuthConfig holds the settings for token issuance and admin password
// verification. It is loaded only when AUTH_ENABLED is set.
type AuthConfig struct {
	JWTSecret         string
	ExpirationHours   int
	AdminPasswordHash string // bcrypt hash of the admin password
}

// NewAuthConfig reads JWT_SECRET, ADMIN_PASSWORD_HASH (both required)
// and JWT_EXPIRATION_HOURS (default 24) from the environment.
func NewAuthConfig() (*AuthConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	hash := os.Getenv("ADMIN_PASSWORD_HASH")
	if hash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is required but not set")
	}

	hours := 24
	if s := os.Getenv("JWT_EXPIRATION_HOURS"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
		}
		hours = n
	}
	if hours < 1 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1, got: %d", hours)
	}

	return &AuthConfig{
		JWTSecret:         secret,
		ExpirationHours:   hours,
		AdminPasswordHash: hash,
	}, nil
}

// VerifyPassword checks a presented password against the stored hash.
func (c *AuthConfig) VerifyPassword(pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.AdminPasswordHash), []byte(pw)) == nil
}

// HashPassword hashes a password with the default bcrypt cost. Used by
// the CLI to generate ADMIN_PASSWORD_HASH values.
func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), 12)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
