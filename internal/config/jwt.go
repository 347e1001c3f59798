package config

import (
	"fmt"
	"os"
	"strconv"
)

// JWTConfig holds the signing secret and token lifetime used to validate
// API bearer tokens.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig builds a JWT configuration from the environment. JWT_SECRET
// is required; JWT_EXPIRATION_HOURS defaults to 24.
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	expirationHours := 24
	if v := os.Getenv("JWT_EXPIRATION_HOURS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
		}
		expirationHours = parsed
	}

	if expirationHours < 1 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", expirationHours)
	}

	return &JWTConfig{
		Secret:          secret,
		ExpirationHours: expirationHours,
	}, nil
}
