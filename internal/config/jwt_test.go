package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
}

func TestNewJWTConfig_CustomExpiration(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("JWT_EXPIRATION_HOURS", "72")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, 72, cfg.ExpirationHours)
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := NewJWTConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestNewJWTConfig_InvalidExpiration(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key")

	t.Run("not a number", func(t *testing.T) {
		t.Setenv("JWT_EXPIRATION_HOURS", "abc")
		cfg, err := NewJWTConfig()
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid JWT_EXPIRATION_HOURS")
	})

	t.Run("below minimum", func(t *testing.T) {
		t.Setenv("JWT_EXPIRATION_HOURS", "0")
		cfg, err := NewJWTConfig()
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "at least 1 hour")
	})
}
