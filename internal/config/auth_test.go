package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("TOKEN_LIFETIME_HOURS", "")
	t.Setenv("BCRYPT_COST", "")

	cfg, err := NewAuthConfig()
	require.NoError(t, err)

	assert.Equal(t, "test-secret-key", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenLifetime)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestNewAuthConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := NewAuthConfig()
	assert.Error(t, err)
}

func TestNewAuthConfig_Validation(t *testing.T) {
	tests := []struct {
		name     string
		lifetime string
		cost     string
		wantErr  bool
	}{
		{name: "valid custom values", lifetime: "72", cost: "10"},
		{name: "zero lifetime", lifetime: "0", wantErr: true},
		{name: "non-numeric lifetime", lifetime: "soon", wantErr: true},
		{name: "cost too low", cost: "4", wantErr: true},
		{name: "cost too high", cost: "20", wantErr: true},
		{name: "non-numeric cost", cost: "expensive", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "test-secret-key")
			t.Setenv("TOKEN_LIFETIME_HOURS", tt.lifetime)
			t.Setenv("BCRYPT_COST", tt.cost)

			_, err := NewAuthConfig()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := &AuthConfig{BcryptCost: 10}

	hash, err := cfg.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, cfg.VerifyPassword("correct horse battery staple", hash))
	assert.False(t, cfg.VerifyPassword("wrong password", hash))
}

func TestHashAndVerifyPassword_Pepper(t *testing.T) {
	peppered := &AuthConfig{BcryptCost: 10, Pepper: "global-pepper"}
	plain := &AuthConfig{BcryptCost: 10}

	hash, err := peppered.HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("hunter2", hash))
	assert.False(t, plain.VerifyPassword("hunter2", hash), "hash is bound to the pepper")
}
