package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/config"
)

func testJWTService(lifetime time.Duration) *JWTService {
	return NewJWTService(&config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenLifetime: lifetime,
	})
}

func TestJWT_RoundTrip(t *testing.T) {
	svc := testJWTService(time.Hour)

	token, err := svc.GenerateToken("coach")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "coach", claims.Username)
	assert.Equal(t, "coach", claims.Subject)
}

func TestJWT_Expired(t *testing.T) {
	svc := testJWTService(-time.Minute)

	token, err := svc.GenerateToken("coach")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestJWT_WrongSecret(t *testing.T) {
	token, err := testJWTService(time.Hour).GenerateToken("coach")
	require.NoError(t, err)

	other := NewJWTService(&config.AuthConfig{JWTSecret: "different-secret", TokenLifetime: time.Hour})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWT_EmptyAndMalformed(t *testing.T) {
	svc := testJWTService(time.Hour)

	_, err := svc.ValidateToken("")
	assert.Error(t, err)

	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc123", "abc123", true},
		{"bearer abc123", "abc123", true},
		{"Bearer", "", false},
		{"Basic abc123", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		r, _ := http.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		got, ok := bearerToken(r)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}
