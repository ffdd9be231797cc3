package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AuthConfig holds the settings for API token issuance and credential
// verification.
type AuthConfig struct {
	JWTSecret       string
	TokenLifetime   time.Duration
	BcryptCost      int
	Pepper          string // optional global secret appended to passwords
	CoachPassword   string // bcrypt hash of the single coach account password
	CoachUser       string
}

// NewAuthConfig reads the auth settings from the environment. JWT_SECRET is
// required; TOKEN_LIFETIME_HOURS defaults to 24 and BCRYPT_COST to 12.
func NewAuthConfig() (*AuthConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	lifetimeStr := os.Getenv("TOKEN_LIFETIME_HOURS")
	if lifetimeStr == "" {
		lifetimeStr = "24"
	}
	lifetimeHours, err := strconv.Atoi(lifetimeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_LIFETIME_HOURS: %v", err)
	}

	costStr := os.Getenv("BCRYPT_COST")
	if costStr == "" {
		costStr = "12"
	}
	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
	}

	cfg := &AuthConfig{
		JWTSecret:     secret,
		TokenLifetime: time.Duration(lifetimeHours) * time.Hour,
		BcryptCost:    cost,
		Pepper:        os.Getenv("PASSWORD_PEPPER"),
		CoachUser:     os.Getenv("COACH_USER"),
		CoachPassword: os.Getenv("COACH_PASSWORD_HASH"),
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AuthConfig) normalize() error {
	if c.TokenLifetime < time.Hour {
		return fmt.Errorf("TOKEN_LIFETIME_HOURS must be at least 1 hour, got: %s", c.TokenLifetime)
	}
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

// HashPassword hashes a password using bcrypt, with the pepper appended
// when one is configured.
func (c *AuthConfig) HashPassword(pw string) (string, error) {
	password := pw
	if c.Pepper != "" {
		password = pw + c.Pepper
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a stored bcrypt hash.
func (c *AuthConfig) VerifyPassword(pw, storedHash string) bool {
	password := pw
	if c.Pepper != "" {
		password = pw + c.Pepper
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}
