package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims is the claims segment of an admin session token
type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Claims are the attributes the gate reads from a session token
type Claims struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the token is no longer valid at now
func (c *Claims) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

var parser = jwt.NewParser()

// ParseClaims decodes the claims of a compact token without verifying its
// signature. Signature trust belongs to the issuer; the gate only checks
// shape and expiry.
func ParseClaims(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", ErrTokenMalformed)
	}

	var tc tokenClaims
	if _, _, err := parser.ParseUnverified(raw, &tc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}

	if tc.Email == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrTokenMalformed)
	}
	if tc.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrTokenMalformed)
	}

	return &Claims{
		Email:     tc.Email,
		ExpiresAt: tc.ExpiresAt.Time,
	}, nil
}
