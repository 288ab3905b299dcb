package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenUse distinguishes access tokens from refresh tokens.
type TokenUse string

const (
	UseAccess  TokenUse = "access"
	UseRefresh TokenUse = "refresh"
)

// Claims carried by both token kinds. Subject holds the user id.
type Claims struct {
	jwt.RegisteredClaims

	Use         TokenUse `json:"use"`
	Username    string   `json:"username,omitempty"`
	Email       string   `json:"email,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// Identity is the user data stamped into issued tokens.
type Identity struct {
	UserID      string
	Username    string
	Email       string
	Roles       []string
	Permissions []string
}

// NewClaims builds claims for use with a fresh jti.
func NewClaims(use TokenUse, id Identity, issuer string, audience []string, ttl time.Duration, now time.Time) Claims {
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Use:      use,
		Username: id.Username,
		Email:    id.Email,
	}
	if len(audience) > 0 {
		c.Audience = jwt.ClaimStrings(audience)
	}
	// Roles and permissions only matter to resource servers.
	if use == UseAccess {
		c.Roles = id.Roles
		c.Permissions = id.Permissions
	}
	return c
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// Identity returns the user identity held by the claims.
func (c *Claims) Identity() Identity {
	return Identity{
		UserID:      c.Subject,
		Username:    c.Username,
		Email:       c.Email,
		Roles:       c.Roles,
		Permissions: c.Permissions,
	}
}

// Remaining returns how long the token stays valid after now, never negative.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(c.ExpiresAt.Sub(now), 0)
}

// ValidateIssuer checks the issuer; an empty expectation is not enforced.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" || c.Issuer == expected {
		return nil
	}
	return ErrIssuer
}

// ValidateAudience checks that at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateUse rejects tokens minted for a different purpose.
func (c *Claims) ValidateUse(expected TokenUse) error {
	if expected == "" || c.Use == expected {
		return nil
	}
	return ErrInvalidClaim
}

// ValidateExpiry ensures the token hasn't expired and isn't used before nbf.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryWithLeeway(0)
}

// ValidateExpiryWithLeeway adds a grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	return c.ValidateExpiryAt(time.Now(), leeway)
}

// ValidateExpiryAt checks exp and nbf against now. A token without exp is
// rejected since every token this service mints carries one.
func (c *Claims) ValidateExpiryAt(now time.Time, leeway time.Duration) error {
	now = now.UTC()

	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
